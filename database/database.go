package database

import (
	"github.com/rpupo63/blog-platform/models"
	"gorm.io/gorm"
)

type Database struct {
	blogPostRepo   *BlogPostRepo
	profileRepo    *ProfileRepo
	commentRepo    *CommentRepo
	credentialRepo *CredentialRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		blogPostRepo:   NewBlogPostRepo(db),
		profileRepo:    NewProfileRepo(db),
		commentRepo:    NewCommentRepo(db),
		credentialRepo: NewCredentialRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogPostRepo() PostStore {
	return d.blogPostRepo
}

func (d Database) ProfileRepo() ProfileStore {
	return d.profileRepo
}

func (d Database) CommentRepo() CommentStore {
	return d.commentRepo
}

func (d Database) CredentialRepo() CredentialStore {
	return d.credentialRepo
}

// Migrate creates or updates the tables backing every repository.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BlogPost{},
		&models.Profile{},
		&models.LegacyComment{},
		&models.Credential{},
	)
}
