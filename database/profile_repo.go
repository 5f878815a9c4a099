package database

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
	"gorm.io/gorm"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// FindByID returns the profile of the given identity
func (r *ProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("profile")
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Add inserts a profile; created_at is set by the database
func (r *ProfileRepo) Add(ctx context.Context, profile *models.Profile) error {
	profile.CreatedAt = time.Time{}
	err := r.db.WithContext(ctx).Create(profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewAlreadyExists("profile")
	}
	return err
}
