package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
	"gorm.io/gorm"
)

type CredentialRepo struct {
	db *gorm.DB
}

func NewCredentialRepo(db *gorm.DB) *CredentialRepo {
	return &CredentialRepo{db}
}

// Add inserts a credential. Emails are compared case-insensitively.
func (r *CredentialRepo) Add(ctx context.Context, credential *models.Credential) error {
	credential.Email = normalizeEmail(credential.Email)
	credential.CreatedAt = time.Time{}

	err := r.db.WithContext(ctx).Create(credential).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewAlreadyExists("credential")
	}
	return err
}

func (r *CredentialRepo) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&credential).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("credential")
	}
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
