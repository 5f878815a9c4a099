package database

import (
	"context"
	"errors"

	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
	"gorm.io/gorm"
)

// CommentRepo reads the comments table that predates embedded comments.
// Nothing writes to it anymore.
type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

func (r *CommentRepo) FindByID(ctx context.Context, id string) (*models.LegacyComment, error) {
	var comment models.LegacyComment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("comment")
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
