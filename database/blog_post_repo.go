package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindAll returns all blog posts, newest first. id breaks ties so the
// listing, and with it every post's successor, is stable.
func (r *BlogPostRepo) FindAll(ctx context.Context) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&blogPosts).Error
	return blogPosts, err
}

// FindByID returns a blog post by its ID
func (r *BlogPostRepo) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&blogPost).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("blog post")
	}
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// Add inserts a new blog post. id and created_at come from column defaults
// and are read back through RETURNING.
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) error {
	blogPost.ID = ""
	blogPost.CreatedAt = time.Time{}
	blogPost.Likes = datatypes.JSONSlice[string]{}
	blogPost.Comments = datatypes.JSONSlice[models.CommentEntry]{}
	return r.db.WithContext(ctx).Create(blogPost).Error
}

// ArrayUnion appends value to the jsonb array column unless it already
// contains an equal element. Runs as a single UPDATE.
func (r *BlogPostRepo) ArrayUnion(ctx context.Context, id string, field models.ArrayField, value any) error {
	if !field.Valid() {
		return errs.NewUnsupportedFieldError("blog post", string(field))
	}

	element, err := jsonArrayOf(value)
	if err != nil {
		return err
	}

	column := string(field)
	result := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		Where(fmt.Sprintf("NOT (%s @> ?::jsonb)", column), element).
		UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s || ?::jsonb", column), element))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, id)
	}
	return nil
}

// ArrayRemove drops every element equal to value from the jsonb array column.
func (r *BlogPostRepo) ArrayRemove(ctx context.Context, id string, field models.ArrayField, value any) error {
	if !field.Valid() {
		return errs.NewUnsupportedFieldError("blog post", string(field))
	}

	element, err := json.Marshal(value)
	if err != nil {
		return err
	}

	column := string(field)
	expr := fmt.Sprintf(
		"COALESCE((SELECT jsonb_agg(e) FROM jsonb_array_elements(%s) AS e WHERE e <> ?::jsonb), '[]'::jsonb)",
		column,
	)
	result := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(expr, string(element)))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("blog post")
	}
	return nil
}

func (r *BlogPostRepo) ensureExists(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewNotFound("blog post")
	}
	return nil
}

// jsonArrayOf encodes value as a one-element jsonb array literal, the form
// both @> and || expect.
func jsonArrayOf(value any) (string, error) {
	data, err := json.Marshal([]any{value})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
