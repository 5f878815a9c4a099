package database

import (
	"context"

	"github.com/rpupo63/blog-platform/models"
)

// PostStore is the document-store surface for posts. ArrayUnion and
// ArrayRemove are idempotent set operations applied atomically by the
// store; callers never read-modify-write the arrays themselves.
type PostStore interface {
	// FindAll returns every post ordered by CreatedAt, newest first.
	FindAll(ctx context.Context) ([]*models.BlogPost, error)
	// FindByID returns errs.ErrNotFound when the post does not exist.
	FindByID(ctx context.Context, id string) (*models.BlogPost, error)
	// Add stores a new post. The store assigns ID and CreatedAt and
	// starts Likes and Comments empty.
	Add(ctx context.Context, post *models.BlogPost) error
	// ArrayUnion appends value to field unless an equal element is present.
	ArrayUnion(ctx context.Context, id string, field models.ArrayField, value any) error
	// ArrayRemove removes every element of field equal to value.
	ArrayRemove(ctx context.Context, id string, field models.ArrayField, value any) error
}

type ProfileStore interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	// Add stores a profile with a store-assigned CreatedAt.
	Add(ctx context.Context, profile *models.Profile) error
}

// CommentStore reads the standalone comments older posts reference by id.
type CommentStore interface {
	FindByID(ctx context.Context, id string) (*models.LegacyComment, error)
}

type CredentialStore interface {
	// Add returns errs.ErrAlreadyExists when the email is taken.
	Add(ctx context.Context, credential *models.Credential) error
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
}

// Stores groups the repositories the handlers depend on.
type Stores interface {
	BlogPostRepo() PostStore
	ProfileRepo() ProfileStore
	CommentRepo() CommentStore
	CredentialRepo() CredentialStore
}
