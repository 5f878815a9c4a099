// Package memory is an in-process implementation of database.Stores used
// by tests and by DB_TYPE=memory for local runs. It reproduces the
// document-store contract: store-assigned ids, a strictly increasing
// server clock and idempotent array union/remove.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
)

type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	last        time.Time
	posts       map[string]*models.BlogPost
	profiles    map[string]*models.Profile
	comments    map[string]*models.LegacyComment
	credentials map[string]*models.Credential
}

var _ database.Stores = (*Store)(nil)

func New() *Store {
	return &Store{
		now:         time.Now,
		posts:       make(map[string]*models.BlogPost),
		profiles:    make(map[string]*models.Profile),
		comments:    make(map[string]*models.LegacyComment),
		credentials: make(map[string]*models.Credential),
	}
}

// WithClock replaces the server clock. Timestamps stay strictly increasing
// even if the clock does not advance.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) BlogPostRepo() database.PostStore         { return postRepo{s} }
func (s *Store) ProfileRepo() database.ProfileStore       { return profileRepo{s} }
func (s *Store) CommentRepo() database.CommentStore       { return commentRepo{s} }
func (s *Store) CredentialRepo() database.CredentialStore { return credentialRepo{s} }

// PutLegacyComment seeds the comments table that old posts reference.
func (s *Store) PutLegacyComment(c models.LegacyComment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.ID] = &c
}

// PutPost stores post as-is, keeping its ID and CreatedAt. Used to seed
// fixtures such as legacy comment references.
func (s *Store) PutPost(post models.BlogPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = clonePost(&post)
	if post.CreatedAt.After(s.last) {
		s.last = post.CreatedAt
	}
}

// serverTime must be called with mu held for writing.
func (s *Store) serverTime() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

type postRepo struct{ s *Store }

func (r postRepo) FindAll(_ context.Context) ([]*models.BlogPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := make([]*models.BlogPost, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		posts = append(posts, clonePost(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (r postRepo) FindByID(_ context.Context, id string) (*models.BlogPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, errs.NewNotFound("blog post")
	}
	return clonePost(p), nil
}

func (r postRepo) Add(_ context.Context, post *models.BlogPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post.ID = uuid.NewString()
	post.CreatedAt = r.s.serverTime()
	post.Likes = []string{}
	post.Comments = []models.CommentEntry{}
	r.s.posts[post.ID] = clonePost(post)
	return nil
}

func (r postRepo) ArrayUnion(_ context.Context, id string, field models.ArrayField, value any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return errs.NewNotFound("blog post")
	}

	switch field {
	case models.LikesField:
		userID, err := asString(value)
		if err != nil {
			return err
		}
		if !p.LikedBy(userID) {
			p.Likes = append(p.Likes, userID)
		}
	case models.CommentsField:
		entry, err := asCommentEntry(value)
		if err != nil {
			return err
		}
		for _, existing := range p.Comments {
			if sameEntry(existing, entry) {
				return nil
			}
		}
		p.Comments = append(p.Comments, entry)
	default:
		return errs.NewUnsupportedFieldError("blog post", string(field))
	}
	return nil
}

func (r postRepo) ArrayRemove(_ context.Context, id string, field models.ArrayField, value any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return errs.NewNotFound("blog post")
	}

	switch field {
	case models.LikesField:
		userID, err := asString(value)
		if err != nil {
			return err
		}
		kept := make([]string, 0, len(p.Likes))
		for _, id := range p.Likes {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.Likes = kept
	case models.CommentsField:
		entry, err := asCommentEntry(value)
		if err != nil {
			return err
		}
		kept := make([]models.CommentEntry, 0, len(p.Comments))
		for _, existing := range p.Comments {
			if !sameEntry(existing, entry) {
				kept = append(kept, existing)
			}
		}
		p.Comments = kept
	default:
		return errs.NewUnsupportedFieldError("blog post", string(field))
	}
	return nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) FindByID(_ context.Context, id string) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, errs.NewNotFound("profile")
	}
	profile := *p
	return &profile, nil
}

func (r profileRepo) Add(_ context.Context, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[profile.ID]; ok {
		return errs.NewAlreadyExists("profile")
	}
	profile.CreatedAt = r.s.serverTime()
	stored := *profile
	r.s.profiles[profile.ID] = &stored
	return nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) FindByID(_ context.Context, id string) (*models.LegacyComment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, errs.NewNotFound("comment")
	}
	comment := *c
	return &comment, nil
}

type credentialRepo struct{ s *Store }

func (r credentialRepo) Add(_ context.Context, credential *models.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := normalizeEmail(credential.Email)
	if _, ok := r.s.credentials[email]; ok {
		return errs.NewAlreadyExists("credential")
	}
	credential.Email = email
	credential.CreatedAt = r.s.serverTime()
	stored := *credential
	r.s.credentials[email] = &stored
	return nil
}

func (r credentialRepo) FindByEmail(_ context.Context, email string) (*models.Credential, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.credentials[normalizeEmail(email)]
	if !ok {
		return nil, errs.NewNotFound("credential")
	}
	credential := *c
	return &credential, nil
}

func clonePost(p *models.BlogPost) *models.BlogPost {
	clone := *p
	clone.Likes = append([]string{}, p.Likes...)
	clone.Comments = append([]models.CommentEntry{}, p.Comments...)
	return &clone
}

func asString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", errs.NewInvalidFieldError("likes", "expected a user id")
	}
	return s, nil
}

func asCommentEntry(value any) (models.CommentEntry, error) {
	switch v := value.(type) {
	case models.CommentEntry:
		return v, nil
	case models.Comment:
		return models.InlineComment(v), nil
	case string:
		return models.CommentRef(v), nil
	default:
		return models.CommentEntry{}, errs.NewInvalidFieldError("comments", "expected a comment")
	}
}

// sameEntry compares entries by their JSON encoding, matching how the
// postgres store compares jsonb elements.
func sameEntry(a, b models.CommentEntry) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
