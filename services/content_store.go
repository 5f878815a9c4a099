package services

import (
	"context"
	"errors"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxCommentLookups bounds concurrent reads when resolving legacy comment ids.
const maxCommentLookups = 8

// ContentStore is the blog's view of the document store. Every method is
// one or two store calls; nothing is cached between requests.
type ContentStore struct {
	posts    database.PostStore
	comments database.CommentStore
	logger   zerolog.Logger
}

func NewContentStore(posts database.PostStore, comments database.CommentStore) *ContentStore {
	return &ContentStore{
		posts:    posts,
		comments: comments,
		logger:   log.With().Str("component", "contentStore").Logger(),
	}
}

// ListPosts returns every post, newest first.
func (s *ContentStore) ListPosts(ctx context.Context) ([]*models.BlogPost, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "blog posts", err)
	}
	return posts, nil
}

// GetPost returns nil without error when the post does not exist.
func (s *ContentStore) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errs.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}
	return post, nil
}

// CreatePost stores a post owned by authorID and returns its store-assigned id.
func (s *ContentStore) CreatePost(ctx context.Context, fields models.NewBlogPost, authorID string) (string, error) {
	post := &models.BlogPost{
		Title:       fields.Title,
		ImageHeader: fields.ImageHeader,
		SubHeaders:  fields.SubHeaders,
		AuthorEmail: fields.AuthorEmail,
		Content:     fields.Content,
		ImageData:   fields.ImageData,
		AuthorID:    authorID,
	}
	if err := s.posts.Add(ctx, post); err != nil {
		return "", errs.NewDatabaseError("create", "blog post", err)
	}
	return post.ID, nil
}

// ToggleLike re-reads the post and then issues ArrayRemove or ArrayUnion.
// There is no compare-and-swap: two racing toggles by the same user can
// both pick the same branch, which is harmless because both operations
// are idempotent. A missing post is a no-op.
func (s *ContentStore) ToggleLike(ctx context.Context, postID, userID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil || post == nil {
		return err
	}

	if post.LikedBy(userID) {
		err = s.posts.ArrayRemove(ctx, postID, models.LikesField, userID)
	} else {
		err = s.posts.ArrayUnion(ctx, postID, models.LikesField, userID)
	}
	if err != nil {
		return errs.NewDatabaseError("toggle like on", "blog post", err)
	}
	return nil
}

// AppendComment adds comment with the store's union-into-array primitive.
// A comment identical to an existing one (same text, author and
// timestamp) is absorbed by the union.
func (s *ContentStore) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	if err := s.posts.ArrayUnion(ctx, postID, models.CommentsField, models.InlineComment(comment)); err != nil {
		return errs.NewDatabaseError("comment on", "blog post", err)
	}
	return nil
}

// ResolveComments turns a post's comment entries into comments, fetching
// legacy references from the comments table. References that cannot be
// resolved are dropped; order is preserved.
func (s *ContentStore) ResolveComments(ctx context.Context, entries []models.CommentEntry) []models.Comment {
	resolved := make([]*models.Comment, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCommentLookups)
	for i, entry := range entries {
		if !entry.IsReference() {
			c := *entry.Inline
			resolved[i] = &c
			continue
		}

		i, ref := i, entry.Ref
		g.Go(func() error {
			legacy, err := s.comments.FindByID(gctx, ref)
			if err != nil {
				if !errs.IsNotFound(err) && !errors.Is(err, context.Canceled) {
					s.logger.Warn().Err(err).Str("commentID", ref).Msg("failed to resolve legacy comment")
				}
				return nil
			}
			c := legacy.Comment()
			resolved[i] = &c
			return nil
		})
	}
	_ = g.Wait()

	comments := make([]models.Comment, 0, len(entries))
	for _, c := range resolved {
		if c != nil {
			comments = append(comments, *c)
		}
	}
	return comments
}
