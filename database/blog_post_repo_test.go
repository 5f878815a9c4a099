package database

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	unionLikesSQL  = `UPDATE "blog_posts" SET "likes"=likes || $1::jsonb WHERE id = $2 AND NOT (likes @> $3::jsonb)`
	removeLikesSQL = `UPDATE "blog_posts" SET "likes"=COALESCE((SELECT jsonb_agg(e) FROM jsonb_array_elements(likes) AS e WHERE e <> $1::jsonb), '[]'::jsonb) WHERE id = $2`
	countPostSQL   = `SELECT count(*) FROM "blog_posts" WHERE id = $1`
)

func newMockBlogPostRepo(t *testing.T) (*BlogPostRepo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return NewBlogPostRepo(db), mock
}

func TestBlogPostRepoAddReadsStoreAssignedFields(t *testing.T) {
	repo, mock := newMockBlogPostRepo(t)
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO "blog_posts" .*RETURNING "id",.*"created_at"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "likes", "comments", "created_at"}).
			AddRow("post-1", []byte("[]"), []byte("[]"), createdAt))

	post := &models.BlogPost{
		ID:        "client-chosen",
		Title:     "Hello",
		Content:   "body",
		CreatedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		Likes:     []string{"someone"},
		AuthorID:  "u1",
	}
	require.NoError(t, repo.Add(context.Background(), post))

	assert.Equal(t, "post-1", post.ID)
	assert.True(t, createdAt.Equal(post.CreatedAt))
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogPostRepoFindAllOrdersNewestFirstWithTieBreak(t *testing.T) {
	repo, mock := newMockBlogPostRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blog_posts" ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "likes", "comments", "created_at"}).
			AddRow("p2", "second", []byte(`["u1"]`), []byte("[]"), now).
			AddRow("p1", "first", []byte("[]"), []byte(`["legacy-1"]`), now))

	posts, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].ID)
	assert.True(t, posts[0].LikedBy("u1"))
	require.Len(t, posts[1].Comments, 1)
	assert.Equal(t, "legacy-1", posts[1].Comments[0].Ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogPostRepoFindByIDNotFound(t *testing.T) {
	repo, mock := newMockBlogPostRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blog_posts" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogPostRepoArrayUnion(t *testing.T) {
	ctx := context.Background()
	element := `["u1"]`

	t.Run("appends when absent", func(t *testing.T) {
		repo, mock := newMockBlogPostRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(unionLikesSQL)).
			WithArgs(element, "post-1", element).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ArrayUnion(ctx, "post-1", models.LikesField, "u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already present is a no-op", func(t *testing.T) {
		repo, mock := newMockBlogPostRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(unionLikesSQL)).
			WithArgs(element, "post-1", element).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(countPostSQL)).
			WithArgs("post-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		assert.NoError(t, repo.ArrayUnion(ctx, "post-1", models.LikesField, "u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing post", func(t *testing.T) {
		repo, mock := newMockBlogPostRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(unionLikesSQL)).
			WithArgs(element, "missing", element).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(countPostSQL)).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.ArrayUnion(ctx, "missing", models.LikesField, "u1")
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("comments are unioned as whole objects", func(t *testing.T) {
		repo, mock := newMockBlogPostRepo(t)
		comment := models.InlineComment(models.Comment{Text: "hi", AuthorEmail: "ann@x.com", CreatedAt: "2024-05-01T12:00:00.000Z"})
		encoded, err := json.Marshal([]any{comment})
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "blog_posts" SET "comments"=comments || $1::jsonb WHERE id = $2 AND NOT (comments @> $3::jsonb)`)).
			WithArgs(string(encoded), "post-1", string(encoded)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ArrayUnion(ctx, "post-1", models.CommentsField, comment))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBlogPostRepoArrayRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes every equal element", func(t *testing.T) {
		repo, mock := newMockBlogPostRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(removeLikesSQL)).
			WithArgs(`"u1"`, "post-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ArrayRemove(ctx, "post-1", models.LikesField, "u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing post", func(t *testing.T) {
		repo, mock := newMockBlogPostRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(removeLikesSQL)).
			WithArgs(`"u1"`, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ArrayRemove(ctx, "missing", models.LikesField, "u1")
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBlogPostRepoRejectsUnknownArrayField(t *testing.T) {
	repo, mock := newMockBlogPostRepo(t)

	err := repo.ArrayUnion(context.Background(), "post-1", models.ArrayField("title"), "x")
	assert.ErrorIs(t, err, errs.ErrUnsupportedField)

	err = repo.ArrayRemove(context.Background(), "post-1", models.ArrayField("title"), "x")
	assert.ErrorIs(t, err, errs.ErrUnsupportedField)

	assert.NoError(t, mock.ExpectationsWereMet())
}
