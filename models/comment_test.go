package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentEntryDecodesMixedArray(t *testing.T) {
	raw := `["legacy-1", {"text":"hi","userEmail":"ann@x.com","createdAt":"2024-01-01T00:00:00.000Z"}]`

	var entries []CommentEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Len(t, entries, 2)

	assert.True(t, entries[0].IsReference())
	assert.Equal(t, "legacy-1", entries[0].Ref)

	require.False(t, entries[1].IsReference())
	assert.Equal(t, "hi", entries[1].Inline.Text)
	assert.Equal(t, "ann@x.com", entries[1].Inline.AuthorEmail)
}

func TestCommentEntryRejectsOtherShapes(t *testing.T) {
	var entry CommentEntry
	assert.Error(t, json.Unmarshal([]byte(`42`), &entry))
}

func TestInlineCommentEncodesAsObject(t *testing.T) {
	c := NewComment("nice post", "bob@x.com", time.Date(2024, 5, 6, 7, 8, 9, 10_000_000, time.UTC))
	data, err := json.Marshal(InlineComment(c))
	require.NoError(t, err)

	assert.JSONEq(t, `{"text":"nice post","userEmail":"bob@x.com","createdAt":"2024-05-06T07:08:09.010Z"}`, string(data))
}

func TestBlogPostLikedBy(t *testing.T) {
	post := BlogPost{Likes: []string{"u1", "u2"}}
	assert.True(t, post.LikedBy("u2"))
	assert.False(t, post.LikedBy("u3"))
}

func TestArrayFieldValid(t *testing.T) {
	assert.True(t, LikesField.Valid())
	assert.True(t, CommentsField.Valid())
	assert.False(t, ArrayField("title").Valid())
}
