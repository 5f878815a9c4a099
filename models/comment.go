package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Comment is embedded in a post's comments array. CreatedAt is the
// app server's clock, formatted as RFC 3339 with milliseconds.
type Comment struct {
	Text        string `json:"text"`
	AuthorEmail string `json:"userEmail"`
	CreatedAt   string `json:"createdAt"`
}

const CommentTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func NewComment(text, authorEmail string, now time.Time) Comment {
	return Comment{
		Text:        text,
		AuthorEmail: authorEmail,
		CreatedAt:   now.UTC().Format(CommentTimeLayout),
	}
}

// CommentEntry is one element of a post's comments array: either an inline
// Comment or, for older posts, the id of a row in the comments table.
// Only inline entries are written.
type CommentEntry struct {
	Inline *Comment
	Ref    string
}

func InlineComment(c Comment) CommentEntry {
	return CommentEntry{Inline: &c}
}

func CommentRef(id string) CommentEntry {
	return CommentEntry{Ref: id}
}

func (e CommentEntry) IsReference() bool {
	return e.Inline == nil
}

func (e CommentEntry) MarshalJSON() ([]byte, error) {
	if e.Inline != nil {
		return json.Marshal(e.Inline)
	}
	return json.Marshal(e.Ref)
}

func (e *CommentEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty comment entry")
	}

	switch data[0] {
	case '"':
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*e = CommentRef(ref)
		return nil
	case '{':
		var c Comment
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		*e = InlineComment(c)
		return nil
	default:
		return errors.New("comment entry must be a string or an object")
	}
}

// LegacyComment is a row of the comments table that older posts reference by id.
type LegacyComment struct {
	ID          string `json:"id" gorm:"type:text;primaryKey"`
	Text        string `json:"text" gorm:"type:text;not null"`
	AuthorEmail string `json:"userEmail" gorm:"type:text;not null;default:''"`
	CreatedAt   string `json:"createdAt" gorm:"type:text;not null;default:''"`
}

func (LegacyComment) TableName() string {
	return "comments"
}

func (c LegacyComment) Comment() Comment {
	return Comment{Text: c.Text, AuthorEmail: c.AuthorEmail, CreatedAt: c.CreatedAt}
}
