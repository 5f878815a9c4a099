package models

import (
	"time"

	"gorm.io/datatypes"
)

// ArrayField names one of the array columns of a post that supports
// set-style union and removal.
type ArrayField string

const (
	LikesField    ArrayField = "likes"
	CommentsField ArrayField = "comments"
)

// Valid reports whether f is one of the post's array columns.
func (f ArrayField) Valid() bool {
	return f == LikesField || f == CommentsField
}

// BlogPost is a post together with its likes and embedded comments.
// ID and CreatedAt are assigned by the store.
type BlogPost struct {
	ID          string                            `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string                            `json:"title" gorm:"type:text;not null"`
	ImageHeader string                            `json:"imageHeader" gorm:"type:text;not null;default:''"`
	SubHeaders  string                            `json:"subHeaders" gorm:"type:text;not null;default:''"`
	AuthorEmail string                            `json:"email" gorm:"type:text;not null;default:''"`
	Content     string                            `json:"content" gorm:"type:text;not null"`
	ImageData   string                            `json:"imageUrl" gorm:"type:text;not null;default:''"`
	Likes       datatypes.JSONSlice[string]       `json:"likes" gorm:"type:jsonb;not null;default:'[]'"`
	Comments    datatypes.JSONSlice[CommentEntry] `json:"comments" gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt   time.Time                         `json:"createdAt" gorm:"type:timestamptz;not null;default:now();autoCreateTime:false;index:idx_blog_posts_created_at,sort:desc"`
	AuthorID    string                            `json:"userId" gorm:"type:text;not null;index"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// LikedBy reports whether userID is in the post's like set.
func (p *BlogPost) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// NewBlogPost holds the user-supplied fields of a post about to be created.
type NewBlogPost struct {
	Title       string
	ImageHeader string
	SubHeaders  string
	AuthorEmail string
	Content     string
	ImageData   string
}
