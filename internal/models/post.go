package models

import (
	"time"
)

// Post is a user-authored post. Author name and avatar are denormalized
// snapshots taken at creation time, not live joins.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	AuthorName   string    `gorm:"not null" json:"name"`
	AuthorAvatar string    `json:"avatar"`
	Likes        []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"likes"`
	Comments     []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	CreatedAt    time.Time `json:"date"`
	UpdatedAt    time.Time `json:"-"`
}

// Like records a user's like on a post. The (UserID, PostID) pair is unique,
// which is what makes like/unlike detectable atomically.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a comment on a post, carrying the same author snapshots as posts.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PostID       uint      `gorm:"not null;index" json:"-"`
	UserID       uint      `gorm:"not null" json:"user_id"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	AuthorName   string    `gorm:"not null" json:"name"`
	AuthorAvatar string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}
