package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a message in a channel. Posts have no edit operation: they are
// only ever created and deleted. Author and channel are fixed at creation.
type Post struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Content   string   `gorm:"type:text;not null" json:"content"`
	ImageURL  string   `json:"image_url,omitempty"`
	UserID    uint     `gorm:"not null;index" json:"user_id"`
	User      User     `gorm:"foreignKey:UserID" json:"user"`
	ChannelID uint     `gorm:"not null;index" json:"channel_id"`
	Channel   *Channel `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
	// LikeCount is not persisted; computed at query time
	LikeCount int64 `gorm:"->" json:"like_count"`
	// CommentCount is not persisted; computed at query time
	CommentCount int64 `gorm:"->" json:"comment_count"`
	// UserLiked indicates whether the requesting user liked this post (computed)
	UserLiked bool           `gorm:"->" json:"user_liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
