package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog entry.
type Post struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Summary     string         `gorm:"type:varchar(512)" json:"summary"`
	Content     string         `gorm:"type:text" json:"content"`
	Thumbnail   string         `gorm:"type:varchar(512)" json:"thumbnail"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Post) TableName() string {
	return "posts"
}
