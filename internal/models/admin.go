package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a back-office account.
type Admin struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Username           string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"` // bumped to revoke all issued tokens
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`              // tokens issued before this are rejected
	IsSuper            bool           `gorm:"not null;default:false;index" json:"is_super"`
	LastLoginAt        *time.Time     `json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Admin) TableName() string {
	return "admins"
}
