package model

import (
	"time"

	"gorm.io/gorm"
)

// UserModel is a read-only projection of the platform's users table.
type UserModel struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey"`
	Username       string         `gorm:"column:username;type:varchar(255);not null"`
	ProfilePicture string         `gorm:"column:profile_picture;type:varchar(500)"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (UserModel) TableName() string {
	return "users"
}

// FollowerModel is a read-only projection of the follower relation.
type FollowerModel struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey"`
	FollowerID  string `gorm:"column:follower_id;type:uuid;not null"`
	FollowingID string `gorm:"column:following_id;type:uuid;not null;index"`
}

func (FollowerModel) TableName() string {
	return "followers"
}
