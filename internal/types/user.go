package types

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password        string         `gorm:"column:password;not null" json:"-"`
	Username        string         `gorm:"column:username;not null;uniqueIndex" json:"username"`
	AvatarBucketKey string         `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       string         `gorm:"-" json:"avatar_url,omitempty"`
	AvatarColorHex  string         `gorm:"column:avatar_color_hex" json:"avatar_color_hex"`
	PointsTotal     int            `gorm:"column:points_total;not null;default:0" json:"points_total"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
