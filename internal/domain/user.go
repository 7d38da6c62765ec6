package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered trader account.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Username     string         `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Fullname     string         `gorm:"column:fullname" json:"fullname"`
	Contact      string         `gorm:"column:contact" json:"contact"`
	Location     string         `gorm:"column:location" json:"location"`
	Birthdate    string         `gorm:"column:birthdate" json:"birthdate"`
	Role         string         `gorm:"column:role;not null;default:member" json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
