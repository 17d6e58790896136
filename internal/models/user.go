package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Confirmed    bool      `gorm:"not null;default:false" json:"-"`
	Token        string    `gorm:"type:varchar(512)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Properties []Property `gorm:"foreignKey:UserID" json:"-"`
	Messages   []Message  `gorm:"foreignKey:UserID" json:"-"`
}
