package models

import (
	"time"
)

type Message struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Body       string    `gorm:"type:text;not null" json:"mensaje"`
	PropertyID uint64    `gorm:"not null" json:"propiedadId"`
	UserID     uint64    `gorm:"not null" json:"usuarioId"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Property Property `gorm:"foreignKey:PropertyID" json:"-"`
	Sender   User     `gorm:"foreignKey:UserID" json:"usuario,omitempty"`
}
