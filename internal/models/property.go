package models

import (
	"time"
)

type Property struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"titulo"`
	Description string    `gorm:"type:text;not null" json:"descripcion"`
	Rooms       int       `gorm:"not null" json:"habitaciones"`
	Parking     int       `gorm:"not null" json:"estacionamiento"`
	Bathrooms   int       `gorm:"not null" json:"wc"`
	Street      string    `gorm:"type:varchar(255);not null" json:"calle"`
	Lat         string    `gorm:"type:varchar(60);not null" json:"lat"`
	Lng         string    `gorm:"type:varchar(60);not null" json:"lng"`
	Image       string    `gorm:"type:varchar(255)" json:"imagen"`
	Published   bool      `gorm:"not null;default:false" json:"publicado"`
	CategoryID  uint64    `gorm:"not null" json:"categoriaId"`
	PriceID     uint64    `gorm:"not null" json:"precioId"`
	UserID      uint64    `gorm:"not null" json:"usuarioId"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Category Category  `gorm:"foreignKey:CategoryID" json:"categoria,omitempty"`
	Price    Price     `gorm:"foreignKey:PriceID" json:"precio,omitempty"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Messages []Message `gorm:"foreignKey:PropertyID" json:"-"`
}
