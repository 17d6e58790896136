package models

type Category struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(60);not null" json:"nombre"`

	// Relations
	Properties []Property `gorm:"foreignKey:CategoryID" json:"-"`
}
