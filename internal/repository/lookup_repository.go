package repository

import (
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/jcamil/bienes-raices/internal/models"
)

// GormLookupRepository is a GORM implementation of LookupRepository
type GormLookupRepository struct {
	db *gorm.DB
}

// NewLookupRepository creates a new LookupRepository
func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &GormLookupRepository{db: db}
}

// Lookups fetches categories and prices concurrently. Both are small
// seeded tables read by every property form.
func (r *GormLookupRepository) Lookups() ([]models.Category, []models.Price, error) {
	var (
		categories []models.Category
		prices     []models.Price
	)

	var g errgroup.Group
	g.Go(func() error {
		return r.db.Find(&categories).Error
	})
	g.Go(func() error {
		return r.db.Find(&prices).Error
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, prices, nil
}

// FindCategory finds a category by ID
func (r *GormLookupRepository) FindCategory(id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
