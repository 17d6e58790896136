package repository

import (
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/jcamil/bienes-raices/internal/database"
	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/utils"
)

// GormPropertyRepository is a GORM implementation of PropertyRepository
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new PropertyRepository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &GormPropertyRepository{db: db}
}

// Create creates a new property
func (r *GormPropertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

// FindByID finds a property by ID with optional preloading
func (r *GormPropertyRepository) FindByID(id uint64, preload ...string) (*models.Property, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var property models.Property
	if err := query.First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// FindByIDWithMessages loads a property with its inbox. The sender join
// selects only public profile columns so the password hash never leaves
// the database. Messages keep storage order; no sort is imposed.
func (r *GormPropertyRepository) FindByIDWithMessages(id uint64) (*models.Property, error) {
	var property models.Property
	err := r.db.
		Preload("Messages").
		Preload("Messages.Sender", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// ListByOwner returns one page of the owner's properties plus the total
// count. Page and count are independent reads, issued concurrently and
// awaited together; there is no atomicity guarantee between them.
func (r *GormPropertyRepository) ListByOwner(userID uint64, params utils.PaginationParams) ([]models.Property, int64, error) {
	var (
		properties []models.Property
		total      int64
	)

	var g errgroup.Group
	g.Go(func() error {
		return r.db.
			Preload("Category").
			Preload("Price").
			Preload("Messages").
			Where("user_id = ?", userID).
			Scopes(database.Paginate(params)).
			Find(&properties).Error
	})
	g.Go(func() error {
		return r.db.
			Model(&models.Property{}).
			Where("user_id = ?", userID).
			Count(&total).Error
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// ListPublished returns published properties with lookups preloaded
func (r *GormPropertyRepository) ListPublished(limit int) ([]models.Property, error) {
	query := r.db.
		Preload("Category").
		Preload("Price").
		Where("published = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// ListPublishedByCategory returns published properties in a category
func (r *GormPropertyRepository) ListPublishedByCategory(categoryID uint64) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.
		Preload("Category").
		Preload("Price").
		Where("published = ? AND category_id = ?", true, categoryID).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// SearchPublished returns published properties matching the term
func (r *GormPropertyRepository) SearchPublished(term string) ([]models.Property, error) {
	like := "%" + term + "%"

	var properties []models.Property
	err := r.db.
		Preload("Category").
		Preload("Price").
		Where("published = ?", true).
		Where("title LIKE ? OR description LIKE ?", like, like).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// Update persists changes to a property
func (r *GormPropertyRepository) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

// Delete removes a property row
func (r *GormPropertyRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Property{}, id).Error
}
