package repository

import (
	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByToken finds a user holding a pending confirmation/reset token
	FindByToken(token string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// PropertyRepository defines the interface for property data access
type PropertyRepository interface {
	// Create creates a new property
	Create(property *models.Property) error

	// FindByID finds a property by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Property, error)

	// FindByIDWithMessages loads a property with its messages and each
	// sender's public profile columns (the password column is excluded in
	// the query itself).
	FindByIDWithMessages(id uint64) (*models.Property, error)

	// ListByOwner returns one page of a user's properties plus the total
	// count; the two queries run concurrently.
	ListByOwner(userID uint64, params utils.PaginationParams) ([]models.Property, int64, error)

	// ListPublished returns published properties with category and price
	// preloaded, optionally limited (limit <= 0 means no limit).
	ListPublished(limit int) ([]models.Property, error)

	// ListPublishedByCategory returns published properties in a category
	ListPublishedByCategory(categoryID uint64) ([]models.Property, error)

	// SearchPublished returns published properties whose title or
	// description contains the term
	SearchPublished(term string) ([]models.Property, error)

	// Update persists changes to a property
	Update(property *models.Property) error

	// Delete removes a property row
	Delete(id uint64) error
}

// LookupRepository provides the seeded reference data
type LookupRepository interface {
	// Lookups fetches all categories and prices; the two reads are issued
	// concurrently and awaited together.
	Lookups() ([]models.Category, []models.Price, error)

	// FindCategory finds a category by ID
	FindCategory(id uint64) (*models.Category, error)
}

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	// Create creates a new message
	Create(message *models.Message) error
}
