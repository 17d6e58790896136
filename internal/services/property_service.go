package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/repository"
	"github.com/jcamil/bienes-raices/internal/storage"
	"github.com/jcamil/bienes-raices/internal/utils"
)

var (
	ErrPropertyNotFound  = errors.New("property not found")
	ErrNotOwner          = errors.New("user is not the owner of the property")
	ErrAlreadyPublished  = errors.New("property is already published")
	ErrMessageNotAllowed = errors.New("property does not exist")
)

// PropertyService handles the listing lifecycle: create, attach image and
// publish, edit, delete, toggle, public detail, messaging and inbox.
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	lookupRepo   repository.LookupRepository
	messageRepo  repository.MessageRepository
	uploads      *storage.Uploads
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(propertyRepo repository.PropertyRepository, lookupRepo repository.LookupRepository, messageRepo repository.MessageRepository, uploads *storage.Uploads) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		lookupRepo:   lookupRepo,
		messageRepo:  messageRepo,
		uploads:      uploads,
	}
}

// Lookups returns the seeded categories and prices for the property forms.
func (s *PropertyService) Lookups() ([]models.Category, []models.Price, error) {
	return s.lookupRepo.Lookups()
}

// ListMine returns one page of the user's properties and the page count.
func (s *PropertyService) ListMine(userID uint64, params utils.PaginationParams) ([]models.Property, int, int64, error) {
	properties, total, err := s.propertyRepo.ListByOwner(userID, params)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, utils.PageCount(total), total, nil
}

// CreateInput carries the validated fields for creation and edit.
type CreateInput struct {
	Title       string
	Description string
	Rooms       int
	Parking     int
	Bathrooms   int
	Street      string
	Lat         string
	Lng         string
	PriceID     uint64
	CategoryID  uint64
}

// Create stores a draft listing: no image, unpublished. Publication happens
// when the image is attached.
func (s *PropertyService) Create(userID uint64, input CreateInput) (*models.Property, error) {
	property := &models.Property{
		Title:       input.Title,
		Description: input.Description,
		Rooms:       input.Rooms,
		Parking:     input.Parking,
		Bathrooms:   input.Bathrooms,
		Street:      input.Street,
		Lat:         input.Lat,
		Lng:         input.Lng,
		PriceID:     input.PriceID,
		CategoryID:  input.CategoryID,
		UserID:      userID,
		Image:       "",
		Published:   false,
	}

	if err := s.propertyRepo.Create(property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return property, nil
}

// GetOwned loads a property and enforces the ownership invariant. Every
// mutating or sensitive-read operation goes through this check first.
func (s *PropertyService) GetOwned(id, userID uint64) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	if property.UserID != userID {
		return nil, ErrNotOwner
	}
	return property, nil
}

// GetDraft loads an owned property that has not been published yet; the
// image upload step refuses already-published listings.
func (s *PropertyService) GetDraft(id, userID uint64) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	if property.Published {
		return nil, ErrAlreadyPublished
	}
	if property.UserID != userID {
		return nil, ErrNotOwner
	}
	return property, nil
}

// AttachImage stores the image filename and publishes the listing in the
// same step.
func (s *PropertyService) AttachImage(property *models.Property, filename string) error {
	property.Image = filename
	property.Published = true
	if err := s.propertyRepo.Update(property); err != nil {
		return fmt.Errorf("failed to attach image: %w", err)
	}
	return nil
}

// Update replaces the mutable field set of an owned property.
func (s *PropertyService) Update(id, userID uint64, input CreateInput) error {
	property, err := s.GetOwned(id, userID)
	if err != nil {
		return err
	}

	property.Title = input.Title
	property.Description = input.Description
	property.Rooms = input.Rooms
	property.Parking = input.Parking
	property.Bathrooms = input.Bathrooms
	property.Street = input.Street
	property.Lat = input.Lat
	property.Lng = input.Lng
	property.PriceID = input.PriceID
	property.CategoryID = input.CategoryID

	if err := s.propertyRepo.Update(property); err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

// Delete removes the stored image first and the row second. If the image
// removal fails the row is kept and the error is surfaced; an orphaned row
// is preferred over an orphaned file.
func (s *PropertyService) Delete(id, userID uint64) error {
	property, err := s.GetOwned(id, userID)
	if err != nil {
		return err
	}

	if err := s.uploads.Remove(property.Image); err != nil {
		return fmt.Errorf("failed to remove property image: %w", err)
	}

	if err := s.propertyRepo.Delete(property.ID); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}

// TogglePublished flips the published flag of an owned property.
func (s *PropertyService) TogglePublished(id, userID uint64) error {
	property, err := s.GetOwned(id, userID)
	if err != nil {
		return err
	}

	property.Published = !property.Published
	if err := s.propertyRepo.Update(property); err != nil {
		return fmt.Errorf("failed to toggle property: %w", err)
	}
	return nil
}

// GetPublished loads a property for the public detail view. Only existing,
// published listings are visible, regardless of viewer.
func (s *PropertyService) GetPublished(id uint64) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(id, "Category", "Price")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	if !property.Published {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

// GetForMessage loads the message target. Existence is the only
// requirement; an unpublished listing can still receive messages.
func (s *PropertyService) GetForMessage(id uint64) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(id, "Category", "Price")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotAllowed
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return property, nil
}

// SubmitMessage persists a message from a visitor to the listing owner.
func (s *PropertyService) SubmitMessage(propertyID, senderID uint64, body string) error {
	message := &models.Message{
		Body:       body,
		PropertyID: propertyID,
		UserID:     senderID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// Inbox returns an owned property with its messages and each sender's
// public profile.
func (s *PropertyService) Inbox(id, userID uint64) (*models.Property, error) {
	property, err := s.propertyRepo.FindByIDWithMessages(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	if property.UserID != userID {
		return nil, ErrNotOwner
	}
	return property, nil
}

// Recent returns the latest published listings for the home page and the
// public API. limit <= 0 returns everything.
func (s *PropertyService) Recent(limit int) ([]models.Property, error) {
	properties, err := s.propertyRepo.ListPublished(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published properties: %w", err)
	}
	return properties, nil
}

// ByCategory returns a category and its published listings.
func (s *PropertyService) ByCategory(categoryID uint64) (*models.Category, []models.Property, error) {
	category, err := s.lookupRepo.FindCategory(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPropertyNotFound
		}
		return nil, nil, fmt.Errorf("failed to find category: %w", err)
	}

	properties, err := s.propertyRepo.ListPublishedByCategory(categoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list properties by category: %w", err)
	}
	return category, properties, nil
}

// Search returns published listings matching the term.
func (s *PropertyService) Search(term string) ([]models.Property, error) {
	properties, err := s.propertyRepo.SearchPublished(term)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	return properties, nil
}

// IsSeller reports whether the optional viewer is the listing's owner.
func IsSeller(viewerID *uint64, ownerID uint64) bool {
	return viewerID != nil && *viewerID == ownerID
}
