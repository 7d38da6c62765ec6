package items

import (
	"context"
	"errors"
	"strings"

	"barterzone-backend/internal/domain"
	"barterzone-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("Item not found")
	ErrNotOwner     = errors.New("Item does not belong to user")
	ErrItemBound    = errors.New("Item is tied to an active trade")
)

type Service struct {
	DB *gorm.DB
}

// CreateItemInput is the create/edit request body.
type CreateItemInput struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Condition   string `json:"condition"`
	DateBought  string `json:"date_bought"`
	DateOffered string `json:"date_offered"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (in *CreateItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("Item name is required")
	}
	if !validation.IsValidDate(in.DateBought) || !validation.IsValidDate(in.DateOffered) {
		return errors.New("Date must be in YYYY-MM-DD format")
	}
	return nil
}

// CreateItem lists a new item, available by default.
func (s *Service) CreateItem(ctx context.Context, userID uuid.UUID, in CreateItemInput) (*domain.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := &domain.Item{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Brand:       strings.TrimSpace(in.Brand),
		Condition:   strings.TrimSpace(in.Condition),
		DateBought:  in.DateBought,
		DateOffered: in.DateOffered,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Available:   true,
	}
	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// EditItem updates a listing. Only the owner may edit, and only while the item
// is not bound to a live trade.
func (s *Service) EditItem(ctx context.Context, userID, itemID uuid.UUID, in CreateItemInput) (*domain.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrItemBound
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Brand = strings.TrimSpace(in.Brand)
	item.Condition = strings.TrimSpace(in.Condition)
	item.DateBought = in.DateBought
	item.DateOffered = in.DateOffered
	item.Description = in.Description
	if in.ImageURL != "" {
		item.ImageURL = in.ImageURL
	}
	if err := s.DB.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a listing. Permitted only while the item is unbound.
func (s *Service) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !item.Available {
		return ErrItemBound
	}
	return s.DB.WithContext(ctx).Delete(item).Error
}

// GetItem returns one item by id.
func (s *Service) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetMyItems lists all of the user's items, bound or not.
func (s *Service) GetMyItems(ctx context.Context, userID uuid.UUID) ([]domain.Item, error) {
	var items []domain.Item
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetAvailableItems is the browsing surface: available items of other users.
// Availability is the flag alone; the trade lifecycle keeps it authoritative.
func (s *Service) GetAvailableItems(ctx context.Context, userID uuid.UUID) ([]domain.Item, error) {
	var items []domain.Item
	if err := s.DB.WithContext(ctx).
		Where("user_id <> ? AND available = ?", userID, true).
		Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchItems filters available items of other users by name/brand/description.
func (s *Service) SearchItems(ctx context.Context, userID uuid.UUID, query string) ([]domain.Item, error) {
	q := "%" + strings.TrimSpace(query) + "%"
	var items []domain.Item
	if err := s.DB.WithContext(ctx).
		Where("user_id <> ? AND available = ?", userID, true).
		Where("name LIKE ? OR brand LIKE ? OR description LIKE ?", q, q, q).
		Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	return item, nil
}
