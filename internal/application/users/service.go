package users

import (
	"context"
	"errors"
	"strings"

	"barterzone-backend/internal/domain"
	"barterzone-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("User not found")

type Service struct {
	DB *gorm.DB
}

// GetUser returns the full user record (own profile).
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile updates allowed profile fields. Display data is always read
// fresh from the user row, never from the session copy.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*domain.User, error) {
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}
	allowed := map[string]bool{
		"fullname": true, "contact": true, "location": true, "birthdate": true,
		"email": true, "password": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			upd[k] = v
		}
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	if e, ok := upd["email"].(string); ok && e != "" {
		if !validation.IsValidEmail(e) {
			return nil, errors.New("Invalid email format")
		}
		upd["email"] = strings.TrimSpace(strings.ToLower(e))
	}
	if f, ok := upd["fullname"].(string); ok && f != "" {
		if !validation.IsValidFullname(strings.TrimSpace(f)) {
			return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
		}
	}
	if b, ok := upd["birthdate"].(string); ok && !validation.IsValidDate(b) {
		return nil, errors.New("Birthdate must be in YYYY-MM-DD format")
	}
	if p, ok := upd["password"].(string); ok {
		if !validation.IsValidPassword(p) {
			return nil, errors.New("Invalid password format")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(p), 10)
		if err != nil {
			return nil, err
		}
		upd["password_hash"] = string(hash)
		delete(upd, "password")
	}

	res := s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Updates(upd)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetUser(ctx, userID)
}

// PublicProfile is the sanitized view of another trader.
type PublicProfile struct {
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	Fullname      string    `json:"fullname"`
	Location      string    `json:"location"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
}

// GetPublicProfile returns another user's public fields plus rating summary.
func (s *Service) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Rating{}).Where("rated_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	var avg float64
	if count > 0 {
		row := s.DB.WithContext(ctx).Model(&domain.Rating{}).Where("rated_id = ?", userID).Select("AVG(score)").Row()
		if err := row.Scan(&avg); err != nil {
			return nil, err
		}
	}
	return &PublicProfile{
		UserID:        u.UserID,
		Username:      u.Username,
		Fullname:      u.Fullname,
		Location:      u.Location,
		AverageRating: avg,
		RatingCount:   count,
	}, nil
}
