package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"barterzone-backend/internal/domain"
	"barterzone-backend/internal/pkg/constants"
	"barterzone-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles registration and login.
type Service struct {
	DB *gorm.DB
}

// RegisterInput is the register request body.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Fullname  string `json:"fullname"`
	Contact   string `json:"contact"`
	Location  string `json:"location"`
	Birthdate string `json:"birthdate"`
}

// Register validates input, hashes the password and creates the user with the
// member role. Duplicate username/email are rejected before insert.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if !validation.IsValidUsername(username) {
		return nil, errors.New("Username must be 3-30 characters (letters, digits, underscores)")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !validation.IsValidEmail(email) {
		return nil, errors.New("Invalid email format")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}
	fullname := strings.TrimSpace(in.Fullname)
	if fullname != "" && !validation.IsValidFullname(fullname) {
		return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	}
	if !validation.IsValidDate(in.Birthdate) {
		return nil, errors.New("Birthdate must be in YYYY-MM-DD format")
	}

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     fullname,
		Contact:      strings.TrimSpace(in.Contact),
		Location:     strings.TrimSpace(in.Location),
		Birthdate:    in.Birthdate,
		Role:         constants.Member,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login finds a user by email, verifies the password and rejects banned
// accounts. Returns the user for session establishment.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrCredentialsRequired
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(in.Email)).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	banned, err := s.isBanned(ctx, &u)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, ErrUserBanned
	}
	return &u, nil
}

// isBanned checks for an active ban; expired timed bans are lazily deactivated.
func (s *Service) isBanned(ctx context.Context, u *domain.User) (bool, error) {
	var bans []domain.Ban
	if err := s.DB.WithContext(ctx).Where("user_id = ? AND active = ?", u.UserID, true).Find(&bans).Error; err != nil {
		return false, err
	}
	now := time.Now()
	for i := range bans {
		if bans[i].InEffect(now) {
			return true, nil
		}
		bans[i].Active = false
		if err := s.DB.WithContext(ctx).Save(&bans[i]).Error; err != nil {
			return false, err
		}
	}
	return false, nil
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		UserID:   userID,
		Username: str(m["username"]),
		Email:    str(m["email"]),
		Role:     str(m["role"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
