// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a user id or email does not resolve
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned on a failed login attempt
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles user account business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// GetProfile retrieves a user by id
func (s *Service) GetProfile(userID uint) (*User, error) {
	var u User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}
	return &u, nil
}

// Authenticate verifies credentials and stamps the login time
func (s *Service) Authenticate(email, password string) (*User, error) {
	var u User
	result := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}

	passwordManager := auth.NewPasswordManager(s.config)
	if err := passwordManager.VerifyPassword(password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	if err := s.db.Model(&u).UpdateColumn("last_login_at", now).Error; err != nil {
		// Login still succeeds; the timestamp is best effort
		return &u, nil
	}

	return &u, nil
}
