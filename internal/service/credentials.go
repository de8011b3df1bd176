package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// CredentialVerifier checks a credential pair and returns the matching user.
// Implementations return appErrors.ErrAuthentication for a wrong pair.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*models.User, error)
}

// StaticAccount describes the single configured warden account.
type StaticAccount struct {
	ID       string
	Email    string
	Password string
	Name     string
	Avatar   string
	Role     models.UserRole
}

// StaticCredentials accepts exactly one configured credential pair.
type StaticCredentials struct {
	user         models.User
	passwordHash []byte
}

// NewStaticCredentials hashes the configured password once at start.
func NewStaticCredentials(account StaticAccount) (*StaticCredentials, error) {
	if account.Email == "" || account.Password == "" {
		return nil, fmt.Errorf("static credentials require email and password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash static password: %w", err)
	}
	if account.ID == "" {
		account.ID = "u1"
	}
	if account.Role == "" {
		account.Role = models.RoleWarden
	}
	return &StaticCredentials{
		user: models.User{
			ID:     account.ID,
			Name:   account.Name,
			Email:  account.Email,
			Role:   account.Role,
			Avatar: account.Avatar,
		},
		passwordHash: hash,
	}, nil
}

// Verify compares the email byte for byte and the password against the stored hash.
func (s *StaticCredentials) Verify(_ context.Context, email, password string) (*models.User, error) {
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.user.Email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !emailMatch || passwordErr != nil {
		return nil, appErrors.Clone(appErrors.ErrAuthentication, "invalid email or password")
	}
	user := s.user
	return &user, nil
}
