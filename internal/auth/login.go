// Package auth implements the credential service: account creation,
// login verification, and session token issue/validation.
//
// Login does not verify a per-user password. Every account authenticates
// with the single shared secret configured at startup, which is the
// contract existing clients depend on. The secret is still stored and
// checked as a bcrypt hash so the comparison path is real, but this is not
// account-level security.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/veikkola/phonebook/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("wrong credentials")
	ErrMissingUsername    = errors.New("username is required")
)

// UserStorage is the slice of the store the login service needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// LoginService verifies login attempts and issues session tokens.
type LoginService struct {
	storage      UserStorage
	jwtManager   *JWTManager
	sharedSecret string
}

// NewLoginService creates a login service. sharedSecret is the single
// password accepted for every account.
func NewLoginService(storage UserStorage, jwtManager *JWTManager, sharedSecret string) *LoginService {
	return &LoginService{
		storage:      storage,
		jwtManager:   jwtManager,
		sharedSecret: sharedSecret,
	}
}

// CreateUser registers a new account with an empty friends list.
func (s *LoginService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.sharedSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the username and password and returns a signed session
// token. Fails with ErrInvalidCredentials if the user does not exist or the
// password does not match.
func (s *LoginService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}
