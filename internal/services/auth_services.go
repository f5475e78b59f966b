package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLen = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type AuthService struct {
	Users    *repository.AuthRepository
	Profiles *repository.ProfileRepository // for auto-create
}

func NewAuthService(u *repository.AuthRepository, pr *repository.ProfileRepository) *AuthService {
	return &AuthService{Users: u, Profiles: pr}
}

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

func (s *AuthService) validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("password too short: must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// Register creates a user with role "user" and the matching profile row.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	if err := s.validateEmail(email); err != nil {
		return "", err
	}
	if err := s.validatePassword(password); err != nil {
		return "", err
	}
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.New("email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	userID, err := s.Users.CreateUser(ctx, email, string(hash), "user")
	if err != nil {
		return "", err
	}
	if err := s.Profiles.Create(ctx, userID, email); err != nil {
		// profile row is required for checkout; surface the failure
		return userID, err
	}
	return userID, nil
}

// RegisterAdmin creates a back-office account. Guarded by AdminOnly at the
// route level.
func (s *AuthService) RegisterAdmin(ctx context.Context, email, password string) (string, error) {
	if err := s.validateEmail(email); err != nil {
		return "", err
	}
	if err := s.validatePassword(password); err != nil {
		return "", err
	}
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.New("email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return s.Users.CreateUser(ctx, email, string(hash), "admin")
}

// Me resolves a token's user id to the live account, without the password
// hash. Tokens for deleted accounts stop resolving here even before expiry.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.Auth, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// Login authenticates with email + password and returns the user without the
// password hash.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Auth, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		// do not reveal whether email exists
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	u.PasswordHash = ""
	return u, nil
}
