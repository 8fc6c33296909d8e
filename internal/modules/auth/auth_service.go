package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickdeliver/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 6 * time.Hour

// ServiceInterface defines the contract for the auth service.
type ServiceInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// Service implements registration and credential verification.
type Service struct {
	repo      RepositoryInterface
	jwtSecret []byte
}

// NewService creates a new auth service.
func NewService(repo RepositoryInterface, jwtSecret string) *Service {
	return &Service{repo: repo, jwtSecret: []byte(jwtSecret)}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if _, err := s.repo.FindByEmail(ctx, req.EmailAddress); err == nil {
		return "", models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", fmt.Errorf("service.Register: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("service.Register: hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, &models.User{
		Name:           req.Name,
		EmailAddress:   req.EmailAddress,
		Age:            req.Age,
		Gender:         req.Gender,
		Role:           req.Role,
		HashedPassword: string(hashed),
	})
	if err != nil {
		return "", err // ErrEmailTaken from the unique constraint, or a store failure
	}
	return id, nil
}

// Login verifies the credentials and issues a 6h bearer token carrying the
// principal (user_id, role, email). Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.EmailAddress)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(req.Password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    string(u.Role),
		"email":   u.EmailAddress,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("service.Login: sign token: %w", err)
	}

	return &models.LoginResponse{Token: signed, UserID: u.ID, Role: u.Role}, nil
}
