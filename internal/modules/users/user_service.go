package users

import (
	"context"

	"quickdeliver/internal/models"

	"github.com/google/uuid"
)

// ServiceInterface defines the contract for the user service.
type ServiceInterface interface {
	ListAll(ctx context.Context, role models.Role) ([]*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, role models.Role, userID string, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, role models.Role, userID string) error
}

// Service implements the user administration logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new user service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// ListAll returns every account. Admin only.
func (s *Service) ListAll(ctx context.Context, role models.Role) ([]*models.User, error) {
	if role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

// GetByID returns a single account.
func (s *Service) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.FindByID(ctx, userID)
}

// GetByEmail returns a single account by email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Update modifies an account. Admin only.
func (s *Service) Update(ctx context.Context, role models.Role, userID string, req models.UpdateUserRequest) (*models.User, error) {
	if role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.Update(ctx, userID, req)
}

// Delete removes an account. Admin only.
func (s *Service) Delete(ctx context.Context, role models.Role, userID string) error {
	if role != models.RoleAdmin {
		return models.ErrForbidden
	}
	if _, err := uuid.Parse(userID); err != nil {
		return models.ErrInvalidID
	}
	return s.repo.Delete(ctx, userID)
}
