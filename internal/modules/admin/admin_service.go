package admin

import (
	"context"

	"quickdeliver/internal/models"

	"github.com/google/uuid"
)

// ServiceInterface defines the contract for the admin service.
// Every operation requires the admin role.
type ServiceInterface interface {
	DeliveriesByDriver(ctx context.Context, role models.Role, driverID string) ([]*models.Delivery, error)
	DeliveriesByCustomer(ctx context.Context, role models.Role, customerID string) ([]*models.Delivery, error)
	FeedbackByDriver(ctx context.Context, role models.Role, driverID string) ([]*models.Feedback, error)
	FeedbackByCustomer(ctx context.Context, role models.Role, customerID string) ([]*models.Feedback, error)
}

// Service implements the admin listings.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new admin service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func guard(role models.Role, id string) error {
	if role != models.RoleAdmin {
		return models.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrInvalidID
	}
	return nil
}

func (s *Service) DeliveriesByDriver(ctx context.Context, role models.Role, driverID string) ([]*models.Delivery, error) {
	if err := guard(role, driverID); err != nil {
		return nil, err
	}
	return s.repo.DeliveriesByDriver(ctx, driverID)
}

func (s *Service) DeliveriesByCustomer(ctx context.Context, role models.Role, customerID string) ([]*models.Delivery, error) {
	if err := guard(role, customerID); err != nil {
		return nil, err
	}
	return s.repo.DeliveriesByCustomer(ctx, customerID)
}

func (s *Service) FeedbackByDriver(ctx context.Context, role models.Role, driverID string) ([]*models.Feedback, error) {
	if err := guard(role, driverID); err != nil {
		return nil, err
	}
	return s.repo.FeedbackByDriver(ctx, driverID)
}

func (s *Service) FeedbackByCustomer(ctx context.Context, role models.Role, customerID string) ([]*models.Feedback, error) {
	if err := guard(role, customerID); err != nil {
		return nil, err
	}
	return s.repo.FeedbackByCustomer(ctx, customerID)
}
