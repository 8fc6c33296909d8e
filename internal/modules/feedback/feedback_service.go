package feedback

import (
	"context"
	"errors"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/google/uuid"
)

// ServiceInterface defines the contract for the feedback service.
type ServiceInterface interface {
	Submit(ctx context.Context, userID string, role models.Role, req models.SubmitFeedbackRequest) (*models.Feedback, error)
	GetByDelivery(ctx context.Context, deliveryID string) (*models.Feedback, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.Feedback, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Feedback, error)
}

// DeliveryLookupInterface is the slice of the delivery repository this module
/// needs: a single read to anchor the feedback checks.
type DeliveryLookupInterface interface {
	FindByID(ctx context.Context, deliveryID string) (*models.Delivery, error)
}

// Service implements the feedback attachment logic.
type Service struct {
	repo       RepositoryInterface
	deliveries DeliveryLookupInterface
}

// NewService creates a new feedback service.
func NewService(repo RepositoryInterface, deliveries DeliveryLookupInterface) *Service {
	return &Service{repo: repo, deliveries: deliveries}
}

// Submit attaches feedback to a delivered delivery, at most once.
//
// The check order is part of the API contract and each failure is distinct:
// role → delivery exists → delivered → ownership → uniqueness. CustomerID and
// DriverID are copied from the delivery row, never trusted from the caller.
func (s *Service) Submit(ctx context.Context, userID string, role models.Role, req models.SubmitFeedbackRequest) (*models.Feedback, error) {
	if role != models.RoleCustomer {
		return nil, models.ErrForbidden
	}
	if _, err := uuid.Parse(req.DeliveryID); err != nil {
		return nil, models.ErrInvalidID
	}

	d, err := s.deliveries.FindByID(ctx, req.DeliveryID)
	if err != nil {
		return nil, err // ErrNotFound passes through untouched
	}
	if d.Status != models.StatusDelivered {
		return nil, models.ErrNotYetDelivered
	}
	if d.CustomerID != userID {
		return nil, models.ErrForbidden
	}

	if _, err := s.repo.FindByDelivery(ctx, req.DeliveryID); err == nil {
		return nil, models.ErrFeedbackExists
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.SubmitFeedback: %w", err)
	}

	// A delivered delivery always has its partner set; the lifecycle engine
	// writes both in the same accept.
	fb := &models.Feedback{
		DeliveryID: req.DeliveryID,
		CustomerID: d.CustomerID,
		DriverID:   *d.PartnerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	created, err := s.repo.Create(ctx, fb)
	if err != nil {
		return nil, err // ErrFeedbackExists on a lost insert race, or a store failure
	}
	return created, nil
}

// GetByDelivery is a unique lookup: 0 or 1 result, ErrNotFound when absent.
func (s *Service) GetByDelivery(ctx context.Context, deliveryID string) (*models.Feedback, error) {
	if _, err := uuid.Parse(deliveryID); err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.FindByDelivery(ctx, deliveryID)
}

// ListByDriver returns all feedback a driver has received, oldest first.
func (s *Service) ListByDriver(ctx context.Context, driverID string) ([]*models.Feedback, error) {
	if _, err := uuid.Parse(driverID); err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.ListByDriver(ctx, driverID)
}

// ListByCustomer returns all feedback a customer has submitted, oldest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]*models.Feedback, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.ListByCustomer(ctx, customerID)
}
