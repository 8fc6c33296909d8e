package delivery

import (
	"context"
	"fmt"
	"log"

	"quickdeliver/internal/models"

	"github.com/google/uuid"
)

// transitions is the lifecycle table for agent-driven status updates.
// pending → accepted is deliberately absent: the only way out of pending is
// the accept flow, which also assigns the partner.
var transitions = map[string]string{
	models.StatusAccepted:  models.StatusInTransit,
	models.StatusInTransit: models.StatusDelivered,
}

// ServiceInterface defines the contract for the delivery lifecycle service.
type ServiceInterface interface {
	Create(ctx context.Context, userID string, role models.Role, req models.CreateDeliveryRequest) (*models.Delivery, error)
	ListPending(ctx context.Context) ([]*models.PendingDelivery, error)
	Accept(ctx context.Context, deliveryID, userID string, role models.Role) error
	UpdateStatus(ctx context.Context, deliveryID, userID string, role models.Role, nextStatus string) error
	ListMine(ctx context.Context, userID string, role models.Role) ([]*models.Delivery, error)
	GetByID(ctx context.Context, deliveryID, userID string, role models.Role) (*models.Delivery, error)
}

// NotifierInterface is the slice of the notification collaborator this module
// uses. Failures are logged, never surfaced: a missed email must not undo a
// completed transition.
type NotifierInterface interface {
	DeliveryAccepted(ctx context.Context, recipient string, d *models.Delivery) error
	DeliveryDelivered(ctx context.Context, recipient string, d *models.Delivery) error
}

// UserLookupInterface resolves a user id to the email address notifications go to.
type UserLookupInterface interface {
	FindEmailByID(ctx context.Context, userID string) (string, error)
}

// Service implements the delivery lifecycle logic.
type Service struct {
	repo     RepositoryInterface
	notifier NotifierInterface
	users    UserLookupInterface
}

// NewService creates a new delivery service.
func NewService(repo RepositoryInterface, notifier NotifierInterface, users UserLookupInterface) *Service {
	return &Service{repo: repo, notifier: notifier, users: users}
}

// Create opens a new delivery request on behalf of a customer.
// Only customers may create; everyone else gets ErrUnauthorized, which the
// handler maps to a 401 rather than the 403s used elsewhere.
func (s *Service) Create(ctx context.Context, userID string, role models.Role, req models.CreateDeliveryRequest) (*models.Delivery, error) {
	if role != models.RoleCustomer {
		return nil, models.ErrUnauthorized
	}
	d, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("service.CreateDelivery: %w", err)
	}
	return d, nil
}

// ListPending returns all open jobs, newest first. Intentionally public: the
// job board carries no authorization restriction so agents can browse work.
func (s *Service) ListPending(ctx context.Context) ([]*models.PendingDelivery, error) {
	return s.repo.ListPending(ctx)
}

// Accept lets an agent take a pending delivery. The precondition read gives the
// caller a precise error, and the conditional write re-checks pending at commit
// time; losing the race is reported as ErrDeliveryTaken, never a generic failure.
func (s *Service) Accept(ctx context.Context, deliveryID, userID string, role models.Role) error {
	if role != models.RoleAgent {
		return models.ErrForbidden
	}
	if _, err := uuid.Parse(deliveryID); err != nil {
		return models.ErrInvalidID
	}

	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return err // ErrNotFound passes through untouched
	}
	if d.Status != models.StatusPending {
		return models.ErrDeliveryTaken
	}

	if err := s.repo.Accept(ctx, deliveryID, userID); err != nil {
		return err
	}

	s.notify(ctx, d, func(ctx context.Context, recipient string) error {
		return s.notifier.DeliveryAccepted(ctx, recipient, d)
	})
	return nil
}

// UpdateStatus advances a delivery one step. Only the assigned agent may move
// it, and only along the transition table; the write itself is conditioned on
// the status observed here, so a concurrent move shows up as ErrInvalidTransition.
func (s *Service) UpdateStatus(ctx context.Context, deliveryID, userID string, role models.Role, nextStatus string) error {
	if role != models.RoleAgent {
		return models.ErrForbidden
	}
	if _, err := uuid.Parse(deliveryID); err != nil {
		return models.ErrInvalidID
	}

	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return err
	}
	if d.PartnerID == nil || *d.PartnerID != userID {
		return models.ErrForbidden
	}

	allowed, ok := transitions[d.Status]
	if !ok || allowed != nextStatus {
		return models.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, deliveryID, userID, d.Status, nextStatus); err != nil {
		return err
	}

	if nextStatus == models.StatusDelivered {
		s.notify(ctx, d, func(ctx context.Context, recipient string) error {
			return s.notifier.DeliveryDelivered(ctx, recipient, d)
		})
	}
	return nil
}

// ListMine returns the caller's deliveries: by partner for agents, by customer
// for customers.
func (s *Service) ListMine(ctx context.Context, userID string, role models.Role) ([]*models.Delivery, error) {
	switch role {
	case models.RoleAgent:
		return s.repo.ListByPartner(ctx, userID)
	case models.RoleCustomer:
		return s.repo.ListByCustomer(ctx, userID)
	default:
		return nil, models.ErrForbidden
	}
}

// GetByID returns a customer's own delivery. The lookup filters on ownership,
// so a delivery belonging to someone else reads as not found rather than
// forbidden; no existence oracle.
func (s *Service) GetByID(ctx context.Context, deliveryID, userID string, role models.Role) (*models.Delivery, error) {
	if role != models.RoleCustomer {
		return nil, models.ErrForbidden
	}
	if _, err := uuid.Parse(deliveryID); err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.FindByIDForCustomer(ctx, deliveryID, userID)
}

// notify sends a lifecycle email to the delivery's customer, best effort.
func (s *Service) notify(ctx context.Context, d *models.Delivery, send func(context.Context, string) error) {
	if s.notifier == nil || s.users == nil {
		return
	}
	recipient, err := s.users.FindEmailByID(ctx, d.CustomerID)
	if err != nil {
		log.Printf("delivery %s: could not resolve customer email: %v", d.ID, err)
		return
	}
	if err := send(ctx, recipient); err != nil {
		log.Printf("delivery %s: notification failed: %v", d.ID, err)
	}
}
