package stats

import (
	"context"
	"math"

	"quickdeliver/internal/models"

	"github.com/google/uuid"
)

// ServiceInterface defines the contract for the stats service. Everything here
// is a pure read aggregation; no operation has side effects.
type ServiceInterface interface {
	UserStats(ctx context.Context, userID string, role models.Role, email string) (*models.UserStats, error)
	AppStats(ctx context.Context) (*models.AppStats, error)
	DriverAverageRating(ctx context.Context, driverID string) (*models.DriverRating, error)
	CustomerFeedbackSummary(ctx context.Context, customerID string) (*models.CustomerFeedbackSummary, error)
	DriverCompletedDeliveries(ctx context.Context, driverID string) (*models.DriverCompleted, error)
	CustomerDeliveryCount(ctx context.Context, customerID string) (*models.CustomerDeliveryCount, error)
}

// Service implements the reporting views.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new stats service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// UserStats returns delivery totals for the authenticated principal, keyed by
// customer_id for customers and partner_id for agents.
func (s *Service) UserStats(ctx context.Context, userID string, role models.Role, email string) (*models.UserStats, error) {
	var total, pending int
	var err error
	switch role {
	case models.RoleCustomer:
		total, pending, err = s.repo.CustomerDeliveryCounts(ctx, userID)
	case models.RoleAgent:
		total, pending, err = s.repo.PartnerDeliveryCounts(ctx, userID)
	default:
		return nil, models.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return &models.UserStats{
		UserID:            userID,
		Role:              role,
		Email:             email,
		TotalDeliveries:   total,
		PendingDeliveries: pending,
	}, nil
}

// AppStats returns the global per-status breakdown.
func (s *Service) AppStats(ctx context.Context) (*models.AppStats, error) {
	return s.repo.AppStatusCounts(ctx)
}

// DriverAverageRating returns the arithmetic mean of a driver's ratings,
// rounded to 2 decimal places; 0 with a zero count when no feedback exists.
func (s *Service) DriverAverageRating(ctx context.Context, driverID string) (*models.DriverRating, error) {
	if _, err := uuid.Parse(driverID); err != nil {
		return nil, models.ErrInvalidID
	}
	sum, count, err := s.repo.DriverRatingStats(ctx, driverID)
	if err != nil {
		return nil, err
	}
	avg := 0.0
	if count > 0 {
		avg = math.Round(float64(sum)/float64(count)*100) / 100
	}
	return &models.DriverRating{DriverID: driverID, AverageRating: avg, TotalFeedbacks: count}, nil
}

// CustomerFeedbackSummary returns how much feedback a customer has given.
func (s *Service) CustomerFeedbackSummary(ctx context.Context, customerID string) (*models.CustomerFeedbackSummary, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, models.ErrInvalidID
	}
	count, err := s.repo.CustomerFeedbackCount(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &models.CustomerFeedbackSummary{CustomerID: customerID, TotalFeedbacksGiven: count}, nil
}

// DriverCompletedDeliveries counts a driver's deliveries in the terminal state.
func (s *Service) DriverCompletedDeliveries(ctx context.Context, driverID string) (*models.DriverCompleted, error) {
	if _, err := uuid.Parse(driverID); err != nil {
		return nil, models.ErrInvalidID
	}
	count, err := s.repo.DriverCompletedCount(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return &models.DriverCompleted{DriverID: driverID, CompletedDeliveries: count}, nil
}

// CustomerDeliveryCount counts all deliveries a customer has requested.
func (s *Service) CustomerDeliveryCount(ctx context.Context, customerID string) (*models.CustomerDeliveryCount, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, models.ErrInvalidID
	}
	count, err := s.repo.CustomerDeliveryTotal(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &models.CustomerDeliveryCount{CustomerID: customerID, TotalDeliveries: count}, nil
}
