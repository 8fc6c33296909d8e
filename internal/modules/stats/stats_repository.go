package stats

import (
	"context"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the read-only aggregation queries the stats
// module runs over the deliveries and feedback tables.
type RepositoryInterface interface {
	CustomerDeliveryCounts(ctx context.Context, customerID string) (total, pending int, err error)
	PartnerDeliveryCounts(ctx context.Context, partnerID string) (total, pending int, err error)
	AppStatusCounts(ctx context.Context) (*models.AppStats, error)
	// DriverRatingStats returns the rating sum and row count so the service can
	// compute and round the mean.
	DriverRatingStats(ctx context.Context, driverID string) (sum, count int, err error)
	CustomerFeedbackCount(ctx context.Context, customerID string) (int, error)
	DriverCompletedCount(ctx context.Context, driverID string) (int, error)
	CustomerDeliveryTotal(ctx context.Context, customerID string) (int, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new stats repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) deliveryCounts(ctx context.Context, column, id string) (int, int, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending')
		FROM deliveries
		WHERE ` + column + ` = $1`

	var total, pending int
	if err := r.db.QueryRow(ctx, query, id).Scan(&total, &pending); err != nil {
		return 0, 0, fmt.Errorf("repository.deliveryCounts: %w", err)
	}
	return total, pending, nil
}

// CustomerDeliveryCounts returns total and pending deliveries requested by a customer.
func (r *Repository) CustomerDeliveryCounts(ctx context.Context, customerID string) (int, int, error) {
	return r.deliveryCounts(ctx, "customer_id", customerID)
}

// PartnerDeliveryCounts returns total and pending deliveries assigned to an agent.
func (r *Repository) PartnerDeliveryCounts(ctx context.Context, partnerID string) (int, int, error) {
	return r.deliveryCounts(ctx, "partner_id", partnerID)
}

// AppStatusCounts returns the global per-status delivery breakdown in one scan.
func (r *Repository) AppStatusCounts(ctx context.Context) (*models.AppStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'accepted'),
		       COUNT(*) FILTER (WHERE status = 'in-transit'),
		       COUNT(*) FILTER (WHERE status = 'delivered')
		FROM deliveries`

	var s models.AppStats
	err := r.db.QueryRow(ctx, query).Scan(&s.TotalDeliveries, &s.TotalPending, &s.TotalAccepted, &s.TotalInTransit, &s.TotalDelivered)
	if err != nil {
		return nil, fmt.Errorf("repository.AppStatusCounts: %w", err)
	}
	return &s, nil
}

// DriverRatingStats returns the rating sum and feedback count for a driver.
func (r *Repository) DriverRatingStats(ctx context.Context, driverID string) (int, int, error) {
	var sum, count int
	query := `SELECT COALESCE(SUM(rating), 0), COUNT(*) FROM feedback WHERE driver_id = $1`
	if err := r.db.QueryRow(ctx, query, driverID).Scan(&sum, &count); err != nil {
		return 0, 0, fmt.Errorf("repository.DriverRatingStats: %w", err)
	}
	return sum, count, nil
}

// CustomerFeedbackCount returns how many feedback rows a customer has submitted.
func (r *Repository) CustomerFeedbackCount(ctx context.Context, customerID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback WHERE customer_id = $1`, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository.CustomerFeedbackCount: %w", err)
	}
	return count, nil
}

// DriverCompletedCount returns how many deliveries a driver has completed.
func (r *Repository) DriverCompletedCount(ctx context.Context, driverID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM deliveries WHERE partner_id = $1 AND status = 'delivered'`
	if err := r.db.QueryRow(ctx, query, driverID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository.DriverCompletedCount: %w", err)
	}
	return count, nil
}

// CustomerDeliveryTotal returns how many deliveries a customer has requested.
func (r *Repository) CustomerDeliveryTotal(ctx context.Context, customerID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM deliveries WHERE customer_id = $1`, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository.CustomerDeliveryTotal: %w", err)
	}
	return count, nil
}
