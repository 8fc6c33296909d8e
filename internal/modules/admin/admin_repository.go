package admin

import (
	"context"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the admin listing queries. These are plain
// newest-first scans over the two domain tables; no mutation.
type RepositoryInterface interface {
	DeliveriesByDriver(ctx context.Context, driverID string) ([]*models.Delivery, error)
	DeliveriesByCustomer(ctx context.Context, customerID string) ([]*models.Delivery, error)
	FeedbackByDriver(ctx context.Context, driverID string) ([]*models.Feedback, error)
	FeedbackByCustomer(ctx context.Context, customerID string) ([]*models.Feedback, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new admin repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) listDeliveries(ctx context.Context, column, id string) ([]*models.Delivery, error) {
	query := `
		SELECT id, customer_id, partner_id, pickup_location, drop_location, item_description, phone_number, status, delivery_charge, is_cancelled, requested_at, accepted_at, delivered_at
		FROM deliveries
		WHERE ` + column + ` = $1
		ORDER BY requested_at DESC`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("repository.listDeliveries.Query: %w", err)
	}
	defer rows.Close()

	deliveries := []*models.Delivery{}
	for rows.Next() {
		var d models.Delivery
		err := rows.Scan(
			&d.ID, &d.CustomerID, &d.PartnerID,
			&d.PickupLocation, &d.DropLocation, &d.ItemDescription, &d.PhoneNumber,
			&d.Status, &d.DeliveryCharge, &d.IsCancelled,
			&d.RequestedAt, &d.AcceptedAt, &d.DeliveredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository.listDeliveries.Scan: %w", err)
		}
		deliveries = append(deliveries, &d)
	}
	return deliveries, rows.Err()
}

func (r *Repository) listFeedback(ctx context.Context, column, id string) ([]*models.Feedback, error) {
	query := `
		SELECT id, delivery_id, customer_id, driver_id, rating, comment, created_at
		FROM feedback
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("repository.listFeedback.Query: %w", err)
	}
	defer rows.Close()

	feedbacks := []*models.Feedback{}
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.DeliveryID, &fb.CustomerID, &fb.DriverID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.listFeedback.Scan: %w", err)
		}
		feedbacks = append(feedbacks, &fb)
	}
	return feedbacks, rows.Err()
}

// DeliveriesByDriver lists all deliveries assigned to a driver, newest first.
func (r *Repository) DeliveriesByDriver(ctx context.Context, driverID string) ([]*models.Delivery, error) {
	return r.listDeliveries(ctx, "partner_id", driverID)
}

// DeliveriesByCustomer lists all deliveries a customer has requested, newest first.
func (r *Repository) DeliveriesByCustomer(ctx context.Context, customerID string) ([]*models.Delivery, error) {
	return r.listDeliveries(ctx, "customer_id", customerID)
}

// FeedbackByDriver lists all feedback a driver has received, newest first.
func (r *Repository) FeedbackByDriver(ctx context.Context, driverID string) ([]*models.Feedback, error) {
	return r.listFeedback(ctx, "driver_id", driverID)
}

// FeedbackByCustomer lists all feedback a customer has submitted, newest first.
func (r *Repository) FeedbackByCustomer(ctx context.Context, customerID string) ([]*models.Feedback, error) {
	return r.listFeedback(ctx, "customer_id", customerID)
}
