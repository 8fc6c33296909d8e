package feedback

import (
	"context"
	"errors"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the feedback repository.
type RepositoryInterface interface {
	// Create inserts the feedback row. The unique index on delivery_id is the
	// final arbiter of one-feedback-per-delivery; a violation surfaces as
	// models.ErrFeedbackExists.
	Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error)
	FindByDelivery(ctx context.Context, deliveryID string) (*models.Feedback, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.Feedback, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Feedback, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new feedback repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const feedbackColumns = `id, delivery_id, customer_id, driver_id, rating, comment, created_at`

// Create inserts a new feedback row and returns it with its generated id.
func (r *Repository) Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	query := `
		INSERT INTO feedback (delivery_id, customer_id, driver_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + feedbackColumns

	row := r.db.QueryRow(ctx, query, fb.DeliveryID, fb.CustomerID, fb.DriverID, fb.Rating, fb.Comment)
	created, err := scanFeedback(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Duplicate slipped past the service pre-check; the unique index wins.
			return nil, models.ErrFeedbackExists
		}
		return nil, fmt.Errorf("repository.CreateFeedback: %w", err)
	}
	return created, nil
}

// scanFeedback is a helper function to scan a row into a Feedback model.
func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	var fb models.Feedback
	err := row.Scan(
		&fb.ID,
		&fb.DeliveryID,
		&fb.CustomerID,
		&fb.DriverID,
		&fb.Rating,
		&fb.Comment,
		&fb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &fb, nil
}

// FindByDelivery retrieves the unique feedback for a delivery, if any.
func (r *Repository) FindByDelivery(ctx context.Context, deliveryID string) (*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE delivery_id = $1`
	fb, err := scanFeedback(r.db.QueryRow(ctx, query, deliveryID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByDelivery: %w", err)
	}
	return fb, nil
}

func (r *Repository) listByColumn(ctx context.Context, column, id string) ([]*models.Feedback, error) {
	// Insertion order: oldest first.
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE ` + column + ` = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("repository.listByColumn.Query: %w", err)
	}
	defer rows.Close()

	feedbacks := []*models.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.listByColumn.scanFeedback: %w", err)
		}
		feedbacks = append(feedbacks, fb)
	}
	return feedbacks, rows.Err()
}

// ListByDriver retrieves all feedback received by a driver.
func (r *Repository) ListByDriver(ctx context.Context, driverID string) ([]*models.Feedback, error) {
	return r.listByColumn(ctx, "driver_id", driverID)
}

// ListByCustomer retrieves all feedback submitted by a customer.
func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Feedback, error) {
	return r.listByColumn(ctx, "customer_id", customerID)
}
