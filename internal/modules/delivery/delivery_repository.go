package delivery

import (
	"context"
	"errors"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the delivery repository.
//
// Accept and UpdateStatus are conditional writes: the WHERE clause re-checks the
// precondition at write time, and a zero-row match is reported as a distinct
// error so the service can tell a lost race from a store failure.
type RepositoryInterface interface {
	Create(ctx context.Context, customerID string, req models.CreateDeliveryRequest) (*models.Delivery, error)
	FindByID(ctx context.Context, deliveryID string) (*models.Delivery, error)
	// FindByIDForCustomer filters on id AND customer_id in a single lookup, so a
	// delivery owned by someone else is indistinguishable from one that does not exist.
	FindByIDForCustomer(ctx context.Context, deliveryID, customerID string) (*models.Delivery, error)
	ListPending(ctx context.Context) ([]*models.PendingDelivery, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Delivery, error)
	ListByPartner(ctx context.Context, partnerID string) ([]*models.Delivery, error)
	// Accept performs the compare-and-swap take of a pending delivery. It returns
	// models.ErrDeliveryTaken when the row was no longer pending at write time.
	Accept(ctx context.Context, deliveryID, partnerID string) error
	// UpdateStatus moves the delivery from fromStatus to toStatus, conditioned on
	// the row still being at fromStatus and assigned to partnerID. Returns
	// models.ErrInvalidTransition on a zero-row match.
	UpdateStatus(ctx context.Context, deliveryID, partnerID, fromStatus, toStatus string) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new delivery repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const deliveryColumns = `id, customer_id, partner_id, pickup_location, drop_location, item_description, phone_number, status, delivery_charge, is_cancelled, requested_at, accepted_at, delivered_at`

// Create inserts a new pending delivery for the given customer.
func (r *Repository) Create(ctx context.Context, customerID string, req models.CreateDeliveryRequest) (*models.Delivery, error) {
	query := `
		INSERT INTO deliveries (customer_id, pickup_location, drop_location, item_description, phone_number, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING ` + deliveryColumns

	row := r.db.QueryRow(ctx, query, customerID, req.PickupLocation, req.DropLocation, req.ItemDescription, req.PhoneNumber)
	d, err := scanDelivery(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateDelivery: %w", err)
	}
	return d, nil
}

// scanDelivery is a helper function to scan a row into a Delivery model.
func scanDelivery(row pgx.Row) (*models.Delivery, error) {
	var d models.Delivery
	err := row.Scan(
		&d.ID,
		&d.CustomerID,
		&d.PartnerID,
		&d.PickupLocation,
		&d.DropLocation,
		&d.ItemDescription,
		&d.PhoneNumber,
		&d.Status,
		&d.DeliveryCharge,
		&d.IsCancelled,
		&d.RequestedAt,
		&d.AcceptedAt,
		&d.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan delivery: %w", err)
	}
	return &d, nil
}

// FindByID retrieves a single delivery by its ID.
func (r *Repository) FindByID(ctx context.Context, deliveryID string) (*models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	d, err := scanDelivery(r.db.QueryRow(ctx, query, deliveryID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return d, nil
}

// FindByIDForCustomer retrieves a delivery only if it belongs to the customer.
func (r *Repository) FindByIDForCustomer(ctx context.Context, deliveryID, customerID string) (*models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1 AND customer_id = $2`
	d, err := scanDelivery(r.db.QueryRow(ctx, query, deliveryID, customerID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByIDForCustomer: %w", err)
	}
	return d, nil
}

// ListPending returns the public job board: all pending deliveries, newest first.
func (r *Repository) ListPending(ctx context.Context) ([]*models.PendingDelivery, error) {
	query := `
		SELECT id, pickup_location, drop_location, item_description, phone_number, requested_at
		FROM deliveries
		WHERE status = 'pending'
		ORDER BY requested_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListPending.Query: %w", err)
	}
	defer rows.Close()

	deliveries := []*models.PendingDelivery{}
	for rows.Next() {
		var p models.PendingDelivery
		if err := rows.Scan(&p.ID, &p.PickupLocation, &p.DropLocation, &p.ItemDescription, &p.PhoneNumber, &p.RequestedAt); err != nil {
			return nil, fmt.Errorf("repository.ListPending.Scan: %w", err)
		}
		deliveries = append(deliveries, &p)
	}
	return deliveries, rows.Err()
}

func (r *Repository) listByColumn(ctx context.Context, column, id string) ([]*models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE ` + column + ` = $1 ORDER BY requested_at DESC`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("repository.listByColumn.Query: %w", err)
	}
	defer rows.Close()

	deliveries := []*models.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.listByColumn.scanDelivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

// ListByCustomer retrieves all deliveries requested by a customer, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Delivery, error) {
	return r.listByColumn(ctx, "customer_id", customerID)
}

// ListByPartner retrieves all deliveries assigned to an agent, newest first.
func (r *Repository) ListByPartner(ctx context.Context, partnerID string) ([]*models.Delivery, error) {
	return r.listByColumn(ctx, "partner_id", partnerID)
}

// Accept atomically takes a pending delivery for the agent. The status check in
// the WHERE clause is the whole point: two agents racing on the same delivery
// produce exactly one matched row between them.
func (r *Repository) Accept(ctx context.Context, deliveryID, partnerID string) error {
	query := `
		UPDATE deliveries
		SET partner_id = $1, status = 'accepted', accepted_at = NOW()
		WHERE id = $2 AND status = 'pending'`

	cmdTag, err := r.db.Exec(ctx, query, partnerID, deliveryID)
	if err != nil {
		return fmt.Errorf("repository.Accept: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrDeliveryTaken // Someone else got there first
	}
	return nil
}

// UpdateStatus advances an assigned delivery one step along the lifecycle.
// delivered_at is only written on the transition into the terminal state.
func (r *Repository) UpdateStatus(ctx context.Context, deliveryID, partnerID, fromStatus, toStatus string) error {
	query := `
		UPDATE deliveries
		SET status = $1,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END
		WHERE id = $2 AND partner_id = $3 AND status = $4`

	cmdTag, err := r.db.Exec(ctx, query, toStatus, deliveryID, partnerID, fromStatus)
	if err != nil {
		return fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The row moved under us between the precondition read and this write.
		return models.ErrInvalidTransition
	}
	return nil
}
