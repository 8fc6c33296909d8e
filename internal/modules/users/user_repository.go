package users

import (
	"context"
	"errors"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the user repository.
type RepositoryInterface interface {
	ListAll(ctx context.Context) ([]*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindEmailByID is the narrow lookup the delivery module uses to resolve
	// notification recipients.
	FindEmailByID(ctx context.Context, userID string) (string, error)
	Update(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new user repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const userColumns = `id, name, email_address, age, gender, role, hashed_password, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.EmailAddress, &u.Age, &u.Gender, &u.Role, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// ListAll retrieves every registered account.
func (r *Repository) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAll.Query: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListAll.scanUser: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindByID retrieves a single account by id.
func (r *Repository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a single account by email address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email_address = $1`, email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return u, nil
}

// FindEmailByID resolves a user id to its email address.
func (r *Repository) FindEmailByID(ctx context.Context, userID string) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `SELECT email_address FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("repository.FindEmailByID: %w", err)
	}
	return email, nil
}

// Update applies the provided fields and returns the updated account.
// COALESCE keeps absent fields at their current value.
func (r *Repository) Update(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET name          = COALESCE($1, name),
		    email_address = COALESCE($2, email_address),
		    age           = COALESCE($3, age),
		    gender        = COALESCE($4, gender),
		    role          = COALESCE($5, role)
		WHERE id = $6
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query, req.Name, req.EmailAddress, req.Age, req.Gender, req.Role, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrEmailTaken
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return u, nil
}

// Delete removes an account. Administrative override, not part of any lifecycle.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("repository.Delete: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
