package auth

import (
	"context"
	"errors"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the auth repository.
type RepositoryInterface interface {
	CreateUser(ctx context.Context, u *models.User) (string, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new auth repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// CreateUser inserts a new account and returns its id. The unique constraint
// on email_address backs the duplicate check done at the service layer.
func (r *Repository) CreateUser(ctx context.Context, u *models.User) (string, error) {
	query := `
		INSERT INTO users (name, email_address, age, gender, role, hashed_password)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id string
	err := r.db.QueryRow(ctx, query, u.Name, u.EmailAddress, u.Age, u.Gender, u.Role, u.HashedPassword).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", models.ErrEmailTaken
		}
		return "", fmt.Errorf("repository.CreateUser: %w", err)
	}
	return id, nil
}

// FindByEmail retrieves an account by email address, including the password hash.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email_address, age, gender, role, hashed_password, created_at
		FROM users
		WHERE email_address = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.EmailAddress, &u.Age, &u.Gender, &u.Role, &u.HashedPassword, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return &u, nil
}
