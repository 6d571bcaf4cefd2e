package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User, passwordHash, passwordSalt string) error {
	q := `
		INSERT INTO users (email, name, last_name, password_hash, password_salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, q,
		u.Email, u.Name, u.LastName, passwordHash, passwordSalt, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `
		SELECT id, email, name, last_name, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.get(ctx, q, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `
		SELECT id, email, name, last_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.get(ctx, q, id)
}

func (r *userRepository) Credentials(ctx context.Context, email string) (string, string, string, error) {
	q := `
		SELECT id, password_hash, password_salt
		FROM users
		WHERE email = $1
	`
	var userID, hash, salt string
	err := r.DB.QueryRowContext(ctx, q, email).Scan(&userID, &hash, &salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", "", domain.ErrNotFound
		}
		return "", "", "", err
	}
	return userID, hash, salt, nil
}

func (r *userRepository) get(ctx context.Context, q string, arg interface{}) (*domain.User, error) {
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
