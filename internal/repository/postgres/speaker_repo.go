package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{
		DB: db,
	}
}

func (r *speakerRepository) Create(ctx context.Context, s *domain.Speaker) error {
	q := `
		INSERT INTO speakers (name, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, q, s.Name, s.Bio, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateSpeaker
		}
		return err
	}
	return nil
}

func (r *speakerRepository) GetByName(ctx context.Context, name string) (*domain.Speaker, error) {
	q := `
		SELECT id, name, bio, created_at, updated_at
		FROM speakers
		WHERE name = $1
	`
	s := &domain.Speaker{}
	err := r.DB.QueryRowContext(ctx, q, name).
		Scan(&s.ID, &s.Name, &s.Bio, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
