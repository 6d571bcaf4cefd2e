package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const sessionColumns = `id, conference_id, name, speaker, type, duration, highlights, date, start_time, created_at, updated_at`

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	q := `
		INSERT INTO sessions (conference_id, name, speaker, type, duration, highlights, date, start_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, q,
		s.ConferenceID, s.Name, s.Speaker, s.Type, s.Duration,
		pq.Array(s.Highlights), nullDate(s.Date), nullTimeOfDay(s.StartTime),
		s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`
	s, err := scanSession(r.DB.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) Update(ctx context.Context, s *domain.Session) error {
	q := `
		UPDATE sessions
		SET name = $2, speaker = $3, type = $4, duration = $5, highlights = $6,
		    date = $7, start_time = $8, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, q,
		s.ID, s.Name, s.Speaker, s.Type, s.Duration,
		pq.Array(s.Highlights), nullDate(s.Date), nullTimeOfDay(s.StartTime),
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) ListByConferenceID(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1
		ORDER BY name
	`
	return r.list(ctx, q, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND type = $2
		ORDER BY name
	`
	return r.list(ctx, q, conferenceID, sessionType)
}

func (r *sessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*domain.Session, error) {
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND speaker = $2
		ORDER BY name
	`
	return r.list(ctx, q, conferenceID, speaker)
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE speaker = $1
		ORDER BY name
	`
	return r.list(ctx, q, speaker)
}

func (r *sessionRepository) ListByConferenceBeforeStart(ctx context.Context, conferenceID string, startTime time.Time, includeUnscheduled bool) ([]*domain.Session, error) {
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND start_time <= $2
		ORDER BY start_time, name
	`
	if includeUnscheduled {
		q = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND (start_time IS NULL OR start_time <= $2)
		ORDER BY start_time, name
	`
	}
	return r.list(ctx, q, conferenceID, startTime.Format("15:04:05"))
}

func (r *sessionRepository) ListByConferenceOnDate(ctx context.Context, conferenceID string, date time.Time) ([]*domain.Session, error) {
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND date = $2
		ORDER BY start_time, name
	`
	return r.list(ctx, q, conferenceID, date.Format("2006-01-02"))
}

func (r *sessionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	q := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = ANY($1)
		ORDER BY name
	`
	return r.list(ctx, q, pq.Array(ids))
}

func (r *sessionRepository) list(ctx context.Context, q string, args ...interface{}) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var highlights pq.StringArray
	var dateNull, startNull sql.NullTime
	err := row.Scan(
		&s.ID, &s.ConferenceID, &s.Name, &s.Speaker, &s.Type, &s.Duration,
		&highlights, &dateNull, &startNull, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Highlights = []string(highlights)
	if dateNull.Valid {
		s.Date = &dateNull.Time
	}
	if startNull.Valid {
		s.StartTime = &startNull.Time
	}
	return s, nil
}

// nullDate renders an optional date as a driver value (YYYY-MM-DD or NULL).
func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

// nullTimeOfDay renders an optional time of day as a driver value (HH:MM:SS or NULL).
func nullTimeOfDay(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("15:04:05")
}
