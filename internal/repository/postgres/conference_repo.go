package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

const conferenceColumns = `id, organizer_id, name, description, city, topics, month, max_attendees, seats_available, start_date, end_date, created_at, updated_at`

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	q := `
		INSERT INTO conferences (organizer_id, name, description, city, topics, month, max_attendees, seats_available, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, q,
		c.OrganizerID, c.Name, c.Description, c.City, pq.Array(c.Topics),
		c.Month, c.MaxAttendees, c.SeatsAvailable, c.StartDate, c.EndDate,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	q := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE id = $1
	`
	c, err := scanConference(r.DB.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	q := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE organizer_id = $1
		ORDER BY name
	`
	return r.list(ctx, q, organizerID)
}

func (r *conferenceRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	q := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE id = ANY($1)
		ORDER BY name
	`
	return r.list(ctx, q, pq.Array(ids))
}

func (r *conferenceRepository) ListNearlySoldOut(ctx context.Context, threshold int) ([]*domain.Conference, error) {
	q := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY name
	`
	return r.list(ctx, q, threshold)
}

// Query executes a compiled filter plan. Predicates on the topics array
// match any element; all other predicates compare the column directly.
func (r *conferenceRepository) Query(ctx context.Context, plan *query.Plan) ([]*domain.Conference, error) {
	var (
		where []string
		args  []interface{}
	)
	for _, p := range plan.Predicates {
		args = append(args, p.Value)
		n := len(args)
		if p.Column == "topics" {
			where = append(where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM unnest(topics) AS topic WHERE topic %s $%d)", p.Symbol, n))
		} else {
			where = append(where, fmt.Sprintf("%s %s $%d", p.Column, p.Symbol, n))
		}
	}

	q := `SELECT ` + conferenceColumns + ` FROM conferences`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + strings.Join(plan.OrderBy, ", ")

	return r.list(ctx, q, args...)
}

func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	q := `
		UPDATE conferences
		SET name = $2, description = $3, city = $4, topics = $5, month = $6,
		    max_attendees = $7, seats_available = $8, start_date = $9, end_date = $10,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, q,
		c.ID, c.Name, c.Description, c.City, pq.Array(c.Topics),
		c.Month, c.MaxAttendees, c.SeatsAvailable, c.StartDate, c.EndDate,
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

func (r *conferenceRepository) list(ctx context.Context, q string, args ...interface{}) ([]*domain.Conference, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var topics pq.StringArray
	var startNull, endNull sql.NullTime
	err := row.Scan(
		&c.ID, &c.OrganizerID, &c.Name, &c.Description, &c.City, &topics,
		&c.Month, &c.MaxAttendees, &c.SeatsAvailable, &startNull, &endNull,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Topics = []string(topics)
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	return c, nil
}
