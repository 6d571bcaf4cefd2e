package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

// registrationMaxAttempts bounds the retry loop on serialization conflicts.
// Each attempt re-reads both rows; no state is carried across attempts.
const registrationMaxAttempts = 3

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns a RegistrationRepository that runs each
// register/unregister as one serializable transaction locking the conference
// and profile rows.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) Register(ctx context.Context, userID, conferenceID string) error {
	var err error
	for attempt := 0; attempt < registrationMaxAttempts; attempt++ {
		err = r.registerOnce(ctx, userID, conferenceID)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return domain.ErrContention
}

func (r *registrationRepository) Unregister(ctx context.Context, userID, conferenceID string) (bool, error) {
	var (
		removed bool
		err     error
	)
	for attempt := 0; attempt < registrationMaxAttempts; attempt++ {
		removed, err = r.unregisterOnce(ctx, userID, conferenceID)
		if !isSerializationFailure(err) {
			return removed, err
		}
	}
	return false, domain.ErrContention
}

func (r *registrationRepository) registerOnce(ctx context.Context, userID, conferenceID string) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}
	defer tx.Rollback()

	conf, err := lockConferenceSeats(ctx, tx, conferenceID)
	if err != nil {
		return err
	}

	// Profiles are created lazily; a first-time user can register without
	// having visited their profile.
	if err := ensureProfileRow(ctx, tx, userID); err != nil {
		return err
	}
	attending, err := lockProfileConferences(ctx, tx, userID)
	if err != nil {
		return err
	}
	for _, id := range attending {
		if id == conferenceID {
			return domain.ErrAlreadyRegistered
		}
	}

	// maxAttendees == 0 means unlimited; seat tracking is suspended.
	if conf.maxAttendees > 0 {
		if conf.seatsAvailable <= 0 {
			return domain.ErrNoSeatsAvailable
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE conferences SET seats_available = seats_available - 1, updated_at = NOW() WHERE id = $1`,
			conferenceID,
		); err != nil {
			return fmt.Errorf("take seat: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET conference_ids = array_append(conference_ids, $2), updated_at = NOW() WHERE user_id = $1`,
		userID, conferenceID,
	); err != nil {
		return fmt.Errorf("add conference to profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (r *registrationRepository) unregisterOnce(ctx context.Context, userID, conferenceID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return false, fmt.Errorf("begin unregistration tx: %w", err)
	}
	defer tx.Rollback()

	conf, err := lockConferenceSeats(ctx, tx, conferenceID)
	if err != nil {
		return false, err
	}

	attending, err := lockProfileConferences(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No profile means never registered.
			return false, nil
		}
		return false, err
	}
	registered := false
	for _, id := range attending {
		if id == conferenceID {
			registered = true
			break
		}
	}
	if !registered {
		return false, nil
	}

	if conf.maxAttendees > 0 {
		// Releasing a seat must never exceed capacity; if it would, the seat
		// count was already corrupt and we report instead of clamping.
		if conf.seatsAvailable+1 > conf.maxAttendees {
			return false, domain.ErrSeatInvariant
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE conferences SET seats_available = seats_available + 1, updated_at = NOW() WHERE id = $1`,
			conferenceID,
		); err != nil {
			return false, fmt.Errorf("release seat: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET conference_ids = array_remove(conference_ids, $2), updated_at = NOW() WHERE user_id = $1`,
		userID, conferenceID,
	); err != nil {
		return false, fmt.Errorf("remove conference from profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

type conferenceSeats struct {
	maxAttendees   int
	seatsAvailable int
}

func lockConferenceSeats(ctx context.Context, tx *sql.Tx, conferenceID string) (*conferenceSeats, error) {
	var seats conferenceSeats
	err := tx.QueryRowContext(ctx,
		`SELECT max_attendees, seats_available FROM conferences WHERE id = $1 FOR UPDATE`,
		conferenceID,
	).Scan(&seats.maxAttendees, &seats.seatsAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock conference: %w", err)
	}
	return &seats, nil
}

func lockProfileConferences(ctx context.Context, tx *sql.Tx, userID string) ([]string, error) {
	var attending pq.StringArray
	err := tx.QueryRowContext(ctx,
		`SELECT conference_ids FROM profiles WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&attending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock profile: %w", err)
	}
	return []string(attending), nil
}

// isSerializationFailure reports whether err is a Postgres serialization
// failure (40001) or deadlock (40P01), both of which are safe to retry with
// a fresh transaction.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// ensureProfileRow inserts an empty profile for the user if none exists yet.
func ensureProfileRow(ctx context.Context, tx *sql.Tx, userID string) error {
	now := time.Now()
	q := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size, conference_ids, session_wishlist, created_at, updated_at)
		VALUES ($1, '', '', 'NOT_SPECIFIED', '{}', '{}', $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, q, userID, now); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}
