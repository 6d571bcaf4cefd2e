package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const profileColumns = `user_id, display_name, main_email, tee_shirt_size, conference_ids, session_wishlist, created_at, updated_at`

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	q := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, q, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	q := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size, conference_ids, session_wishlist, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, q,
		p.UserID, p.DisplayName, p.MainEmail, p.TeeShirtSize,
		pq.Array(p.ConferenceIDs), pq.Array(p.SessionWishlist),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *profileRepository) UpdateDetails(ctx context.Context, userID, displayName, teeShirtSize string) (*domain.Profile, error) {
	q := `
		UPDATE profiles
		SET display_name = $2, tee_shirt_size = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns + `
	`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, q, userID, displayName, teeShirtSize))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) AddToWishlist(ctx context.Context, userID, sessionID string) error {
	q := `
		UPDATE profiles
		SET session_wishlist = array_append(session_wishlist, $2), updated_at = NOW()
		WHERE user_id = $1 AND NOT ($2 = ANY(session_wishlist))
	`
	result, err := r.DB.ExecContext(ctx, q, userID, sessionID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Either the profile is missing or the session is already listed;
		// disambiguate for the caller.
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return err
		}
		return domain.ErrAlreadyInWishlist
	}
	return nil
}

func (r *profileRepository) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string)
	if len(userIDs) == 0 {
		return names, nil
	}
	q := `
		SELECT user_id, display_name
		FROM profiles
		WHERE user_id = ANY($1)
	`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	var confIDs, wishlist pq.StringArray
	err := row.Scan(
		&p.UserID, &p.DisplayName, &p.MainEmail, &p.TeeShirtSize,
		&confIDs, &wishlist, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ConferenceIDs = []string(confIDs)
	p.SessionWishlist = []string(wishlist)
	return p, nil
}
