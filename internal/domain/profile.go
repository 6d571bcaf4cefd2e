package domain

import (
	"context"
	"time"
)

// Valid tee shirt sizes for a profile. NOT_SPECIFIED is the lazy-create default.
var TeeShirtSizes = []string{
	"NOT_SPECIFIED",
	"XS_M", "XS_W",
	"S_M", "S_W",
	"M_M", "M_W",
	"L_M", "L_W",
	"XL_M", "XL_W",
	"XXL_M", "XXL_W",
	"XXXL_M", "XXXL_W",
}

// Profile represents a user's conference profile. It is created lazily on
// first access. ConferenceIDs is the set of conferences the user attends;
// SessionWishlist is the set of sessions the user bookmarked.
// swagger:model Profile
type Profile struct {
	UserID          string    `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	MainEmail       string    `json:"main_email"`
	TeeShirtSize    string    `json:"tee_shirt_size"`
	ConferenceIDs   []string  `json:"conference_ids"`
	SessionWishlist []string  `json:"session_wishlist"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProfile returns a new Profile with the given fields and empty sets.
func NewProfile(userID, displayName, mainEmail string, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		UserID:          userID,
		DisplayName:     displayName,
		MainEmail:       mainEmail,
		TeeShirtSize:    "NOT_SPECIFIED",
		ConferenceIDs:   []string{},
		SessionWishlist: []string{},
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	// UpdateDetails updates the user-modifiable profile fields.
	UpdateDetails(ctx context.Context, userID, displayName, teeShirtSize string) (*Profile, error)
	// AddToWishlist appends the session to the user's wishlist.
	AddToWishlist(ctx context.Context, userID, sessionID string) error
	// DisplayNames resolves user IDs to display names in one round trip.
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

// ProfileService defines profile and wishlist business logic.
type ProfileService interface {
	// GetProfile returns the user's profile, creating it on first access.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// SaveProfile updates displayName and/or teeShirtSize; empty values are
	// left unchanged.
	SaveProfile(ctx context.Context, userID, displayName, teeShirtSize string) (*Profile, error)
	// AddSessionToWishlist adds the session to the user's wishlist. Fails
	// with ErrAlreadyInWishlist when it is already present.
	AddSessionToWishlist(ctx context.Context, userID, sessionID string) (bool, error)
	// ListWishlistSessions returns all sessions on the user's wishlist.
	ListWishlistSessions(ctx context.Context, userID string) ([]*Session, error)
	// ListWishlistSessionsForConference returns the user's wishlist sessions
	// that belong to the given conference.
	ListWishlistSessionsForConference(ctx context.Context, userID, conferenceID string) ([]*Session, error)
}
