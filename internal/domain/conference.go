package domain

import (
	"context"
	"time"

	"conferencecentral/internal/query"
)

// Conference represents a conference owned by its organizer's profile.
// Seat inventory: 0 <= SeatsAvailable <= MaxAttendees. MaxAttendees == 0
// means unlimited attendance and seat tracking is suspended.
// swagger:model Conference
type Conference struct {
	ID             string     `json:"id"`
	OrganizerID    string     `json:"organizer_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	City           string     `json:"city"`
	Topics         []string   `json:"topics"`
	Month          int        `json:"month"`
	MaxAttendees   int        `json:"max_attendees"`
	SeatsAvailable int        `json:"seats_available"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewConference returns a new Conference with the given fields. ID is typically set by the repository on create.
func NewConference(organizerID, name, description, city string, topics []string, month, maxAttendees, seatsAvailable int, startDate, endDate *time.Time, createdAt, updatedAt time.Time) *Conference {
	return &Conference{
		OrganizerID:    organizerID,
		Name:           name,
		Description:    description,
		City:           city,
		Topics:         topics,
		Month:          month,
		MaxAttendees:   maxAttendees,
		SeatsAvailable: seatsAvailable,
		StartDate:      startDate,
		EndDate:        endDate,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// ConferenceWithOrganizer bundles a conference with its organizer's display name.
type ConferenceWithOrganizer struct {
	Conference           *Conference `json:"conference"`
	OrganizerDisplayName string      `json:"organizer_display_name"`
}

// ConferenceUpdate carries partial updates; nil fields are left unchanged.
type ConferenceUpdate struct {
	Name         *string
	Description  *string
	City         *string
	Topics       []string
	MaxAttendees *int
	StartDate    *time.Time
	EndDate      *time.Time
}

// ConferenceRepository defines the interface for conference storage
type ConferenceRepository interface {
	Create(ctx context.Context, conf *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Conference, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Conference, error)
	// Query executes a compiled filter plan against the conferences table.
	Query(ctx context.Context, plan *query.Plan) ([]*Conference, error)
	// ListNearlySoldOut returns conferences with 0 < seats_available <= threshold.
	ListNearlySoldOut(ctx context.Context, threshold int) ([]*Conference, error)
	Update(ctx context.Context, conf *Conference) error
}

// RegistrationRepository executes seat registration as a single atomic
// transaction spanning the profile and conference rows. Implementations must
// re-read both rows on every retry and bound the number of attempts,
// returning ErrContention when exhausted.
type RegistrationRepository interface {
	// Register adds the conference to the user's attending set and takes one
	// seat. Fails with ErrNotFound, ErrAlreadyRegistered, ErrNoSeatsAvailable,
	// or ErrContention.
	Register(ctx context.Context, userID, conferenceID string) error
	// Unregister removes the conference from the user's attending set and
	// releases one seat. Returns false without error when the user was not
	// registered. Fails with ErrNotFound, ErrSeatInvariant, or ErrContention.
	Unregister(ctx context.Context, userID, conferenceID string) (bool, error)
}

// ConferenceService defines the business logic for conference management.
type ConferenceService interface {
	CreateConference(ctx context.Context, userID string, conf *Conference) (*Conference, error)
	UpdateConference(ctx context.Context, conferenceID, userID string, update *ConferenceUpdate) (*Conference, error)
	GetConference(ctx context.Context, conferenceID string) (*ConferenceWithOrganizer, error)
	ListConferencesCreated(ctx context.Context, userID string) ([]*ConferenceWithOrganizer, error)
	QueryConferences(ctx context.Context, filters []query.Filter) ([]*ConferenceWithOrganizer, error)
}

// AttendeeService defines attendee-facing seat inventory operations.
type AttendeeService interface {
	// RegisterForConference registers the user and takes one seat. Returns
	// true on success; the caller identity must resolve or ErrUnauthorized is
	// returned before any store access.
	RegisterForConference(ctx context.Context, userID, conferenceID string) (bool, error)
	// UnregisterFromConference releases the user's seat. Returns false when
	// the user was not registered (idempotent, not an error).
	UnregisterFromConference(ctx context.Context, userID, conferenceID string) (bool, error)
	ListConferencesToAttend(ctx context.Context, userID string) ([]*ConferenceWithOrganizer, error)
}
