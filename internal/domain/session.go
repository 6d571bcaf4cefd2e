package domain

import (
	"context"
	"time"
)

// Session represents a conference session or talk. A session belongs to
// exactly one conference and cannot be moved to another one. Speaker is a
// reference to Speaker.Name; it is checked at creation time only.
// swagger:model Session
type Session struct {
	ID           string     `json:"id"`
	ConferenceID string     `json:"conference_id"`
	Name         string     `json:"name"`
	Speaker      string     `json:"speaker"`
	Type         string     `json:"type"`
	Duration     int        `json:"duration"`
	Highlights   []string   `json:"highlights"`
	Date         *time.Time `json:"date"`
	StartTime    *time.Time `json:"start_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewSession returns a new Session with the given fields. ID is typically set by the repository on create.
func NewSession(conferenceID, name, speaker, sessionType string, duration int, highlights []string, date, startTime *time.Time, createdAt, updatedAt time.Time) *Session {
	return &Session{
		ConferenceID: conferenceID,
		Name:         name,
		Speaker:      speaker,
		Type:         sessionType,
		Duration:     duration,
		Highlights:   highlights,
		Date:         date,
		StartTime:    startTime,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// SessionUpdate carries partial updates; nil fields are left unchanged.
// The parent conference is immutable.
type SessionUpdate struct {
	Name       *string
	Speaker    *string
	Type       *string
	Duration   *int
	Highlights []string
	Date       *time.Time
	StartTime  *time.Time
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	ListByConferenceID(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID, sessionType string) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speaker string) ([]*Session, error)
	// ListByConferenceBeforeStart returns the conference's sessions starting
	// at or before the given time of day. Sessions without a start time are
	// included when includeUnscheduled is true.
	ListByConferenceBeforeStart(ctx context.Context, conferenceID string, startTime time.Time, includeUnscheduled bool) ([]*Session, error)
	ListByConferenceOnDate(ctx context.Context, conferenceID string, date time.Time) ([]*Session, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Session, error)
}

// SessionService defines the business logic for session management and queries.
type SessionService interface {
	// CreateSession creates a session under the conference. Only the
	// conference owner may create sessions; the speaker must exist by name.
	CreateSession(ctx context.Context, conferenceID, userID string, session *Session) (*Session, error)
	UpdateSession(ctx context.Context, sessionID, userID string, update *SessionUpdate) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListConferenceSessions(ctx context.Context, conferenceID string) ([]*Session, error)
	ListConferenceSessionsByType(ctx context.Context, conferenceID, sessionType string) ([]*Session, error)
	// ListSessionsBySpeaker returns the speaker's sessions across all
	// conferences. The speaker must exist.
	ListSessionsBySpeaker(ctx context.Context, speakerName string) ([]*Session, error)
	// ListSessionsBeforeStartExclTypes returns the conference's sessions at
	// or before startTime whose type is not in excludedTypes.
	ListSessionsBeforeStartExclTypes(ctx context.Context, conferenceID string, startTime time.Time, excludedTypes []string) ([]*Session, error)
	// ListEarlyNonWorkshopSessions returns the conference's non-workshop
	// sessions starting at or before 19:00, including unscheduled ones.
	ListEarlyNonWorkshopSessions(ctx context.Context, conferenceID string) ([]*Session, error)
	ListSessionsToday(ctx context.Context, conferenceID string) ([]*Session, error)
	// ConferenceHighlights returns the distinct highlights of all of the
	// conference's sessions, comma-joined, in first-seen order.
	ConferenceHighlights(ctx context.Context, conferenceID string) (string, error)
}
