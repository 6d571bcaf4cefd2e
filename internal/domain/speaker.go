package domain

import (
	"context"
	"time"
)

// Speaker represents a speaker identified by unique name. Sessions reference
// speakers by name equality, not by key.
// swagger:model Speaker
type Speaker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSpeaker returns a new Speaker with the given fields. ID is typically set by the repository on create.
func NewSpeaker(name, bio string, createdAt, updatedAt time.Time) *Speaker {
	return &Speaker{
		Name:      name,
		Bio:       bio,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// SpeakerRepository defines the interface for speaker storage.
type SpeakerRepository interface {
	Create(ctx context.Context, speaker *Speaker) error
	GetByName(ctx context.Context, name string) (*Speaker, error)
}

// SpeakerService defines the business logic for speakers.
type SpeakerService interface {
	CreateSpeaker(ctx context.Context, speaker *Speaker) (*Speaker, error)
	GetSpeaker(ctx context.Context, name string) (*Speaker, error)
}
