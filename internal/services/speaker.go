package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type speakerService struct {
	speakerRepo    domain.SpeakerRepository
	contextTimeout time.Duration
}

// NewSpeakerService creates a SpeakerService with the given repository.
func NewSpeakerService(speakerRepo domain.SpeakerRepository, timeout time.Duration) domain.SpeakerService {
	return &speakerService{
		speakerRepo:    speakerRepo,
		contextTimeout: timeout,
	}
}

func (s *speakerService) CreateSpeaker(ctx context.Context, speaker *domain.Speaker) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if speaker.Name == "" {
		return nil, fmt.Errorf("%w: speaker name is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	speaker.CreatedAt = now
	speaker.UpdatedAt = now

	if err := s.speakerRepo.Create(ctx, speaker); err != nil {
		if errors.Is(err, domain.ErrDuplicateSpeaker) {
			return nil, domain.ErrDuplicateSpeaker
		}
		return nil, fmt.Errorf("create speaker: %w", err)
	}
	return speaker, nil
}

func (s *speakerService) GetSpeaker(ctx context.Context, name string) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speaker, err := s.speakerRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	return speaker, nil
}
