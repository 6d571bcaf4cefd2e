package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// Cache keys for the derived summaries.
const (
	announcementCacheKey    = "announcements:recent"
	featuredSpeakerCacheKey = "featured:speaker"
)

// nearlySoldOutThreshold is the seat count at or below which a conference
// appears in the announcement.
const nearlySoldOutThreshold = 5

type summaryService struct {
	confRepo       domain.ConferenceRepository
	sessionRepo    domain.SessionRepository
	cache          domain.Cache
	contextTimeout time.Duration
}

// NewSummaryService creates a SummaryService with the given dependencies.
func NewSummaryService(
	confRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	cache domain.Cache,
	timeout time.Duration,
) domain.SummaryService {
	return &summaryService{
		confRepo:       confRepo,
		sessionRepo:    sessionRepo,
		cache:          cache,
		contextTimeout: timeout,
	}
}

func (s *summaryService) RecomputeAnnouncement(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.confRepo.ListNearlySoldOut(ctx, nearlySoldOutThreshold)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}

	if len(confs) == 0 {
		// A stale announcement is worse than none.
		if err := s.cache.Delete(ctx, announcementCacheKey); err != nil {
			return "", fmt.Errorf("clear announcement: %w", err)
		}
		return "", nil
	}

	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	announcement := fmt.Sprintf(
		"Last chance to attend! The following conferences are nearly sold out: %s",
		strings.Join(names, ", "),
	)
	if err := s.cache.Set(ctx, announcementCacheKey, announcement); err != nil {
		return "", fmt.Errorf("publish announcement: %w", err)
	}
	return announcement, nil
}

func (s *summaryService) Announcement(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	value, err := s.cache.Get(ctx, announcementCacheKey)
	if err != nil {
		return "", fmt.Errorf("get announcement: %w", err)
	}
	return value, nil
}

func (s *summaryService) RecomputeFeaturedSpeaker(ctx context.Context, conferenceID, speaker string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sessions, err := s.sessionRepo.ListByConferenceAndSpeaker(ctx, conferenceID, speaker)
	if err != nil {
		return fmt.Errorf("list speaker sessions: %w", err)
	}
	// A speaker is featured only with two or more sessions in the same
	// conference; below that the previous value stays published.
	if len(sessions) < 2 {
		return nil
	}

	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.Name)
	}
	value := fmt.Sprintf("The featured speaker is: %s (Sessions: %s)", speaker, strings.Join(names, ", "))
	if err := s.cache.Set(ctx, featuredSpeakerCacheKey, value); err != nil {
		return fmt.Errorf("publish featured speaker: %w", err)
	}
	return nil
}

func (s *summaryService) FeaturedSpeaker(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	value, err := s.cache.Get(ctx, featuredSpeakerCacheKey)
	if err != nil {
		return "", fmt.Errorf("get featured speaker: %w", err)
	}
	return value, nil
}
