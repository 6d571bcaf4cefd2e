package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// Defaults applied to missing session fields on create.
var defaultSessionHighlights = []string{"Default", "Highlight"}

const defaultSessionSpeaker = "N.N."

// earlySessionCutoff is the 19:00 boundary for the early non-workshop query.
var earlySessionCutoff = time.Date(0, 1, 1, 19, 0, 0, 0, time.UTC)

type sessionService struct {
	sessionRepo    domain.SessionRepository
	confRepo       domain.ConferenceRepository
	speakerRepo    domain.SpeakerRepository
	tasks          domain.TaskQueue
	contextTimeout time.Duration
}

// NewSessionService creates a SessionService with the given dependencies.
func NewSessionService(
	sessionRepo domain.SessionRepository,
	confRepo domain.ConferenceRepository,
	speakerRepo domain.SpeakerRepository,
	tasks domain.TaskQueue,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		confRepo:       confRepo,
		speakerRepo:    speakerRepo,
		tasks:          tasks,
		contextTimeout: timeout,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, conferenceID, userID string, session *domain.Session) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if session.Name == "" {
		return nil, fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
	}

	conf, err := s.confRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OrganizerID != userID {
		return nil, domain.ErrForbidden
	}

	if session.Speaker == "" {
		session.Speaker = defaultSessionSpeaker
	}
	if len(session.Highlights) == 0 {
		session.Highlights = defaultSessionHighlights
	}

	// Speakers are referenced by name; integrity is checked here only.
	if _, err := s.speakerRepo.GetByName(ctx, session.Speaker); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: speaker %q", domain.ErrNotFound, session.Speaker)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}

	session.ConferenceID = conferenceID
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// The featured-speaker summary is a function of the whole conference,
	// so it is recomputed from a scan off the request path.
	_ = s.tasks.Enqueue(ctx, domain.TaskRecomputeFeaturedSpeaker, map[string]string{
		"conference_id": conferenceID,
		"speaker":       session.Speaker,
	})

	return session, nil
}

func (s *sessionService) UpdateSession(ctx context.Context, sessionID, userID string, update *domain.SessionUpdate) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	conf, err := s.confRepo.GetByID(ctx, session.ConferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OrganizerID != userID {
		return nil, domain.ErrForbidden
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
		}
		session.Name = *update.Name
	}
	if update.Speaker != nil {
		session.Speaker = *update.Speaker
	}
	if update.Type != nil {
		session.Type = *update.Type
	}
	if update.Duration != nil {
		session.Duration = *update.Duration
	}
	if len(update.Highlights) > 0 {
		session.Highlights = update.Highlights
	}
	if update.Date != nil {
		session.Date = update.Date
	}
	if update.StartTime != nil {
		session.StartTime = update.StartTime
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *sessionService) ListConferenceSessions(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListConferenceSessionsByType(ctx context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conferenceID, sessionType)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListSessionsBySpeaker(ctx context.Context, speakerName string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speaker, err := s.speakerRepo.GetByName(ctx, speakerName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: speaker %q", domain.ErrNotFound, speakerName)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	sessions, err := s.sessionRepo.ListBySpeaker(ctx, speaker.Name)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListSessionsBeforeStartExclTypes(ctx context.Context, conferenceID string, startTime time.Time, excludedTypes []string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceBeforeStart(ctx, conferenceID, startTime, false)
	if err != nil {
		return nil, fmt.Errorf("list sessions before start: %w", err)
	}

	excluded := make(map[string]struct{}, len(excludedTypes))
	for _, t := range excludedTypes {
		excluded[t] = struct{}{}
	}
	filtered := make([]*domain.Session, 0, len(sessions))
	for _, sess := range sessions {
		if _, ok := excluded[sess.Type]; ok {
			continue
		}
		filtered = append(filtered, sess)
	}
	return filtered, nil
}

func (s *sessionService) ListEarlyNonWorkshopSessions(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	// Sessions without a start time count as early: they may still be
	// scheduled anywhere.
	sessions, err := s.sessionRepo.ListByConferenceBeforeStart(ctx, conferenceID, earlySessionCutoff, true)
	if err != nil {
		return nil, fmt.Errorf("list early sessions: %w", err)
	}
	filtered := make([]*domain.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Type == "workshop" {
			continue
		}
		filtered = append(filtered, sess)
	}
	return filtered, nil
}

func (s *sessionService) ListSessionsToday(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceOnDate(ctx, conferenceID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list sessions today: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ConferenceHighlights(ctx context.Context, conferenceID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureConference(ctx, conferenceID); err != nil {
		return "", err
	}
	sessions, err := s.sessionRepo.ListByConferenceID(ctx, conferenceID)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}

	seen := make(map[string]struct{})
	var highlights []string
	for _, sess := range sessions {
		for _, h := range sess.Highlights {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			highlights = append(highlights, h)
		}
	}
	return strings.Join(highlights, ", "), nil
}

func (s *sessionService) ensureConference(ctx context.Context, conferenceID string) error {
	if _, err := s.confRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get conference: %w", err)
	}
	return nil
}
