package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	sessionRepo    domain.SessionRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewProfileService creates a ProfileService with the given dependencies.
func NewProfileService(
	profileRepo domain.ProfileRepository,
	sessionRepo domain.SessionRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.getOrCreate(ctx, userID)
}

func (s *profileService) SaveProfile(ctx context.Context, userID, displayName, teeShirtSize string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if teeShirtSize != "" && !slices.Contains(domain.TeeShirtSizes, teeShirtSize) {
		return nil, fmt.Errorf("%w: unknown tee shirt size %q", domain.ErrInvalidInput, teeShirtSize)
	}

	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Empty submitted fields keep their stored values.
	if displayName == "" {
		displayName = profile.DisplayName
	}
	if teeShirtSize == "" {
		teeShirtSize = profile.TeeShirtSize
	}

	updated, err := s.profileRepo.UpdateDetails(ctx, userID, displayName, teeShirtSize)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

func (s *profileService) AddSessionToWishlist(ctx context.Context, userID, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return false, domain.ErrUnauthorized
	}

	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get session: %w", err)
	}

	if _, err := s.getOrCreate(ctx, userID); err != nil {
		return false, err
	}
	if err := s.profileRepo.AddToWishlist(ctx, userID, sessionID); err != nil {
		// ErrAlreadyInWishlist passes through unwrapped for the delivery layer.
		return false, err
	}
	return true, nil
}

func (s *profileService) ListWishlistSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByIDs(ctx, profile.SessionWishlist)
	if err != nil {
		return nil, fmt.Errorf("list wishlist sessions: %w", err)
	}
	return sessions, nil
}

func (s *profileService) ListWishlistSessionsForConference(ctx context.Context, userID, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByIDs(ctx, profile.SessionWishlist)
	if err != nil {
		return nil, fmt.Errorf("list wishlist sessions: %w", err)
	}
	filtered := make([]*domain.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ConferenceID != conferenceID {
			continue
		}
		filtered = append(filtered, sess)
	}
	return filtered, nil
}

// getOrCreate returns the user's profile, creating it from the account's
// name and email on first access.
func (s *profileService) getOrCreate(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	profile = domain.NewProfile(userID, user.Name, user.Email, now, now)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	// Create is idempotent; re-read in case a concurrent request won.
	created, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return created, nil
}
