package services

import (
	"context"
	"fmt"

	"conferencecentral/internal/domain"
)

type attendeeService struct {
	registrationRepo domain.RegistrationRepository
	confRepo         domain.ConferenceRepository
	profileRepo      domain.ProfileRepository
	tasks            domain.TaskQueue
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(
	registrationRepo domain.RegistrationRepository,
	confRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	tasks domain.TaskQueue,
) domain.AttendeeService {
	return &attendeeService{
		registrationRepo: registrationRepo,
		confRepo:         confRepo,
		profileRepo:      profileRepo,
		tasks:            tasks,
	}
}

func (s *attendeeService) RegisterForConference(ctx context.Context, userID, conferenceID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUnauthorized
	}

	if err := s.registrationRepo.Register(ctx, userID, conferenceID); err != nil {
		// Conflicts and contention pass through unwrapped so the delivery
		// layer can map them.
		return false, err
	}

	// Taking a seat may move the conference into nearly-sold-out territory;
	// refresh the announcement off the request path.
	_ = s.tasks.Enqueue(ctx, domain.TaskRecomputeAnnouncement, nil)
	return true, nil
}

func (s *attendeeService) UnregisterFromConference(ctx context.Context, userID, conferenceID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUnauthorized
	}

	removed, err := s.registrationRepo.Unregister(ctx, userID, conferenceID)
	if err != nil {
		return false, err
	}
	if removed {
		_ = s.tasks.Enqueue(ctx, domain.TaskRecomputeAnnouncement, nil)
	}
	return removed, nil
}

func (s *attendeeService) ListConferencesToAttend(ctx context.Context, userID string) ([]*domain.ConferenceWithOrganizer, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			// No profile yet means no registrations.
			return []*domain.ConferenceWithOrganizer{}, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	confs, err := s.confRepo.ListByIDs(ctx, profile.ConferenceIDs)
	if err != nil {
		return nil, fmt.Errorf("list attended conferences: %w", err)
	}

	seen := make(map[string]struct{})
	var organizerIDs []string
	for _, c := range confs {
		if _, ok := seen[c.OrganizerID]; ok {
			continue
		}
		seen[c.OrganizerID] = struct{}{}
		organizerIDs = append(organizerIDs, c.OrganizerID)
	}
	names, err := s.profileRepo.DisplayNames(ctx, organizerIDs)
	if err != nil {
		return nil, fmt.Errorf("get organizer display names: %w", err)
	}

	result := make([]*domain.ConferenceWithOrganizer, 0, len(confs))
	for _, c := range confs {
		result = append(result, &domain.ConferenceWithOrganizer{
			Conference:           c,
			OrganizerDisplayName: names[c.OrganizerID],
		})
	}
	return result, nil
}
