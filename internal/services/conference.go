package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

// Defaults applied to missing conference fields on create.
var defaultConferenceTopics = []string{"Default", "Topic"}

const defaultConferenceCity = "Default City"

type conferenceService struct {
	confRepo       domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	userRepo       domain.UserRepository
	tasks          domain.TaskQueue
	contextTimeout time.Duration
}

// NewConferenceService creates a ConferenceService with the given dependencies.
func NewConferenceService(
	confRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	userRepo domain.UserRepository,
	tasks domain.TaskQueue,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		confRepo:       confRepo,
		profileRepo:    profileRepo,
		userRepo:       userRepo,
		tasks:          tasks,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, userID string, conf *domain.Conference) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if conf.Name == "" {
		return nil, fmt.Errorf("%w: conference name is required", domain.ErrInvalidInput)
	}

	conf.OrganizerID = userID
	if conf.City == "" {
		conf.City = defaultConferenceCity
	}
	if len(conf.Topics) == 0 {
		conf.Topics = defaultConferenceTopics
	}
	if conf.MaxAttendees < 0 {
		return nil, fmt.Errorf("%w: max_attendees must not be negative", domain.ErrInvalidInput)
	}

	// Month derives from the start date; 0 when undated.
	conf.Month = 0
	if conf.StartDate != nil {
		conf.Month = int(conf.StartDate.Month())
	}

	// A capacity-limited conference starts fully available. maxAttendees == 0
	// means unlimited and seat tracking stays suspended at 0.
	if conf.MaxAttendees > 0 {
		conf.SeatsAvailable = conf.MaxAttendees
	} else {
		conf.SeatsAvailable = 0
	}

	now := time.Now()
	conf.CreatedAt = now
	conf.UpdatedAt = now

	if err := s.confRepo.Create(ctx, conf); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	// Confirmation email and announcement refresh run off the request path;
	// enqueue failures are not the caller's problem.
	if owner, err := s.userRepo.GetByID(ctx, userID); err == nil {
		_ = s.tasks.Enqueue(ctx, domain.TaskSendConfirmationEmail, map[string]string{
			"email":           owner.Email,
			"organizer_name":  owner.Name,
			"conference_name": conf.Name,
			"city":            conf.City,
		})
	}
	_ = s.tasks.Enqueue(ctx, domain.TaskRecomputeAnnouncement, nil)

	return conf, nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, conferenceID, userID string, update *domain.ConferenceUpdate) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
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

	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("%w: conference name is required", domain.ErrInvalidInput)
		}
		conf.Name = *update.Name
	}
	if update.Description != nil {
		conf.Description = *update.Description
	}
	if update.City != nil {
		conf.City = *update.City
	}
	if len(update.Topics) > 0 {
		conf.Topics = update.Topics
	}
	if update.MaxAttendees != nil {
		if *update.MaxAttendees < 0 {
			return nil, fmt.Errorf("%w: max_attendees must not be negative", domain.ErrInvalidInput)
		}
		conf.MaxAttendees = *update.MaxAttendees
	}
	if update.StartDate != nil {
		conf.StartDate = update.StartDate
		conf.Month = int(update.StartDate.Month())
	}
	if update.EndDate != nil {
		conf.EndDate = update.EndDate
	}

	if err := s.confRepo.Update(ctx, conf); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update conference: %w", err)
	}

	_ = s.tasks.Enqueue(ctx, domain.TaskRecomputeAnnouncement, nil)

	return conf, nil
}

func (s *conferenceService) GetConference(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := s.confRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	names, err := s.profileRepo.DisplayNames(ctx, []string{conf.OrganizerID})
	if err != nil {
		return nil, fmt.Errorf("get organizer display name: %w", err)
	}
	return &domain.ConferenceWithOrganizer{
		Conference:           conf,
		OrganizerDisplayName: names[conf.OrganizerID],
	}, nil
}

func (s *conferenceService) ListConferencesCreated(ctx context.Context, userID string) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	confs, err := s.confRepo.ListByOrganizerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return s.withOrganizerNames(ctx, confs)
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []query.Filter) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	confs, err := s.confRepo.Query(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	return s.withOrganizerNames(ctx, confs)
}

// withOrganizerNames resolves all organizer display names in one round trip.
func (s *conferenceService) withOrganizerNames(ctx context.Context, confs []*domain.Conference) ([]*domain.ConferenceWithOrganizer, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range confs {
		if _, ok := seen[c.OrganizerID]; ok {
			continue
		}
		seen[c.OrganizerID] = struct{}{}
		ids = append(ids, c.OrganizerID)
	}
	names, err := s.profileRepo.DisplayNames(ctx, ids)
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
