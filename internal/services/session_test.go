package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"conferencecentral/internal/domain"
)

func TestSessionService_CreateSession(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		session     *domain.Session
		speakers    map[string]*domain.Speaker
		wantErr     bool
		isForbidden bool
		isNotFound  bool
		wantSpeaker string
		wantHL      []string
	}{
		{
			name:        "defaults applied",
			userID:      "owner",
			session:     &domain.Session{Name: "Talk"},
			speakers:    map[string]*domain.Speaker{"N.N.": {ID: "sp-1", Name: "N.N."}},
			wantSpeaker: "N.N.",
			wantHL:      []string{"Default", "Highlight"},
		},
		{
			name:        "named speaker kept",
			userID:      "owner",
			session:     &domain.Session{Name: "Talk", Speaker: "Jane Doe", Highlights: []string{"Go"}},
			speakers:    map[string]*domain.Speaker{"Jane Doe": {ID: "sp-2", Name: "Jane Doe"}},
			wantSpeaker: "Jane Doe",
			wantHL:      []string{"Go"},
		},
		{
			name:        "non-owner forbidden",
			userID:      "intruder",
			session:     &domain.Session{Name: "Talk"},
			speakers:    map[string]*domain.Speaker{"N.N.": {ID: "sp-1", Name: "N.N."}},
			wantErr:     true,
			isForbidden: true,
		},
		{
			name:       "unknown speaker rejected",
			userID:     "owner",
			session:    &domain.Session{Name: "Talk", Speaker: "Ghost"},
			speakers:   map[string]*domain.Speaker{},
			wantErr:    true,
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &mockTaskQueue{}
			svc := &sessionService{
				sessionRepo: &mockSessionRepository{},
				confRepo: &mockConferenceRepository{confs: map[string]*domain.Conference{
					"conf-1": {ID: "conf-1", OrganizerID: "owner"},
				}},
				speakerRepo:    &mockSpeakerRepository{speakers: tt.speakers},
				tasks:          tasks,
				contextTimeout: time.Second,
			}

			got, err := svc.CreateSession(context.Background(), "conf-1", tt.userID, tt.session)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got=%v (err=%v)", tt.wantErr, err != nil, err)
			}
			if tt.wantErr {
				if tt.isForbidden && !errors.Is(err, domain.ErrForbidden) {
					t.Fatalf("expected ErrForbidden, got %v", err)
				}
				if tt.isNotFound && !errors.Is(err, domain.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if got.Speaker != tt.wantSpeaker {
				t.Errorf("expected speaker %q, got %q", tt.wantSpeaker, got.Speaker)
			}
			if len(got.Highlights) != len(tt.wantHL) {
				t.Errorf("expected highlights %v, got %v", tt.wantHL, got.Highlights)
			}
			if got.ConferenceID != "conf-1" {
				t.Errorf("expected conference conf-1, got %q", got.ConferenceID)
			}
			if len(tasks.enqueued) != 1 || tasks.enqueued[0] != domain.TaskRecomputeFeaturedSpeaker {
				t.Fatalf("expected featured speaker task, got %v", tasks.enqueued)
			}
			if tasks.params[0]["speaker"] != got.Speaker {
				t.Errorf("expected task speaker %q, got %q", got.Speaker, tasks.params[0]["speaker"])
			}
		})
	}
}

func TestSessionService_ListSessionsBeforeStartExclTypes(t *testing.T) {
	svc := &sessionService{
		sessionRepo: &mockSessionRepository{beforeStart: []*domain.Session{
			{ID: "s1", Type: "lecture"},
			{ID: "s2", Type: "workshop"},
			{ID: "s3", Type: "keynote"},
		}},
		confRepo: &mockConferenceRepository{confs: map[string]*domain.Conference{
			"conf-1": {ID: "conf-1", OrganizerID: "owner"},
		}},
		speakerRepo:    &mockSpeakerRepository{},
		tasks:          &mockTaskQueue{},
		contextTimeout: time.Second,
	}

	cutoff := time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC)
	got, err := svc.ListSessionsBeforeStartExclTypes(context.Background(), "conf-1", cutoff, []string{"workshop", "keynote"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("expected only s1, got %+v", got)
	}
}

func TestSessionService_ListEarlyNonWorkshopSessions(t *testing.T) {
	repo := &mockSessionRepository{beforeStart: []*domain.Session{
		{ID: "s1", Type: "lecture"},
		{ID: "s2", Type: "workshop"},
		{ID: "s3", Type: "lecture"},
	}}
	svc := &sessionService{
		sessionRepo: repo,
		confRepo: &mockConferenceRepository{confs: map[string]*domain.Conference{
			"conf-1": {ID: "conf-1"},
		}},
		speakerRepo:    &mockSpeakerRepository{},
		tasks:          &mockTaskQueue{},
		contextTimeout: time.Second,
	}

	got, err := svc.ListEarlyNonWorkshopSessions(context.Background(), "conf-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	if !repo.lastUnschedArg {
		t.Error("expected unscheduled sessions to be included")
	}
}

func TestSessionService_ListSessionsBySpeaker(t *testing.T) {
	t.Run("unknown speaker", func(t *testing.T) {
		svc := &sessionService{
			sessionRepo:    &mockSessionRepository{},
			confRepo:       &mockConferenceRepository{},
			speakerRepo:    &mockSpeakerRepository{speakers: map[string]*domain.Speaker{}},
			tasks:          &mockTaskQueue{},
			contextTimeout: time.Second,
		}
		_, err := svc.ListSessionsBySpeaker(context.Background(), "Ghost")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("sessions across conferences", func(t *testing.T) {
		svc := &sessionService{
			sessionRepo: &mockSessionRepository{bySpeaker: map[string][]*domain.Session{
				"Jane Doe": {
					{ID: "s1", ConferenceID: "conf-1"},
					{ID: "s2", ConferenceID: "conf-2"},
				},
			}},
			confRepo:       &mockConferenceRepository{},
			speakerRepo:    &mockSpeakerRepository{speakers: map[string]*domain.Speaker{"Jane Doe": {Name: "Jane Doe"}}},
			tasks:          &mockTaskQueue{},
			contextTimeout: time.Second,
		}
		got, err := svc.ListSessionsBySpeaker(context.Background(), "Jane Doe")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(got))
		}
	})
}

func TestSessionService_ConferenceHighlights(t *testing.T) {
	svc := &sessionService{
		sessionRepo: &mockSessionRepository{byConference: map[string][]*domain.Session{
			"conf-1": {
				{ID: "s1", Highlights: []string{"Go", "API"}},
				{ID: "s2", Highlights: []string{"API", "Design"}},
			},
		}},
		confRepo: &mockConferenceRepository{confs: map[string]*domain.Conference{
			"conf-1": {ID: "conf-1"},
		}},
		speakerRepo:    &mockSpeakerRepository{},
		tasks:          &mockTaskQueue{},
		contextTimeout: time.Second,
	}

	got, err := svc.ConferenceHighlights(context.Background(), "conf-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Go, API, Design"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
