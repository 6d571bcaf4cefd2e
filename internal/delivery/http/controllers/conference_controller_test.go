package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeConferenceService implements domain.ConferenceService for handler tests.
type fakeConferenceService struct {
	createErr        error
	updateErr        error
	getErr           error
	listCreatedErr   error
	queryErr         error
	getResult        *domain.ConferenceWithOrganizer
	listCreated      []*domain.ConferenceWithOrganizer
	queryResult      []*domain.ConferenceWithOrganizer
	lastCreateUserID string
	lastCreateConf   *domain.Conference
	lastUpdateConfID string
	lastUpdateUserID string
	lastUpdate       *domain.ConferenceUpdate
	lastFilters      []query.Filter
}

func (f *fakeConferenceService) CreateConference(ctx context.Context, userID string, conf *domain.Conference) (*domain.Conference, error) {
	f.lastCreateUserID = userID
	f.lastCreateConf = conf
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *conf
	created.ID = "conf-created"
	created.OrganizerID = userID
	return &created, nil
}

func (f *fakeConferenceService) UpdateConference(ctx context.Context, conferenceID, userID string, update *domain.ConferenceUpdate) (*domain.Conference, error) {
	f.lastUpdateConfID = conferenceID
	f.lastUpdateUserID = userID
	f.lastUpdate = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.Conference{ID: conferenceID, OrganizerID: userID}, nil
}

func (f *fakeConferenceService) GetConference(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeConferenceService) ListConferencesCreated(ctx context.Context, userID string) ([]*domain.ConferenceWithOrganizer, error) {
	if f.listCreatedErr != nil {
		return nil, f.listCreatedErr
	}
	return f.listCreated, nil
}

func (f *fakeConferenceService) QueryConferences(ctx context.Context, filters []query.Filter) ([]*domain.ConferenceWithOrganizer, error) {
	f.lastFilters = filters
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResult, nil
}

// fakeAttendeeService implements domain.AttendeeService for handler tests.
type fakeAttendeeService struct {
	registerErr        error
	unregisterErr      error
	unregisterRemoved  bool
	listAttendErr      error
	listAttend         []*domain.ConferenceWithOrganizer
	lastRegisterUserID string
	lastRegisterConfID string
}

func (f *fakeAttendeeService) RegisterForConference(ctx context.Context, userID, conferenceID string) (bool, error) {
	f.lastRegisterUserID = userID
	f.lastRegisterConfID = conferenceID
	if f.registerErr != nil {
		return false, f.registerErr
	}
	return true, nil
}

func (f *fakeAttendeeService) UnregisterFromConference(ctx context.Context, userID, conferenceID string) (bool, error) {
	if f.unregisterErr != nil {
		return false, f.unregisterErr
	}
	return f.unregisterRemoved, nil
}

func (f *fakeAttendeeService) ListConferencesToAttend(ctx context.Context, userID string) ([]*domain.ConferenceWithOrganizer, error) {
	if f.listAttendErr != nil {
		return nil, f.listAttendErr
	}
	return f.listAttend, nil
}

// fakeSummaryService implements domain.SummaryService for handler tests.
type fakeSummaryService struct {
	announcement    string
	announcementErr error
	featured        string
	featuredErr     error
}

func (f *fakeSummaryService) RecomputeAnnouncement(ctx context.Context) (string, error) {
	return f.announcement, f.announcementErr
}

func (f *fakeSummaryService) Announcement(ctx context.Context) (string, error) {
	return f.announcement, f.announcementErr
}

func (f *fakeSummaryService) RecomputeFeaturedSpeaker(ctx context.Context, conferenceID, speaker string) error {
	return f.featuredErr
}

func (f *fakeSummaryService) FeaturedSpeaker(ctx context.Context) (string, error) {
	return f.featured, f.featuredErr
}

func newConferenceController(svc *fakeConferenceService, attendees *fakeAttendeeService, summaries *fakeSummaryService) *ConferenceController {
	if svc == nil {
		svc = &fakeConferenceService{}
	}
	if attendees == nil {
		attendees = &fakeAttendeeService{}
	}
	if summaries == nil {
		summaries = &fakeSummaryService{}
	}
	return NewConferenceController(testLogger, svc, attendees, summaries)
}

func TestConferenceController_CreateConference(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		noUserContext  bool
		wantStatus     int
		wantBodySubstr string
		checkConf      func(t *testing.T, conf domain.Conference)
	}{
		{
			name:       "success",
			body:       `{"name":"GopherCon","city":"Denver","max_attendees":100,"start_date":"2026-10-01"}`,
			wantStatus: http.StatusCreated,
			checkConf: func(t *testing.T, conf domain.Conference) {
				assert.Equal(t, "conf-created", conf.ID)
				assert.Equal(t, "GopherCon", conf.Name)
				assert.Equal(t, "user-123", conf.OrganizerID)
			},
		},
		{
			name:           "no user in context",
			body:           `{"name":"GopherCon"}`,
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "bad request invalid json",
			body:           `{invalid`,
			noUserContext:  true, // decode fails before we check context
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing name",
			body:           `{"city":"Denver"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "name is required",
		},
		{
			name:           "malformed start date",
			body:           `{"name":"GopherCon","start_date":"10/01/2026"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "start_date",
		},
		{
			name:           "negative max attendees",
			body:           `{"name":"GopherCon","max_attendees":-5}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "max_attendees",
		},
		{
			name:           "service error",
			body:           `{"name":"GopherCon"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeConferenceService{createErr: tt.fakeErr}
			ctrl := newConferenceController(fake, nil, nil)
			req := httptest.NewRequest(http.MethodPost, "/conferences", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.CreateConference(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusCreated && tt.checkConf != nil {
				require.Nil(t, envelope.Error, "success response must have error nil")
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var conf domain.Conference
				require.NoError(t, json.Unmarshal(dataBytes, &conf))
				tt.checkConf(t, conf)
			}
			if tt.wantStatus != http.StatusCreated && tt.wantBodySubstr != "" {
				require.NotNil(t, envelope.Error, "error response must have error set")
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestConferenceController_QueryConferences(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		fakeResult     []*domain.ConferenceWithOrganizer
		wantStatus     int
		wantBodySubstr string
		checkFilters   func(t *testing.T, filters []query.Filter)
		wantLen        int
	}{
		{
			name: "success with filters",
			body: `{"filters":[{"field":"CITY","operator":"EQ","value":"London"},{"field":"MONTH","operator":"GT","value":"6"}]}`,
			fakeResult: []*domain.ConferenceWithOrganizer{
				{Conference: &domain.Conference{ID: "conf-1", Name: "Conf A", City: "London"}, OrganizerDisplayName: "Alice"},
			},
			wantStatus: http.StatusOK,
			wantLen:    1,
			checkFilters: func(t *testing.T, filters []query.Filter) {
				require.Len(t, filters, 2)
				assert.Equal(t, query.FieldCity, filters[0].Field)
				assert.Equal(t, query.OpEQ, filters[0].Operator)
				assert.Equal(t, "London", filters[0].Value)
			},
		},
		{
			name:       "success no filters",
			body:       `{"filters":[]}`,
			fakeResult: []*domain.ConferenceWithOrganizer{},
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
		{
			name:           "two inequality fields rejected",
			body:           `{"filters":[{"field":"CITY","operator":"GT","value":"A"},{"field":"MONTH","operator":"LT","value":"6"}]}`,
			fakeErr:        &query.MultipleInequalityFieldsError{First: "city", Second: "month"},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "inequality",
		},
		{
			name:           "invalid filter field",
			body:           `{"filters":[{"field":"COLOR","operator":"EQ","value":"red"}]}`,
			fakeErr:        &query.InvalidFilterError{Token: "COLOR"},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "COLOR",
		},
		{
			name:           "service error",
			body:           `{"filters":[]}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeConferenceService{queryErr: tt.fakeErr, queryResult: tt.fakeResult}
			ctrl := newConferenceController(fake, nil, nil)
			req := httptest.NewRequest(http.MethodPost, "/conferences/query", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.QueryConferences(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error, "success response must have error nil")
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var confs []domain.ConferenceWithOrganizer
				require.NoError(t, json.Unmarshal(dataBytes, &confs))
				assert.Len(t, confs, tt.wantLen)
				if tt.checkFilters != nil {
					tt.checkFilters(t, fake.lastFilters)
				}
			} else if tt.wantBodySubstr != "" {
				require.NotNil(t, envelope.Error, "error response must have error set")
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestConferenceController_Register(t *testing.T) {
	tests := []struct {
		name           string
		conferenceID   string
		noUserContext  bool
		fakeErr        error
		wantStatus     int
		wantErrCode    string
		wantRegistered bool
	}{
		{
			name:           "success",
			conferenceID:   "conf-1",
			wantStatus:     http.StatusOK,
			wantRegistered: true,
		},
		{
			name:          "no user in context",
			conferenceID:  "conf-1",
			noUserContext: true,
			wantStatus:    http.StatusUnauthorized,
			wantErrCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:         "conference not found",
			conferenceID: "conf-missing",
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantErrCode:  helpers.ErrCodeNotFound,
		},
		{
			name:         "already registered",
			conferenceID: "conf-1",
			fakeErr:      domain.ErrAlreadyRegistered,
			wantStatus:   http.StatusConflict,
			wantErrCode:  helpers.ErrCodeConflict,
		},
		{
			name:         "no seats available",
			conferenceID: "conf-1",
			fakeErr:      domain.ErrNoSeatsAvailable,
			wantStatus:   http.StatusConflict,
			wantErrCode:  helpers.ErrCodeConflict,
		},
		{
			name:         "store contention",
			conferenceID: "conf-1",
			fakeErr:      domain.ErrContention,
			wantStatus:   http.StatusServiceUnavailable,
			wantErrCode:  helpers.ErrCodeServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attendees := &fakeAttendeeService{registerErr: tt.fakeErr}
			ctrl := newConferenceController(nil, attendees, nil)
			req := httptest.NewRequest(http.MethodPost, "http://test/conferences/"+tt.conferenceID+"/registration", nil)
			req.SetPathValue("conferenceID", tt.conferenceID)
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error, "success response must have error nil")
				dataMap, ok := envelope.Data.(map[string]interface{})
				require.True(t, ok, "data must be object")
				assert.Equal(t, tt.wantRegistered, dataMap["registered"], "data.registered")
				assert.Equal(t, "user-123", attendees.lastRegisterUserID)
				assert.Equal(t, tt.conferenceID, attendees.lastRegisterConfID)
			} else {
				require.NotNil(t, envelope.Error, "error response must have error set")
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code, "error code")
			}
		})
	}
}

func TestConferenceController_GetAnnouncement(t *testing.T) {
	tests := []struct {
		name             string
		announcement     string
		fakeErr          error
		wantStatus       int
		wantAnnouncement string
	}{
		{
			name:             "announcement published",
			announcement:     "Last chance to attend! The following conferences are nearly sold out: Conf A",
			wantStatus:       http.StatusOK,
			wantAnnouncement: "Last chance to attend! The following conferences are nearly sold out: Conf A",
		},
		{
			name:             "no announcement",
			announcement:     "",
			wantStatus:       http.StatusOK,
			wantAnnouncement: "",
		},
		{
			name:       "cache error",
			fakeErr:    errors.New("cache unavailable"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries := &fakeSummaryService{announcement: tt.announcement, announcementErr: tt.fakeErr}
			ctrl := newConferenceController(nil, nil, summaries)
			req := httptest.NewRequest(http.MethodGet, "/announcement", nil)
			rr := httptest.NewRecorder()

			ctrl.GetAnnouncement(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataMap, ok := envelope.Data.(map[string]interface{})
				require.True(t, ok, "data must be object")
				assert.Equal(t, tt.wantAnnouncement, dataMap["announcement"], "data.announcement")
			} else {
				require.NotNil(t, envelope.Error)
			}
		})
	}
}
