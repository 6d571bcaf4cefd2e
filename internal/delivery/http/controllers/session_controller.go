package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

const timeOfDayLayout = "15:04"

// CreateSessionRequest is the request body for POST /conferences/{conferenceID}/sessions.
// Date uses YYYY-MM-DD, start_time uses HH:MM (24h).
type CreateSessionRequest struct {
	Name       string   `json:"name"`
	Speaker    string   `json:"speaker"`
	Type       string   `json:"type"`
	Duration   int      `json:"duration"`
	Highlights []string `json:"highlights"`
	Date       string   `json:"date"`
	StartTime  string   `json:"start_time"`
}

// Validate implements Validator.
func (c CreateSessionRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Duration < 0 {
		errs = append(errs, "duration must be non-negative")
	}
	if c.Date != "" {
		if _, err := time.Parse(dateLayout, c.Date); err != nil {
			errs = append(errs, "date must use the YYYY-MM-DD format")
		}
	}
	if c.StartTime != "" {
		if _, err := time.Parse(timeOfDayLayout, c.StartTime); err != nil {
			errs = append(errs, "start_time must use the HH:MM format")
		}
	}
	return errs
}

// UpdateSessionRequest is the request body for PATCH /sessions/{sessionID}.
// All fields optional; omitted fields are unchanged. The parent conference
// cannot change.
type UpdateSessionRequest struct {
	Name       *string  `json:"name"`
	Speaker    *string  `json:"speaker"`
	Type       *string  `json:"type"`
	Duration   *int     `json:"duration"`
	Highlights []string `json:"highlights"`
	Date       *string  `json:"date"`
	StartTime  *string  `json:"start_time"`
}

// Validate implements Validator.
func (u UpdateSessionRequest) Validate() []string {
	var errs []string
	if u.Name != nil && *u.Name == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.Duration != nil && *u.Duration < 0 {
		errs = append(errs, "duration must be non-negative")
	}
	if u.Date != nil {
		if _, err := time.Parse(dateLayout, *u.Date); err != nil {
			errs = append(errs, "date must use the YYYY-MM-DD format")
		}
	}
	if u.StartTime != nil {
		if _, err := time.Parse(timeOfDayLayout, *u.StartTime); err != nil {
			errs = append(errs, "start_time must use the HH:MM format")
		}
	}
	return errs
}

// SessionsBeforeStartRequest is the request body for POST /conferences/{conferenceID}/sessions/before-start.
type SessionsBeforeStartRequest struct {
	StartTime     string   `json:"start_time"`
	ExcludedTypes []string `json:"excluded_types"`
}

// Validate implements Validator.
func (s SessionsBeforeStartRequest) Validate() []string {
	var errs []string
	if s.StartTime == "" {
		errs = append(errs, "start_time is required")
	} else if _, err := time.Parse(timeOfDayLayout, s.StartTime); err != nil {
		errs = append(errs, "start_time must use the HH:MM format")
	}
	return errs
}

// HighlightsResponse is the data payload for GET /conferences/{conferenceID}/highlights.
type HighlightsResponse struct {
	Highlights string `json:"highlights"`
}

// FeaturedSpeakerResponse is the data payload for GET /featured-speaker.
type FeaturedSpeakerResponse struct {
	FeaturedSpeaker string `json:"featured_speaker"`
}

type SessionController struct {
	Logger    *slog.Logger
	Service   domain.SessionService
	Summaries domain.SummaryService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService, summaries domain.SummaryService) *SessionController {
	return &SessionController{
		Logger:    logger,
		Service:   svc,
		Summaries: summaries,
	}
}

func parseOptionalTimeOfDay(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(timeOfDayLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// CreateSession godoc
// @Summary Create a session in a conference
// @Description Creates a session under the conference. Only the organizer may create sessions. The speaker must exist by name; missing speaker and highlights get defaults.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param body body CreateSessionRequest true "Session data"
// @Success 201 {object} helpers.APIResponse "data contains the created session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (conference or speaker)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	var req CreateSessionRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	sess := &domain.Session{
		Name:       req.Name,
		Speaker:    req.Speaker,
		Type:       req.Type,
		Duration:   req.Duration,
		Highlights: req.Highlights,
		Date:       parseOptionalDate(req.Date),
		StartTime:  parseOptionalTimeOfDay(req.StartTime),
	}
	created, err := c.Service.CreateSession(r.Context(), conferenceID, userID, sess)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateSession godoc
// @Summary Update a session
// @Description Updates session fields. Only the parent conference's organizer may update. Omitted fields are unchanged.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param body body UpdateSessionRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{sessionID} [patch]
func (c *SessionController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing sessionID")
		return
	}
	var req UpdateSessionRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	update := &domain.SessionUpdate{
		Name:       req.Name,
		Speaker:    req.Speaker,
		Type:       req.Type,
		Duration:   req.Duration,
		Highlights: req.Highlights,
	}
	if req.Date != nil {
		update.Date = parseOptionalDate(*req.Date)
	}
	if req.StartTime != nil {
		update.StartTime = parseOptionalTimeOfDay(*req.StartTime)
	}
	sess, err := c.Service.UpdateSession(r.Context(), sessionID, userID, update)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, sess)
}

// GetSession godoc
// @Summary Get a session by ID
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} helpers.APIResponse "data contains the session"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{sessionID} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing sessionID")
		return
	}
	sess, err := c.Service.GetSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, sess)
}

// ListConferenceSessions godoc
// @Summary List a conference's sessions
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions [get]
func (c *SessionController) ListConferenceSessions(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	sessions, err := c.Service.ListConferenceSessions(r.Context(), conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}

// ListConferenceSessionsByType godoc
// @Summary List a conference's sessions of a given type
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Param sessionType path string true "Session type (e.g. lecture, workshop, keynote)"
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions/type/{sessionType} [get]
func (c *SessionController) ListConferenceSessionsByType(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	sessionType := r.PathValue("sessionType")
	if conferenceID == "" || sessionType == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID or sessionType")
		return
	}
	sessions, err := c.Service.ListConferenceSessionsByType(r.Context(), conferenceID, sessionType)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}

// ListSessionsBySpeaker godoc
// @Summary List a speaker's sessions across all conferences
// @Tags sessions
// @Produce json
// @Param speakerName path string true "Speaker name"
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown speaker)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerName}/sessions [get]
func (c *SessionController) ListSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	speakerName := r.PathValue("speakerName")
	if speakerName == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing speakerName")
		return
	}
	sessions, err := c.Service.ListSessionsBySpeaker(r.Context(), speakerName)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}

// ListSessionsBeforeStart godoc
// @Summary List sessions before a start time, excluding types
// @Description Returns the conference's sessions starting at or before the given time of day whose type is not in excluded_types. Unscheduled sessions are omitted.
// @Tags sessions
// @Accept json
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Param body body SessionsBeforeStartRequest true "Start time (HH:MM) and excluded types"
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions/before-start [post]
func (c *SessionController) ListSessionsBeforeStart(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	var req SessionsBeforeStartRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	startTime, err := time.Parse(timeOfDayLayout, req.StartTime)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "start_time must use the HH:MM format")
		return
	}
	sessions, err := c.Service.ListSessionsBeforeStartExclTypes(r.Context(), conferenceID, startTime, req.ExcludedTypes)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}

// ListEarlyNonWorkshopSessions godoc
// @Summary List non-workshop sessions before 19:00
// @Description Returns the conference's sessions that are not workshops and start at or before 19:00, including sessions with no start time.
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions/early-non-workshop [get]
func (c *SessionController) ListEarlyNonWorkshopSessions(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	sessions, err := c.Service.ListEarlyNonWorkshopSessions(r.Context(), conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}

// ListSessionsToday godoc
// @Summary List a conference's sessions scheduled for today
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions/today [get]
func (c *SessionController) ListSessionsToday(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	sessions, err := c.Service.ListSessionsToday(r.Context(), conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}

// GetConferenceHighlights godoc
// @Summary Get a conference's session highlights
// @Description Returns the distinct highlights of all of the conference's sessions, comma-joined in first-seen order.
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains the highlights string"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/highlights [get]
func (c *SessionController) GetConferenceHighlights(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	highlights, err := c.Service.ConferenceHighlights(r.Context(), conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, HighlightsResponse{Highlights: highlights})
}

// GetFeaturedSpeaker godoc
// @Summary Get the current featured speaker
// @Description Returns the cached featured speaker summary, empty when none is published.
// @Tags sessions
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the featured speaker string"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /featured-speaker [get]
func (c *SessionController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	featured, err := c.Summaries.FeaturedSpeaker(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, FeaturedSpeakerResponse{FeaturedSpeaker: featured})
}

func writeSessions(w http.ResponseWriter, sessions []*domain.Session) {
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, sessions)
}
