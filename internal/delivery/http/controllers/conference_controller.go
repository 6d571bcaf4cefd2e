package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

const dateLayout = "2006-01-02"

// CreateConferenceRequest is the request body for POST /conferences.
// Dates use the YYYY-MM-DD format.
type CreateConferenceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	City         string   `json:"city"`
	Topics       []string `json:"topics"`
	MaxAttendees int      `json:"max_attendees"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
}

// Validate implements Validator.
func (c CreateConferenceRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.MaxAttendees < 0 {
		errs = append(errs, "max_attendees must be non-negative")
	}
	if c.StartDate != "" {
		if _, err := time.Parse(dateLayout, c.StartDate); err != nil {
			errs = append(errs, "start_date must use the YYYY-MM-DD format")
		}
	}
	if c.EndDate != "" {
		if _, err := time.Parse(dateLayout, c.EndDate); err != nil {
			errs = append(errs, "end_date must use the YYYY-MM-DD format")
		}
	}
	return errs
}

// UpdateConferenceRequest is the request body for PATCH /conferences/{conferenceID}.
// All fields optional; omitted fields are unchanged.
type UpdateConferenceRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	City         *string  `json:"city"`
	Topics       []string `json:"topics"`
	MaxAttendees *int     `json:"max_attendees"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
}

// Validate implements Validator.
func (u UpdateConferenceRequest) Validate() []string {
	var errs []string
	if u.Name != nil && *u.Name == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.MaxAttendees != nil && *u.MaxAttendees < 0 {
		errs = append(errs, "max_attendees must be non-negative")
	}
	if u.StartDate != nil {
		if _, err := time.Parse(dateLayout, *u.StartDate); err != nil {
			errs = append(errs, "start_date must use the YYYY-MM-DD format")
		}
	}
	if u.EndDate != nil {
		if _, err := time.Parse(dateLayout, *u.EndDate); err != nil {
			errs = append(errs, "end_date must use the YYYY-MM-DD format")
		}
	}
	return errs
}

// QueryConferencesRequest is the request body for POST /conferences/query.
type QueryConferencesRequest struct {
	Filters []query.Filter `json:"filters"`
}

// Validate implements Validator.
func (q QueryConferencesRequest) Validate() []string { return nil }

// RegistrationResponse is the data payload for registration endpoints.
type RegistrationResponse struct {
	Registered bool `json:"registered"`
}

// AnnouncementResponse is the data payload for GET /announcement.
type AnnouncementResponse struct {
	Announcement string `json:"announcement"`
}

type ConferenceController struct {
	Logger    *slog.Logger
	Service   domain.ConferenceService
	Attendees domain.AttendeeService
	Summaries domain.SummaryService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService, attendees domain.AttendeeService, summaries domain.SummaryService) *ConferenceController {
	return &ConferenceController{
		Logger:    logger,
		Service:   svc,
		Attendees: attendees,
		Summaries: summaries,
	}
}

func parseOptionalDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// CreateConference godoc
// @Summary Create a conference
// @Description Create a conference owned by the authenticated user. Missing city and topics get defaults; seats_available starts at max_attendees.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateConferenceRequest true "Conference data"
// @Success 201 {object} helpers.APIResponse "data contains the created conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req CreateConferenceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	conf := &domain.Conference{
		Name:         req.Name,
		Description:  req.Description,
		City:         req.City,
		Topics:       req.Topics,
		MaxAttendees: req.MaxAttendees,
		StartDate:    parseOptionalDate(req.StartDate),
		EndDate:      parseOptionalDate(req.EndDate),
	}
	created, err := c.Service.CreateConference(r.Context(), userID, conf)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Updates conference fields. Only the organizer can update. Omitted fields are unchanged; month follows start_date.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param body body UpdateConferenceRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [patch]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	var req UpdateConferenceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	update := &domain.ConferenceUpdate{
		Name:         req.Name,
		Description:  req.Description,
		City:         req.City,
		Topics:       req.Topics,
		MaxAttendees: req.MaxAttendees,
	}
	if req.StartDate != nil {
		update.StartDate = parseOptionalDate(*req.StartDate)
	}
	if req.EndDate != nil {
		update.EndDate = parseOptionalDate(*req.EndDate)
	}
	conf, err := c.Service.UpdateConference(r.Context(), conferenceID, userID, update)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, conf)
}

// GetConference godoc
// @Summary Get a conference by ID
// @Description Returns the conference with its organizer's display name.
// @Tags conferences
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains the conference"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	conf, err := c.Service.GetConference(r.Context(), conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, conf)
}

// ListMyConferences godoc
// @Summary List conferences created by the current user
// @Description Returns conferences where the authenticated user is the organizer.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of conferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/me [get]
func (c *ConferenceController) ListMyConferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	confs, err := c.Service.ListConferencesCreated(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if confs == nil {
		confs = []*domain.ConferenceWithOrganizer{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, confs)
}

// QueryConferences godoc
// @Summary Query conferences with filters
// @Description Filters conferences by CITY, TOPIC, MONTH, or MAX_ATTENDEES with operators EQ, GT, GTEQ, LT, LTEQ, NE. At most one field may carry an inequality operator; results order by that field, then name.
// @Tags conferences
// @Accept json
// @Produce json
// @Param body body QueryConferencesRequest true "Filters (may be empty)"
// @Success 200 {object} helpers.APIResponse "data is an array of conferences"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid filter or multiple inequality fields)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryConferencesRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	confs, err := c.Service.QueryConferences(r.Context(), req.Filters)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if confs == nil {
		confs = []*domain.ConferenceWithOrganizer{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, confs)
}

// Register godoc
// @Summary Register for a conference
// @Description Takes one seat and adds the conference to the user's attending list, atomically. Fails when already registered or sold out.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains registered=true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or no seats)"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable (store contention)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/registration [post]
func (c *ConferenceController) Register(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	registered, err := c.Attendees.RegisterForConference(r.Context(), userID, conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, RegistrationResponse{Registered: registered})
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Releases the user's seat and removes the conference from the attending list. Returns registered=false when the user was not registered.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains registered (true when a seat was released)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable (store contention)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/registration [delete]
func (c *ConferenceController) Unregister(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	removed, err := c.Attendees.UnregisterFromConference(r.Context(), userID, conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, RegistrationResponse{Registered: removed})
}

// ListConferencesToAttend godoc
// @Summary List conferences the current user attends
// @Description Returns the conferences on the authenticated user's attending list.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of conferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListConferencesToAttend(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	confs, err := c.Attendees.ListConferencesToAttend(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if confs == nil {
		confs = []*domain.ConferenceWithOrganizer{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, confs)
}

// GetAnnouncement godoc
// @Summary Get the current announcement
// @Description Returns the cached nearly-sold-out announcement, empty when none is published.
// @Tags conferences
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the announcement string"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcement [get]
func (c *ConferenceController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Summaries.Announcement(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, AnnouncementResponse{Announcement: announcement})
}
