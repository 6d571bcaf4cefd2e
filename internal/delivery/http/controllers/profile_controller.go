package controllers

import (
	"log/slog"
	"net/http"

	h "conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// SaveProfileRequest is the request body for PUT /profile. Empty fields are
// left unchanged.
type SaveProfileRequest struct {
	DisplayName  string `json:"display_name"`
	TeeShirtSize string `json:"tee_shirt_size"`
}

// Validate implements Validator.
func (s SaveProfileRequest) Validate() []string { return nil }

// WishlistAddResponse is the data payload for POST /profile/wishlist/{sessionID}.
type WishlistAddResponse struct {
	Added bool `json:"added"`
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Description Returns the authenticated user's profile, creating it with account defaults on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.GetProfile(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

// SaveProfile godoc
// @Summary Update the current user's profile
// @Description Updates display name and tee shirt size. Empty fields keep their stored values.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveProfileRequest true "Profile fields"
// @Success 200 {object} helpers.APIResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid tee shirt size)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [put]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.SaveProfile(r.Context(), userID, req.DisplayName, req.TeeShirtSize)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

// AddSessionToWishlist godoc
// @Summary Add a session to the wishlist
// @Description Adds the session to the authenticated user's wishlist. Fails when it is already there.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} helpers.APIResponse "data contains added=true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown session)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already in wishlist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist/{sessionID} [post]
func (c *ProfileController) AddSessionToWishlist(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing sessionID")
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	added, err := c.Service.AddSessionToWishlist(r.Context(), userID, sessionID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, WishlistAddResponse{Added: added})
}

// ListWishlistSessions godoc
// @Summary List the sessions on the wishlist
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist [get]
func (c *ProfileController) ListWishlistSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	sessions, err := c.Service.ListWishlistSessions(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}

// ListWishlistSessionsForConference godoc
// @Summary List wishlist sessions belonging to a conference
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data is an array of sessions"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist/conference/{conferenceID} [get]
func (c *ProfileController) ListWishlistSessionsForConference(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	userID, ok := userIDOr401(w, r)
	if !ok {
		return
	}
	sessions, err := c.Service.ListWishlistSessionsForConference(r.Context(), userID, conferenceID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	writeSessions(w, sessions)
}
