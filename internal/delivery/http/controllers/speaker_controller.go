package controllers

import (
	"log/slog"
	"net/http"

	h "conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// CreateSpeakerRequest is the request body for POST /speakers.
type CreateSpeakerRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// Validate implements Validator.
func (c CreateSpeakerRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

type SpeakerController struct {
	Logger  *slog.Logger
	Service domain.SpeakerService
}

func NewSpeakerController(logger *slog.Logger, svc domain.SpeakerService) *SpeakerController {
	return &SpeakerController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSpeaker godoc
// @Summary Create a speaker
// @Description Creates a speaker. Names are unique; creating an existing name fails.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSpeakerRequest true "Speaker data"
// @Success 201 {object} helpers.APIResponse "data contains the created speaker"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (name taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [post]
func (c *SpeakerController) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req CreateSpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := userIDOr401(w, r); !ok {
		return
	}
	speaker, err := c.Service.CreateSpeaker(r.Context(), &domain.Speaker{Name: req.Name, Bio: req.Bio})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// GetSpeaker godoc
// @Summary Get a speaker by name
// @Tags speakers
// @Produce json
// @Param speakerName path string true "Speaker name"
// @Success 200 {object} helpers.APIResponse "data contains the speaker"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerName} [get]
func (c *SpeakerController) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	speakerName := r.PathValue("speakerName")
	if speakerName == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing speakerName")
		return
	}
	speaker, err := c.Service.GetSpeaker(r.Context(), speakerName)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, speaker)
}
