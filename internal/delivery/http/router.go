package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	conferenceController *controllers.ConferenceController,
	sessionController *controllers.SessionController,
	speakerController *controllers.SpeakerController,
	profileController *controllers.ProfileController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Conferences
	mux.HandleFunc("POST /conferences", auth(conferenceController.CreateConference))
	mux.HandleFunc("GET /conferences/me", auth(conferenceController.ListMyConferences))
	mux.HandleFunc("GET /conferences/attending", auth(conferenceController.ListConferencesToAttend))
	mux.HandleFunc("POST /conferences/query", conferenceController.QueryConferences)
	mux.HandleFunc("GET /conferences/{conferenceID}", conferenceController.GetConference)
	mux.HandleFunc("PATCH /conferences/{conferenceID}", auth(conferenceController.UpdateConference))
	mux.HandleFunc("POST /conferences/{conferenceID}/registration", auth(conferenceController.Register))
	mux.HandleFunc("DELETE /conferences/{conferenceID}/registration", auth(conferenceController.Unregister))
	mux.HandleFunc("GET /announcement", conferenceController.GetAnnouncement)

	// Sessions
	mux.HandleFunc("POST /conferences/{conferenceID}/sessions", auth(sessionController.CreateSession))
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions", sessionController.ListConferenceSessions)
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/type/{sessionType}", sessionController.ListConferenceSessionsByType)
	mux.HandleFunc("POST /conferences/{conferenceID}/sessions/before-start", sessionController.ListSessionsBeforeStart)
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/early-non-workshop", sessionController.ListEarlyNonWorkshopSessions)
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/today", sessionController.ListSessionsToday)
	mux.HandleFunc("GET /conferences/{conferenceID}/highlights", sessionController.GetConferenceHighlights)
	mux.HandleFunc("GET /sessions/{sessionID}", sessionController.GetSession)
	mux.HandleFunc("PATCH /sessions/{sessionID}", auth(sessionController.UpdateSession))
	mux.HandleFunc("GET /featured-speaker", sessionController.GetFeaturedSpeaker)

	// Speakers
	mux.HandleFunc("POST /speakers", auth(speakerController.CreateSpeaker))
	mux.HandleFunc("GET /speakers/{speakerName}", speakerController.GetSpeaker)
	mux.HandleFunc("GET /speakers/{speakerName}/sessions", sessionController.ListSessionsBySpeaker)

	// Profile
	mux.HandleFunc("GET /profile", auth(profileController.GetProfile))
	mux.HandleFunc("PUT /profile", auth(profileController.SaveProfile))
	mux.HandleFunc("GET /profile/wishlist", auth(profileController.ListWishlistSessions))
	mux.HandleFunc("POST /profile/wishlist/{sessionID}", auth(profileController.AddSessionToWishlist))
	mux.HandleFunc("GET /profile/wishlist/conference/{conferenceID}", auth(profileController.ListWishlistSessionsForConference))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
