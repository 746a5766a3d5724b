package handlers

import (
	"net/http"

	"github.com/campuslab/campus-events-api/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	eventHandler *EventHandler,
	registrationHandler *RegistrationHandler,
	userHandler *UserHandler,
	locationHandler *LocationHandler,
	apiKeyHandler *APIKeyHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(authHandler.IdentityMiddleware)

	// Initialize Huma API
	config := huma.DefaultConfig("Campus Events API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	withAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)

	huma.Get(api, "/me", authHandler.HandleMe, withAuth)

	// Events
	huma.Post(api, "/events", eventHandler.HandleCreateEvent, withAuth)
	huma.Get(api, "/events", eventHandler.HandleListEvents, withAuth)
	huma.Get(api, "/events/{id}", eventHandler.HandleGetEvent, withAuth)
	huma.Put(api, "/events/{id}", eventHandler.HandleUpdateEvent, withAuth)
	huma.Delete(api, "/events/{id}", eventHandler.HandleDeleteEvent, withAuth)

	// Approval workflow
	huma.Post(api, "/events/{id}/submit", eventHandler.HandleSubmitEvent, withAuth)
	huma.Post(api, "/events/{id}/approve", eventHandler.HandleApproveEvent, withAuth)
	huma.Post(api, "/events/{id}/request-revision", eventHandler.HandleRequestRevision, withAuth)
	huma.Post(api, "/events/{id}/publish", eventHandler.HandlePublishEvent, withAuth)
	huma.Post(api, "/events/{id}/cancel", eventHandler.HandleCancelEvent, withAuth)
	huma.Get(api, "/events/{id}/history", eventHandler.HandleEventHistory, withAuth)

	// Registrations
	huma.Post(api, "/events/{id}/join", registrationHandler.HandleJoinEvent, withAuth)
	huma.Post(api, "/events/{id}/leave", registrationHandler.HandleLeaveEvent, withAuth)
	huma.Get(api, "/events/{id}/attendees", registrationHandler.HandleEventAttendees, withAuth)
	huma.Get(api, "/registrations", registrationHandler.HandleMyRegistrations, withAuth)

	// Locations
	huma.Get(api, "/locations", locationHandler.HandleListLocations, withAuth)
	huma.Post(api, "/locations", locationHandler.HandleCreateLocation, withAuth)

	// User administration
	huma.Get(api, "/users", userHandler.HandleListUsers, withAuth)
	huma.Patch(api, "/users/{id}", userHandler.HandleUpdateUser, withAuth)

	// API keys
	huma.Post(api, "/api-keys", apiKeyHandler.HandleCreate, withAuth)
	huma.Get(api, "/api-keys", apiKeyHandler.HandleList, withAuth)
	huma.Delete(api, "/api-keys/{id}", apiKeyHandler.HandleDelete, withAuth)
}
