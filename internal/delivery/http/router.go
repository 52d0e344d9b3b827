// Package http wires controllers, middleware, and routes into the server mux.
package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventpages/internal/adapters/ratelimit"
	"eventpages/internal/delivery/http/controllers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
)

// RouterConfig bundles everything NewRouter needs.
type RouterConfig struct {
	Logger      *slog.Logger
	Verifier    domain.TokenVerifier
	Limiter     ratelimit.Limiter
	Auth        *controllers.AuthController
	Users       *controllers.UserController
	Events      *controllers.EventController
	Pages       *controllers.PageController
	Invitations *controllers.InvitationController
	Assets      *controllers.AssetController
	Analytics   *controllers.AnalyticsController
	Public      *controllers.PublicController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	limited := func(routeClass string) func(http.HandlerFunc) http.HandlerFunc {
		return middleware.RateLimit(cfg.Limiter, routeClass, cfg.Logger)
	}

	// Auth (login-code requests are rate limited per client)
	mux.HandleFunc("POST /auth/code/request", limited("auth")(cfg.Auth.RequestCode))
	mux.HandleFunc("POST /auth/code/verify", limited("auth")(cfg.Auth.VerifyCode))

	// Users
	mux.HandleFunc("GET /users/me", auth(cfg.Users.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(cfg.Users.UpdateMe))

	// Events
	mux.HandleFunc("POST /events", auth(cfg.Events.CreateEvent))
	mux.HandleFunc("GET /events", auth(cfg.Events.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(cfg.Events.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(cfg.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(cfg.Events.DeleteEvent))

	// Page config and version history
	mux.HandleFunc("GET /events/{eventID}/page", auth(cfg.Pages.GetConfig))
	mux.HandleFunc("PUT /events/{eventID}/page", auth(cfg.Pages.SaveConfig))
	mux.HandleFunc("GET /events/{eventID}/page/versions", auth(cfg.Pages.ListVersions))
	mux.HandleFunc("GET /events/{eventID}/page/versions/{versionID}", auth(cfg.Pages.GetVersion))
	mux.HandleFunc("POST /events/{eventID}/page/versions/{versionID}/rollback", auth(cfg.Pages.Rollback))
	mux.HandleFunc("POST /events/{eventID}/page/preview-tokens", auth(cfg.Pages.CreatePreviewToken))

	// Media assets
	mux.HandleFunc("POST /events/{eventID}/assets", auth(cfg.Assets.Upload))
	mux.HandleFunc("GET /events/{eventID}/assets", auth(cfg.Assets.List))
	mux.HandleFunc("DELETE /events/{eventID}/assets/{assetID}", auth(cfg.Assets.Delete))

	// Invitations
	mux.HandleFunc("POST /events/{eventID}/invitations", auth(cfg.Invitations.SendInvitations))
	mux.HandleFunc("GET /events/{eventID}/invitations", auth(cfg.Invitations.ListInvitations))

	// Analytics
	mux.HandleFunc("GET /events/{eventID}/analytics/views", auth(cfg.Analytics.Views))

	// Public surface (no auth, rate limited per route class)
	mux.HandleFunc("GET /p/{slug}", limited("public-page")(cfg.Public.RenderPage))
	mux.HandleFunc("GET /preview/{token}", limited("preview")(cfg.Public.RenderPreview))
	mux.HandleFunc("POST /rsvp/{invitationToken}", limited("rsvp")(cfg.Public.Respond))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
