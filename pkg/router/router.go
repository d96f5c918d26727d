// Package router mounts the account HTTP API on a chi router.
package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/recovery"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/verification"
)

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	AccountHandle      account.Handle
	VerificationHandle verification.Handle
	RecoveryHandle     recovery.Handle
	ProfileHandle      profile.Handle

	// Session verification for protected routes
	Codec   *session.Codec
	Cookies *session.CookieSetter

	// Metrics is served on /metrics when set
	Metrics *metrics.Metrics

	// HealthCheck reports dependency health on /healthz (optional)
	HealthCheck func(ctx context.Context) error

	// Middleware stack settings
	AllowedOrigins []string
	Production     bool
}

// New creates a chi router with the middleware stack and all routes mounted.
func New(cfg Config) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(cfg) {
		r.Use(mw)
	}
	SetupRoutes(r, cfg)
	return r
}

// SetupRoutes mounts all account routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	router.Get("/healthz", healthz(cfg.HealthCheck))
	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	authenticated := session.Middleware(cfg.Codec, cfg.Cookies)

	router.Route("/auth", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", cfg.AccountHandle.Register)
		r.Post("/login", cfg.AccountHandle.Login)
		r.Post("/logout", cfg.AccountHandle.Logout)
		r.Post("/otp/reset/request", cfg.RecoveryHandle.RequestReset)
		r.Post("/otp/reset/confirm", cfg.RecoveryHandle.ConfirmReset)

		// Legacy paths kept for existing frontends
		r.Post("/send-reset-otp", cfg.RecoveryHandle.RequestReset)
		r.Post("/reset-password", cfg.RecoveryHandle.ConfirmReset)

		// Protected endpoints requiring a session
		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/session", cfg.AccountHandle.IsAuthenticated)
			r.Post("/otp/verify/request", cfg.VerificationHandle.RequestVerification)
			r.Post("/otp/verify/confirm", cfg.VerificationHandle.ConfirmVerification)
			r.Get("/otp/verify/status", cfg.VerificationHandle.Status)

			r.Get("/is-auth", cfg.AccountHandle.IsAuthenticated)
			r.Post("/send-verify-otp", cfg.VerificationHandle.RequestVerification)
			r.Post("/verify-account", cfg.VerificationHandle.ConfirmVerification)
		})
	})

	router.Route("/user", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/profile", cfg.ProfileHandle.GetProfile)
		r.Get("/data", cfg.ProfileHandle.GetProfile)
	})
}

func healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				slog.Error("Health check failed", "error", err)
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, map[string]string{"status": "unavailable"})
				return
			}
		}
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
