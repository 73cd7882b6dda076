// Package httpapi is the HTTP surface over the auth engine: routing,
// request decoding, the cookie contract, and audit logging. It translates
// HTTP semantics into engine calls and engine errors into status codes;
// it makes no authentication decisions of its own.
package httpapi

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LiquidN2/natours/auth"
	"github.com/LiquidN2/natours/middleware"
	"github.com/LiquidN2/natours/store"
)

// CookieConfig controls the bearer and pending-2FA cookie attributes.
type CookieConfig struct {
	// Secure and SameSite=Strict are switched on together in production.
	Production bool
	// RememberTTL is the bearer cookie lifetime when the client asked to
	// stay signed in. Without remember, the cookie is session-scoped.
	RememberTTL time.Duration
}

// pendingTTL bounds the window between password check and TOTP check.
const pendingTTL = 15 * time.Minute

// API holds the dependencies needed by the REST handlers.
type API struct {
	engine  *auth.Engine
	cookies CookieConfig
	audit   *auditLogger
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events. Defaults to a
// JSON logger on stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithCookieConfig overrides the cookie attributes.
func WithCookieConfig(cfg CookieConfig) Option {
	return func(a *API) {
		a.cookies = cfg
	}
}

// New creates an API over the given engine.
func New(engine *auth.Engine, opts ...Option) *API {
	a := &API{
		engine: engine,
		cookies: CookieConfig{
			RememberTTL: 90 * 24 * time.Hour,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

// Router returns a chi.Router with all auth routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(a.withClientIP)

	r.Post("/signup", a.Signup)
	r.Post("/login", a.Login)
	r.Post("/login-totp", a.LoginTOTP)
	r.Get("/logout", a.Logout)
	r.Post("/logout", a.Logout)

	r.Post("/forgot-password", a.ForgotPassword)
	r.Patch("/reset-password/{token}", a.ResetPassword)
	r.Patch("/email-confirm/{token}", a.ConfirmEmail)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Protect(a.engine))
		r.Get("/me", a.Me)
		r.Patch("/update-password", a.UpdatePassword)
		r.Patch("/me/two-factor", a.UpdateTwoFactor)
	})

	return r
}

// withClientIP threads the caller's address into the request context for
// the engine's per-IP throttling.
func (a *API) withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithClientIP(r.Context(), clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the originating client.
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func principal(r *http.Request) (*store.User, bool) {
	return middleware.UserFromContext(r.Context())
}
