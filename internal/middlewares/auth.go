package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/session"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=middlewares

// LoginPath is where unauthenticated or foreign requests are sent.
const LoginPath = "/login"

// Sessioner defines the minimal interface needed by the middleware
type Sessioner interface {
	GetUsername(ctx context.Context, r *http.Request) (string, error)
}

type usernameKey struct{}

// ContextWithUsername returns a copy of ctx carrying the authenticated username.
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// UsernameFromContext returns the username stored by SessionMiddleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey{}).(string)
	return username, ok && username != ""
}

// SessionMiddleware lets through only requests with a valid session and
// redirects everything else to the login page.
func SessionMiddleware(sessions Sessioner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			username, err := sessions.GetUsername(ctx, r)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					logger.Log.Warnw("session rejected", "uri", r.RequestURI, "err", err)
				}
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUsername(ctx, username)))
		})
	}
}

// OwnerMiddleware lets through only requests whose URL parameter param equals
// the session username. It must run after SessionMiddleware.
func OwnerMiddleware(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := UsernameFromContext(r.Context())
			owner := chi.URLParam(r, param)
			if !ok || owner == "" || owner != username {
				logger.Log.Warnw("access to foreign resource denied", "session_user", username, "owner", owner)
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
