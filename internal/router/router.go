// Package router assembles the HTTP routes of the application.
package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-feedback/internal/handlers"
	"github.com/sbilibin2017/gw-feedback/internal/middlewares"
)

// SessionManager reads, starts and ends sessions.
type SessionManager interface {
	GetUsername(ctx context.Context, r *http.Request) (string, error)
	Create(ctx context.Context, w http.ResponseWriter, username string) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	DestroyAll(ctx context.Context, w http.ResponseWriter, username string) error
}

// AuthService registers and authenticates users.
type AuthService interface {
	handlers.Registerer
	handlers.Loginer
}

// AccountService shows and deletes accounts.
type AccountService interface {
	handlers.ProfileReader
	handlers.AccountDeleter
}

// FeedbackService manages feedback entries.
type FeedbackService interface {
	handlers.FeedbackAdder
	handlers.FeedbackEditor
	handlers.FeedbackDeleter
}

// Deps holds everything the routes need.
type Deps struct {
	Log      *zap.SugaredLogger
	Renderer handlers.Renderer
	Sessions SessionManager
	Auth     AuthService
	Accounts AccountService
	Feedback FeedbackService

	// DB wraps every page in a transaction when set.
	DB *sqlx.DB
	// Pinger backs /healthz. Without it the route is not registered.
	Pinger handlers.Pinger
	// LoginLimiter throttles POST /login when set.
	LoginLimiter *middlewares.RateLimiter
	// SwaggerURL is where the UI loads doc.json from.
	SwaggerURL string
}

// New returns the application router.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if d.Log != nil {
		r.Use(middlewares.LoggingMiddleware(d.Log))
	}

	if d.Pinger != nil {
		r.Get("/healthz", handlers.NewHealthHandler(d.Pinger))
	}
	if d.SwaggerURL != "" {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(d.SwaggerURL)))
	}

	r.Group(func(r chi.Router) {
		if d.DB != nil {
			r.Use(middlewares.TxMiddleware(d.DB))
		}

		// Public routes
		r.Get("/", handlers.NewIndexHandler())
		r.Get("/register", handlers.NewRegisterFormHandler(d.Renderer))
		r.Post("/register", handlers.NewRegisterHandler(d.Auth, d.Sessions, d.Renderer))
		r.Get("/login", handlers.NewLoginFormHandler(d.Renderer))
		r.With(loginLimit(d.LoginLimiter)...).
			Post("/login", handlers.NewLoginHandler(d.Auth, d.Sessions, d.Renderer))
		r.Get("/logout", handlers.NewLogoutHandler(d.Sessions))

		// Session routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.SessionMiddleware(d.Sessions))

			r.Get("/secret", handlers.NewSecretHandler())

			r.Route("/users/{username}", func(r chi.Router) {
				r.Use(middlewares.OwnerMiddleware("username"))

				r.Get("/", handlers.NewProfileHandler(d.Accounts, d.Renderer))
				r.Post("/delete", handlers.NewDeleteAccountHandler(d.Accounts, d.Sessions, d.Renderer))
				r.Get("/feedback/add", handlers.NewAddFeedbackFormHandler(d.Renderer))
				r.Post("/feedback/add", handlers.NewAddFeedbackHandler(d.Feedback, d.Renderer))
			})

			r.Route("/feedback/{id}", func(r chi.Router) {
				r.Get("/update", handlers.NewUpdateFeedbackFormHandler(d.Feedback, d.Renderer))
				r.Post("/update", handlers.NewUpdateFeedbackHandler(d.Feedback, d.Renderer))
				r.Post("/delete", handlers.NewDeleteFeedbackHandler(d.Feedback, d.Renderer))
			})
		})
	})

	return r
}

func loginLimit(rl *middlewares.RateLimiter) []func(http.Handler) http.Handler {
	if rl == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{middlewares.RateLimitMiddleware(rl)}
}
