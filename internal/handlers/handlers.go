// Package handlers contains the HTTP handlers of the feedback application.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/views"
)

//go:generate mockgen -source=handlers.go -destination=handlers_mock.go -package=handlers

// Renderer writes an HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data views.Data)
}

// SessionCreator starts a session for a user.
type SessionCreator interface {
	Create(ctx context.Context, w http.ResponseWriter, username string) error
}

// SessionDestroyer ends the session of the request.
type SessionDestroyer interface {
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// UserSessionsDestroyer ends every session of a user, on any device.
type UserSessionsDestroyer interface {
	DestroyAll(ctx context.Context, w http.ResponseWriter, username string) error
}

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, form models.RegisterForm) error
}

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) error
}

// ProfileReader loads a user together with their feedback.
type ProfileReader interface {
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
}

// AccountDeleter removes a user and everything they own.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, username string) error
}

// FeedbackAdder stores new feedback.
type FeedbackAdder interface {
	AddFeedback(ctx context.Context, username string, form models.FeedbackForm) (int64, error)
}

// FeedbackEditor reads and updates feedback owned by the acting user.
type FeedbackEditor interface {
	GetOwnedFeedback(ctx context.Context, actor string, id int64) (*models.FeedbackDB, error)
	UpdateFeedback(ctx context.Context, actor string, id int64, form models.FeedbackForm) error
}

// FeedbackDeleter removes feedback owned by the acting user.
type FeedbackDeleter interface {
	DeleteFeedback(ctx context.Context, actor string, id int64) error
}

// Pinger checks that the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func profilePath(username string) string {
	return "/users/" + username
}

func feedbackID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func renderNotFound(w http.ResponseWriter, rnd Renderer, username string) {
	rnd.Render(w, http.StatusNotFound, views.PageError, views.Data{
		Title:    "Not Found",
		Username: username,
		Message:  "The page you requested does not exist.",
	})
}

func renderInternalError(w http.ResponseWriter, rnd Renderer, username string, err error) {
	logger.Log.Errorw("internal server error", "err", err)
	rnd.Render(w, http.StatusInternalServerError, views.PageError, views.Data{
		Title:    "Internal Server Error",
		Username: username,
		Message:  "Something went wrong. Please try again later.",
	})
}
