package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/services"
	"github.com/sbilibin2017/gw-feedback/internal/views"
)

// NewProfileHandler returns an HTTP handler showing a user and their feedback.
// Only the owner reaches it; the router guards the route.
// @Summary User profile
// @Tags users
// @Produce html
// @Param username path string true "Username"
// @Success 200 {string} string "Profile page"
// @Success 302 "Redirect to /login for anonymous or foreign requests"
// @Failure 404 {string} string "User not found"
// @Router /users/{username} [get]
func NewProfileHandler(svc ProfileReader, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		profile, err := svc.GetProfile(r.Context(), username)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				renderNotFound(w, rnd, username)
				return
			}
			renderInternalError(w, rnd, username, err)
			return
		}

		rnd.Render(w, http.StatusOK, views.PageProfile, views.Data{
			Title:    profile.User.Username,
			Username: username,
			User:     profile.User,
			Feedback: profile.Feedback,
		})
	}
}

// NewDeleteAccountHandler returns an HTTP handler deleting the user's account.
// @Summary Delete account
// @Description Deletes all feedback of the user, then the user, and ends all of the user's sessions
// @Tags users
// @Param username path string true "Username"
// @Success 303 "Redirect to /"
// @Success 302 "Redirect to /login for anonymous or foreign requests"
// @Failure 404 {string} string "User not found"
// @Router /users/{username}/delete [post]
func NewDeleteAccountHandler(svc AccountDeleter, sessions UserSessionsDestroyer, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		if err := svc.DeleteAccount(r.Context(), username); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				renderNotFound(w, rnd, username)
				return
			}
			renderInternalError(w, rnd, username, err)
			return
		}

		if err := sessions.DestroyAll(r.Context(), w, username); err != nil {
			logger.Log.Errorw("failed to revoke sessions", "username", username, "err", err)
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
