package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
)

// NewLogoutHandler returns an HTTP handler that ends the current session.
// @Summary Logout
// @Description Clears the session cookie and revokes the session
// @Tags auth
// @Success 302 "Redirect to /"
// @Router /logout [get]
func NewLogoutHandler(sessions SessionDestroyer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The cookie is cleared even when revocation fails.
		if err := sessions.Destroy(r.Context(), w, r); err != nil {
			logger.Log.Errorw("failed to revoke session", "err", err)
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
