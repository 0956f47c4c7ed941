package handlers

import "net/http"

// NewSecretHandler returns an HTTP handler only reachable with a session.
// @Summary Secret page
// @Tags pages
// @Produce plain
// @Success 200 {string} string "You made it!"
// @Success 302 "Redirect to /login without a session"
// @Router /secret [get]
func NewSecretHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("You made it!"))
	}
}
