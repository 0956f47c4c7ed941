package handlers

import "net/http"

// NewIndexHandler returns an HTTP handler that sends visitors to the registration page.
// @Summary Root page
// @Description Redirects to the registration form
// @Tags pages
// @Success 302 "Redirect to /register"
// @Router / [get]
func NewIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/register", http.StatusFound)
	}
}
