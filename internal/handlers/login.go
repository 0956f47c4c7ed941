package handlers

import (
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/services"
	"github.com/sbilibin2017/gw-feedback/internal/validation"
	"github.com/sbilibin2017/gw-feedback/internal/views"
)

const loginTitle = "Login"

// NewLoginFormHandler returns an HTTP handler rendering the login form.
// @Summary Login form
// @Tags auth
// @Produce html
// @Success 200 {string} string "HTML form"
// @Router /login [get]
func NewLoginFormHandler(rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rnd.Render(w, http.StatusOK, views.PageLogin, views.Data{Title: loginTitle, Form: models.LoginForm{}})
	}
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Verifies the credentials and starts a session cookie
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 303 "Redirect to the user's profile"
// @Failure 400 {string} string "Form re-rendered with field errors"
// @Failure 401 {string} string "Invalid username or password"
// @Failure 429 {string} string "Too many login attempts"
// @Router /login [post]
func NewLoginHandler(svc Loginer, sessions SessionCreator, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			rnd.Render(w, http.StatusBadRequest, views.PageLogin, views.Data{
				Title:  loginTitle,
				Notice: "Invalid form submission.",
			})
			return
		}

		form := models.LoginForm{
			Username: r.PostForm.Get("username"),
			Password: r.PostForm.Get("password"),
		}
		form.Trim()

		fieldErrs, err := validation.Validate(form)
		if err != nil {
			renderInternalError(w, rnd, "", err)
			return
		}
		if len(fieldErrs) > 0 {
			rnd.Render(w, http.StatusBadRequest, views.PageLogin, views.Data{
				Title:  loginTitle,
				Form:   models.LoginForm{Username: form.Username},
				Errors: fieldErrs,
			})
			return
		}

		err = svc.Login(r.Context(), form.Username, form.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				rnd.Render(w, http.StatusUnauthorized, views.PageLogin, views.Data{
					Title:  loginTitle,
					Form:   models.LoginForm{Username: form.Username},
					Notice: "Invalid username or password",
				})
				return
			}
			renderInternalError(w, rnd, "", err)
			return
		}

		if err := sessions.Create(r.Context(), w, form.Username); err != nil {
			renderInternalError(w, rnd, "", err)
			return
		}

		http.Redirect(w, r, profilePath(form.Username), http.StatusSeeOther)
	}
}
