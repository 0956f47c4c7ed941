package handlers

import (
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/services"
	"github.com/sbilibin2017/gw-feedback/internal/validation"
	"github.com/sbilibin2017/gw-feedback/internal/views"
)

const registerTitle = "Register"

// NewRegisterFormHandler returns an HTTP handler rendering the registration form.
// @Summary Registration form
// @Tags auth
// @Produce html
// @Success 200 {string} string "HTML form"
// @Router /register [get]
func NewRegisterFormHandler(rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rnd.Render(w, http.StatusOK, views.PageRegister, views.Data{Title: registerTitle, Form: models.RegisterForm{}})
	}
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account with a unique username, stores the bcrypt hash of the password and starts a session.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Username (max 20)"
// @Param password formData string true "Password"
// @Param email formData string true "Email (max 50)"
// @Param first_name formData string true "First name (max 30)"
// @Param last_name formData string true "Last name (max 30)"
// @Success 303 "Redirect to the new user's profile"
// @Failure 400 {string} string "Form re-rendered with field errors"
// @Failure 500 {string} string "Internal server error"
// @Router /register [post]
func NewRegisterHandler(svc Registerer, sessions SessionCreator, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			rnd.Render(w, http.StatusBadRequest, views.PageRegister, views.Data{
				Title:  registerTitle,
				Notice: "Invalid form submission.",
			})
			return
		}

		form := models.RegisterForm{
			Username:  r.PostForm.Get("username"),
			Password:  r.PostForm.Get("password"),
			Email:     r.PostForm.Get("email"),
			FirstName: r.PostForm.Get("first_name"),
			LastName:  r.PostForm.Get("last_name"),
		}
		form.Trim()

		fieldErrs, err := validation.Validate(form)
		if err != nil {
			renderInternalError(w, rnd, "", err)
			return
		}
		if len(fieldErrs) > 0 {
			renderRegisterForm(w, rnd, form, fieldErrs)
			return
		}

		err = svc.Register(r.Context(), form)
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			renderRegisterForm(w, rnd, form, validation.Errors{"username": "Username is already taken."})
			return
		case errors.Is(err, services.ErrPasswordTooLong):
			renderRegisterForm(w, rnd, form, validation.Errors{"password": "Password cannot be longer than 72 bytes."})
			return
		case err != nil:
			renderInternalError(w, rnd, "", err)
			return
		}

		if err := sessions.Create(r.Context(), w, form.Username); err != nil {
			renderInternalError(w, rnd, "", err)
			return
		}

		logger.Log.Infow("user signed up", "username", form.Username)
		http.Redirect(w, r, profilePath(form.Username), http.StatusSeeOther)
	}
}

func renderRegisterForm(w http.ResponseWriter, rnd Renderer, form models.RegisterForm, fieldErrs validation.Errors) {
	form.Password = ""
	rnd.Render(w, http.StatusBadRequest, views.PageRegister, views.Data{
		Title:  registerTitle,
		Form:   form,
		Errors: fieldErrs,
	})
}
