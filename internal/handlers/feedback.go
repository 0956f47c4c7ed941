package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-feedback/internal/middlewares"
	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/services"
	"github.com/sbilibin2017/gw-feedback/internal/validation"
	"github.com/sbilibin2017/gw-feedback/internal/views"
)

func parseFeedbackForm(r *http.Request) (models.FeedbackForm, validation.Errors, error) {
	if err := r.ParseForm(); err != nil {
		return models.FeedbackForm{}, validation.Errors{"content": "Invalid form submission."}, nil
	}

	form := models.FeedbackForm{
		Title:   r.PostForm.Get("title"),
		Content: r.PostForm.Get("content"),
	}
	form.Trim()

	fieldErrs, err := validation.Validate(form)
	return form, fieldErrs, err
}

func updateAction(id int64) string {
	return "/feedback/" + strconv.FormatInt(id, 10) + "/update"
}

// NewAddFeedbackFormHandler returns an HTTP handler rendering an empty feedback form.
// @Summary Add feedback form
// @Tags feedback
// @Produce html
// @Param username path string true "Username"
// @Success 200 {string} string "HTML form"
// @Success 302 "Redirect to /login for anonymous or foreign requests"
// @Router /users/{username}/feedback/add [get]
func NewAddFeedbackFormHandler(rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		rnd.Render(w, http.StatusOK, views.PageFeedbackForm, views.Data{
			Title:    "Add feedback",
			Username: username,
			Action:   profilePath(username) + "/feedback/add",
			Form:     models.FeedbackForm{},
		})
	}
}

// NewAddFeedbackHandler returns an HTTP handler storing new feedback.
// @Summary Add feedback
// @Tags feedback
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username path string true "Username"
// @Param title formData string true "Title (max 100)"
// @Param content formData string true "Content"
// @Success 303 "Redirect to the user's profile"
// @Failure 400 {string} string "Form re-rendered with field errors"
// @Router /users/{username}/feedback/add [post]
func NewAddFeedbackHandler(svc FeedbackAdder, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		action := profilePath(username) + "/feedback/add"

		form, fieldErrs, err := parseFeedbackForm(r)
		if err != nil {
			renderInternalError(w, rnd, username, err)
			return
		}
		if len(fieldErrs) > 0 {
			rnd.Render(w, http.StatusBadRequest, views.PageFeedbackForm, views.Data{
				Title:    "Add feedback",
				Username: username,
				Action:   action,
				Form:     form,
				Errors:   fieldErrs,
			})
			return
		}

		if _, err := svc.AddFeedback(r.Context(), username, form); err != nil {
			renderInternalError(w, rnd, username, err)
			return
		}

		http.Redirect(w, r, profilePath(username), http.StatusSeeOther)
	}
}

// NewUpdateFeedbackFormHandler returns an HTTP handler rendering a prefilled feedback form.
// @Summary Edit feedback form
// @Tags feedback
// @Produce html
// @Param id path int true "Feedback ID"
// @Success 200 {string} string "HTML form"
// @Failure 404 {string} string "Feedback not found or owned by another user"
// @Router /feedback/{id}/update [get]
func NewUpdateFeedbackFormHandler(svc FeedbackEditor, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middlewares.UsernameFromContext(r.Context())

		id, ok := feedbackID(r)
		if !ok {
			renderNotFound(w, rnd, actor)
			return
		}

		fb, err := svc.GetOwnedFeedback(r.Context(), actor, id)
		if err != nil {
			if errors.Is(err, services.ErrFeedbackNotFound) {
				renderNotFound(w, rnd, actor)
				return
			}
			renderInternalError(w, rnd, actor, err)
			return
		}

		rnd.Render(w, http.StatusOK, views.PageFeedbackForm, views.Data{
			Title:    "Edit feedback",
			Username: actor,
			Action:   updateAction(id),
			Form:     models.FeedbackForm{Title: fb.Title, Content: fb.Content},
		})
	}
}

// NewUpdateFeedbackHandler returns an HTTP handler saving edited feedback.
// Ownership is checked before the form so a foreign entry is never revealed
// through validation errors.
// @Summary Edit feedback
// @Tags feedback
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "Feedback ID"
// @Param title formData string true "Title (max 100)"
// @Param content formData string true "Content"
// @Success 303 "Redirect to the owner's profile"
// @Failure 400 {string} string "Form re-rendered with field errors"
// @Failure 404 {string} string "Feedback not found or owned by another user"
// @Router /feedback/{id}/update [post]
func NewUpdateFeedbackHandler(svc FeedbackEditor, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middlewares.UsernameFromContext(r.Context())

		id, ok := feedbackID(r)
		if !ok {
			renderNotFound(w, rnd, actor)
			return
		}

		if _, err := svc.GetOwnedFeedback(r.Context(), actor, id); err != nil {
			if errors.Is(err, services.ErrFeedbackNotFound) {
				renderNotFound(w, rnd, actor)
				return
			}
			renderInternalError(w, rnd, actor, err)
			return
		}

		form, fieldErrs, err := parseFeedbackForm(r)
		if err != nil {
			renderInternalError(w, rnd, actor, err)
			return
		}
		if len(fieldErrs) > 0 {
			rnd.Render(w, http.StatusBadRequest, views.PageFeedbackForm, views.Data{
				Title:    "Edit feedback",
				Username: actor,
				Action:   updateAction(id),
				Form:     form,
				Errors:   fieldErrs,
			})
			return
		}

		if err := svc.UpdateFeedback(r.Context(), actor, id, form); err != nil {
			if errors.Is(err, services.ErrFeedbackNotFound) {
				renderNotFound(w, rnd, actor)
				return
			}
			renderInternalError(w, rnd, actor, err)
			return
		}

		http.Redirect(w, r, profilePath(actor), http.StatusSeeOther)
	}
}

// NewDeleteFeedbackHandler returns an HTTP handler deleting feedback.
// @Summary Delete feedback
// @Tags feedback
// @Param id path int true "Feedback ID"
// @Success 303 "Redirect to the owner's profile"
// @Failure 404 {string} string "Feedback not found or owned by another user"
// @Router /feedback/{id}/delete [post]
func NewDeleteFeedbackHandler(svc FeedbackDeleter, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middlewares.UsernameFromContext(r.Context())

		id, ok := feedbackID(r)
		if !ok {
			renderNotFound(w, rnd, actor)
			return
		}

		if err := svc.DeleteFeedback(r.Context(), actor, id); err != nil {
			if errors.Is(err, services.ErrFeedbackNotFound) {
				renderNotFound(w, rnd, actor)
				return
			}
			renderInternalError(w, rnd, actor, err)
			return
		}

		http.Redirect(w, r, profilePath(actor), http.StatusSeeOther)
	}
}
