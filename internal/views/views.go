// Package views renders the HTML pages of the application.
//
// Templates are embedded into the binary. Every page is parsed together with
// templates/layout.html and must define a "content" template.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names accepted by Render.
const (
	PageRegister     = "register"
	PageLogin        = "login"
	PageProfile      = "profile"
	PageFeedbackForm = "feedback_form"
	PageError        = "error"
)

var pages = []string{PageRegister, PageLogin, PageProfile, PageFeedbackForm, PageError}

// Data is passed to every page.
type Data struct {
	Title    string
	Username string // Username is the session user shown in the navigation.
	Form     any
	Errors   validation.Errors
	Notice   string
	Action   string
	Message  string
	User     *models.UserDB
	Feedback []models.FeedbackDB
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses all pages.
func New() (*Renderer, error) {
	rnd := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, err
		}
		rnd.pages[page] = tmpl
	}
	return rnd, nil
}

// Render writes page with the given status. The page is executed into a
// buffer first so a template error never leaves a half written response.
func (rnd *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) {
	tmpl, ok := rnd.pages[page]
	if !ok {
		logger.Log.Errorw("unknown page", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Log.Errorw("failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
