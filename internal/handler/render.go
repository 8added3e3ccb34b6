package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"go.uber.org/zap"

	"artshare/internal/middleware"
	"artshare/internal/models"
	"artshare/internal/service"
	"artshare/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home", "gallery", "artwork", "login", "register",
	"profile", "favorites", "upload", "notfound",
}

var templateFuncs = template.FuncMap{
	"ago":    ago,
	"comma":  func(n int) string { return humanize.Comma(int64(n)) },
	"bytes":  func(n int64) string { return humanize.IBytes(uint64(n)) },
	"plural": func(n int, noun string) string { return english.Plural(n, noun, "") },
	"join":   strings.Join,
}

// ago is empty for dates the API did not send.
func ago(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t.Time)
}

type Templates struct {
	pages map[string]*template.Template
}

// LoadTemplates parses every page together with the shared layout.
func LoadTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		page, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.pages[name] = page
	}
	return t, nil
}

func (t *Templates) Render(w io.Writer, name string, data any) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return page.Execute(w, data)
}

// Page is what every template receives.
type Page struct {
	Title         string
	User          *models.User
	Authenticated bool
	Flashes       []session.Flash
	Errors        service.ValidationErrors
	Form          map[string]string
	Data          any
}

// render writes a full page. Nothing is written when the client has already
// gone away.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	if r.Context().Err() != nil {
		return
	}

	sid := middleware.SessionID(r.Context())
	st := h.Sessions.Get(r.Context(), sid)
	page.User = st.User
	page.Authenticated = st.IsAuthenticated()
	page.Flashes = append(h.Sessions.PopFlashes(sid), page.Flashes...)

	var buf bytes.Buffer
	if err := h.Templates.Render(&buf, name, page); err != nil {
		h.Logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) flash(r *http.Request, kind, title, message string) {
	h.Sessions.AddFlash(middleware.SessionID(r.Context()), session.Flash{Kind: kind, Title: title, Message: message})
}

func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
