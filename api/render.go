package api

import (
	"crypto/md5"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Renderer holds the parsed page templates and writes them with the ambient
// view state (current user, admin flag, flash notices) every page expects.
type Renderer struct {
	tmpl       map[string]*template.Template
	sessions   *SessionManager
	adminEmail string
}

func NewRenderer(templateDir string, sessions *SessionManager, adminEmail string) (*Renderer, error) {
	funcs := template.FuncMap{
		"gravatar": gravatarURL,
		"safe":     func(s string) template.HTML { return template.HTML(s) },
	}

	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.New("layout").Funcs(funcs).ParseFiles(layout, page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[strings.TrimSuffix(filepath.Base(page), ".html")] = t
	}
	return &Renderer{tmpl: templates, sessions: sessions, adminEmail: adminEmail}, nil
}

// Render writes the named page with the given status. CurrentUser, IsAdmin
// and Flashes are injected into every render so templates never reach for
// ambient state themselves.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, status int, data map[string]any) {
	t, ok := rd.tmpl[name]
	if !ok {
		log.Error().Str("template", name).Msg("template not found")
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	user := ctxUser(r.Context())
	data["CurrentUser"] = user
	data["IsAdmin"] = user != nil && rd.adminEmail != "" && user.Email == rd.adminEmail
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = rd.sessions.PopFlashes(w, r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render error")
	}
}

// NotFound renders the standard not-found page.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, "error", http.StatusNotFound, map[string]any{
		"Title":   "Not Found",
		"Message": "The page you were looking for does not exist.",
	})
}

// Forbidden renders the hard 403 page admin-gated routes deny with.
func (rd *Renderer) Forbidden(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, "error", http.StatusForbidden, map[string]any{
		"Title":   "Forbidden",
		"Message": "You are not allowed to access this page.",
	})
}

// gravatarURL builds the avatar URL for a commenter's email: size 100,
// g-rated, retro fallback.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", sum)
}
