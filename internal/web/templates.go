package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/yallakauppa/storefront/internal/auth"
	"github.com/yallakauppa/storefront/internal/model"
	"github.com/yallakauppa/storefront/internal/store"
	webembed "github.com/yallakauppa/storefront/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// Offer images may be admin-uploaded data URIs, which the
		// html/template URL filter would reject. They come from the
		// password-gated admin panel, not from visitors.
		"safeURL": func(s string) template.URL {
			return template.URL(s)
		},
		"formatDate": func(iso string) string {
			t, err := time.Parse("2006-01-02", iso)
			if err != nil {
				return iso
			}
			return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
		},
		"locationLabel": func(name string) string {
			if name == model.AllStoresValue {
				return model.AllStoresLabel
			}
			return name
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	// Read layout.
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"home.html",
		"offers.html",
		"stores.html",
		"admin.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Repo       *store.Repository
	Auth       *auth.Authenticator
	Mailer     Notifier
	Templates  *Templates
	ImageHosts []string
}
