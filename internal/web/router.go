package web

import (
	"context"
	"net/http"

	"github.com/yallakauppa/storefront/internal/auth"
	"github.com/yallakauppa/storefront/internal/mailer"
	"github.com/yallakauppa/storefront/internal/store"
	webembed "github.com/yallakauppa/storefront/web"
)

// Notifier dispatches contact form submissions. Nil when the mail
// transport is not configured.
type Notifier interface {
	SendContact(ctx context.Context, sub mailer.Submission) error
}

// NewRouter creates the web router with all page routes registered.
func NewRouter(repo *store.Repository, authn *auth.Authenticator, notifier Notifier, imageHosts []string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Repo:       repo,
		Auth:       authn,
		Mailer:     notifier,
		Templates:  templates,
		ImageHosts: imageHosts,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public pages.
	mux.HandleFunc("GET /{$}", s.Home)
	mux.HandleFunc("POST /yhteys", s.ContactSubmit)
	mux.HandleFunc("GET /tarjoukset", s.OffersPage)
	mux.HandleFunc("GET /myymalat", s.StoresPage)

	// Admin panel. Session state is re-checked inside every handler.
	mux.HandleFunc("GET /hallinta", s.AdminPage)
	mux.HandleFunc("POST /hallinta/login", s.LoginSubmit)
	mux.HandleFunc("POST /hallinta/logout", s.LogoutSubmit)
	mux.HandleFunc("POST /hallinta/kategoriat", s.CategoryCreateSubmit)
	mux.HandleFunc("POST /hallinta/kategoriat/poista", s.CategoryDeleteSubmit)
	mux.HandleFunc("POST /hallinta/tarjoukset", s.OfferCreateSubmit)
	mux.HandleFunc("POST /hallinta/tarjoukset/poista", s.OfferDeleteSubmit)

	return mux, nil
}
