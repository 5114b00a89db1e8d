package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/yallakauppa/storefront/internal/auth"
	"github.com/yallakauppa/storefront/internal/imaging"
	"github.com/yallakauppa/storefront/internal/model"
	"github.com/yallakauppa/storefront/internal/store"
)

// offerFormLimit matches the upload cap plus headroom for the text fields.
const offerFormLimit = imaging.MaxUploadBytes + 512*1024

// adminView is the data for the admin panel, which renders one of three
// states: credentials missing, login form, or the management forms.
type adminView struct {
	PageData
	Unconfigured bool
	LoggedIn     bool
	Rails        []model.OfferRail
	Stores       []model.Store
	AllStores    string
}

// AdminPage handles GET /hallinta.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdmin(w, r, PageData{Title: "Hallinta"})
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, pd PageData) {
	view := &adminView{
		PageData:  pd,
		Stores:    model.Stores,
		AllStores: model.AllStoresValue,
	}

	switch s.Auth.State(r) {
	case auth.StateUnconfigured:
		view.Unconfigured = true
	case auth.StateLoggedIn:
		view.LoggedIn = true
		rails, err := s.Repo.FetchOfferRails(r.Context(), true)
		if err != nil {
			slog.Error("failed to fetch rails for admin panel", "error", err)
		}
		view.Rails = rails
	}

	s.Templates.Render(w, "admin.html", view)
}

// LoginSubmit handles POST /hallinta/login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))

	err := s.Auth.Login(w, username, password)
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: "Ympäristömuuttujat puuttuvat"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: "Virheellinen käyttäjätunnus tai salasana"})
	default:
		// The cookie is on the response but not on this request; redirect
		// so the page renders from the logged-in state.
		http.Redirect(w, r, "/hallinta", http.StatusSeeOther)
	}
}

// LogoutSubmit handles POST /hallinta/logout.
func (s *Server) LogoutSubmit(w http.ResponseWriter, r *http.Request) {
	s.Auth.Logout(w)
	http.Redirect(w, r, "/hallinta", http.StatusSeeOther)
}

// requireSession re-checks the session before a mutation. Returns false
// after rendering the "log in first" message; no mutation may run then.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) bool {
	if s.Auth.IsAuthenticated(r) {
		return true
	}
	s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: "Kirjaudu ensin sisään"})
	return false
}

// CategoryCreateSubmit handles POST /hallinta/kategoriat.
func (s *Server) CategoryCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}

	title := strings.TrimSpace(r.FormValue("categoryTitle"))
	description := strings.TrimSpace(r.FormValue("categoryDescription"))
	if title == "" || description == "" {
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: "Täytä nimi ja kuvaus"})
		return
	}

	id, err := s.Repo.CreateRail(r.Context(), title, description)
	if err != nil {
		slog.Error("failed to create category", "error", err)
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: mutationMessage(err, "Kategorian luonti epäonnistui")})
		return
	}

	slog.Info("category created", "id", id, "title", title)
	s.renderAdmin(w, r, PageData{Title: "Hallinta", Success: "Kategoria lisätty"})
}

// CategoryDeleteSubmit handles POST /hallinta/kategoriat/poista.
func (s *Server) CategoryDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}

	id := strings.TrimSpace(r.FormValue("categoryId"))
	if id == "" {
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: "Kategoriaa ei valittu"})
		return
	}

	if err := s.Repo.DeleteRail(r.Context(), id); err != nil {
		slog.Error("failed to delete category", "id", id, "error", err)
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: mutationMessage(err, "Kategorian poisto epäonnistui")})
		return
	}

	slog.Info("category deleted", "id", id)
	s.renderAdmin(w, r, PageData{Title: "Hallinta", Success: "Kategoria poistettu"})
}

// OfferCreateSubmit handles POST /hallinta/tarjoukset.
func (s *Server) OfferCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, offerFormLimit)
	if err := r.ParseMultipartForm(offerFormLimit); err != nil {
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: "Kuvan maksimikoko on 1.5 Mt"})
		return
	}

	imageSrc, errMsg := s.resolveImageSrc(r)
	if errMsg != "" {
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: errMsg})
		return
	}

	locations := r.Form["location"]
	if slices.Contains(locations, model.AllStoresValue) {
		locations = []string{model.AllStoresValue}
	}

	in := store.OfferInput{
		RailID:        r.FormValue("categoryId"),
		Product:       r.FormValue("product"),
		Description:   r.FormValue("description"),
		ImageSrc:      imageSrc,
		ImageAlt:      r.FormValue("imageAlt"),
		Price:         r.FormValue("price"),
		OriginalPrice: r.FormValue("originalPrice"),
		Locations:     locations,
		Badge:         r.FormValue("badge"),
		StartsAt:      r.FormValue("startsAt"),
		EndsAt:        r.FormValue("endsAt"),
	}

	id, err := s.Repo.CreateOffer(r.Context(), in)
	if err != nil {
		slog.Error("failed to create offer", "error", err)
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: mutationMessage(err, "Tallennus epäonnistui")})
		return
	}

	slog.Info("offer created", "id", id, "product", in.Product)
	s.renderAdmin(w, r, PageData{Title: "Hallinta", Success: "Tarjous lisätty"})
}

// OfferDeleteSubmit handles POST /hallinta/tarjoukset/poista.
func (s *Server) OfferDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}

	id := strings.TrimSpace(r.FormValue("offerId"))
	if id == "" {
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: "Tarjousta ei valittu"})
		return
	}

	if err := s.Repo.DeleteOffer(r.Context(), id); err != nil {
		slog.Error("failed to delete offer", "id", id, "error", err)
		s.renderAdmin(w, r, PageData{Title: "Hallinta", Error: mutationMessage(err, "Tarjouksen poisto epäonnistui")})
		return
	}

	slog.Info("offer deleted", "id", id)
	s.renderAdmin(w, r, PageData{Title: "Hallinta", Success: "Tarjous poistettu"})
}

// resolveImageSrc produces the stored image source from the form: either
// the uploaded file piped through the imaging pipeline (data URI) or a
// direct URL checked against the remote-host allowlist. Returns a
// user-facing error message when the input is unusable.
func (s *Server) resolveImageSrc(r *http.Request) (string, string) {
	mode := r.FormValue("imageMode")
	if mode == "" {
		mode = "upload"
	}

	if mode == "url" {
		src := strings.TrimSpace(r.FormValue("imageSrc"))
		if src == "" {
			return "", "Anna kuvan URL-osoite"
		}
		if !s.remoteImageAllowed(src) {
			return "", "Kuvan osoite ei ole sallitulla palvelimella"
		}
		return src, ""
	}

	file, header, err := r.FormFile("imageFile")
	if err != nil || header.Size == 0 {
		return "", "Valitse kuvatiedosto"
	}
	defer file.Close()

	if header.Size > imaging.MaxUploadBytes {
		return "", "Kuvan maksimikoko on 1.5 Mt"
	}

	result, err := imaging.Process(file)
	if err != nil {
		slog.Warn("failed to process offer image", "error", err)
		return "", "Kuvatiedoston käsittely epäonnistui"
	}
	return result.DataURI, ""
}

// remoteImageAllowed checks a URL-mode image source against the
// configured allowlist. An empty allowlist accepts any https host.
func (s *Server) remoteImageAllowed(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if len(s.ImageHosts) == 0 {
		return true
	}
	return slices.Contains(s.ImageHosts, u.Hostname())
}

// mutationMessage maps repository errors to user-facing Finnish messages,
// keeping remote detail out of the response.
func mutationMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, store.ErrNotConfigured):
		return "Tietokantaa ei ole konfiguroitu"
	case errors.Is(err, store.ErrMissingFields):
		return "Täytä kaikki pakolliset kentät"
	case errors.Is(err, store.ErrDateRange):
		return "Alkupäivän tulee olla ennen loppupäivää"
	default:
		return fallback
	}
}
