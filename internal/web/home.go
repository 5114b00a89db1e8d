package web

import (
	"log/slog"
	"net/http"

	"github.com/yallakauppa/storefront/internal/model"
)

// homeView is the data for the home page, including the contact form state.
type homeView struct {
	PageData
	LatestOffers []model.StoreOffer
	Stores       []model.Store
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, PageData{Title: "Yalla Kauppa"})
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, pd PageData) {
	latest, err := s.Repo.FetchLatestOffers(r.Context(), 5)
	if err != nil {
		slog.Error("failed to fetch latest offers", "error", err)
	}

	s.Templates.Render(w, "home.html", &homeView{
		PageData:     pd,
		LatestOffers: latest,
		Stores:       model.Stores,
	})
}

// OffersPage handles GET /tarjoukset.
func (s *Server) OffersPage(w http.ResponseWriter, r *http.Request) {
	rails, err := s.Repo.FetchOfferRails(r.Context(), false)
	if err != nil {
		slog.Error("failed to fetch offer rails", "error", err)
	}

	s.Templates.Render(w, "offers.html", &struct {
		PageData
		Rails []model.OfferRail
	}{
		PageData: PageData{Title: "Tarjoukset"},
		Rails:    rails,
	})
}

// StoresPage handles GET /myymalat.
func (s *Server) StoresPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "stores.html", &struct {
		PageData
		Stores []model.Store
	}{
		PageData: PageData{Title: "Myymälät"},
		Stores:   model.Stores,
	})
}
