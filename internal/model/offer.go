package model

// StoreOffer is one promotional listing: product, prices, image and the
// stores it applies to. Dates are normalized yyyy-mm-dd strings.
type StoreOffer struct {
	ID            string   `json:"id"`
	RailID        string   `json:"rail_id"`
	Product       string   `json:"product"`
	Description   string   `json:"description"`
	ImageSrc      string   `json:"image_src"`
	ImageAlt      string   `json:"image_alt"`
	Price         string   `json:"price"`
	OriginalPrice string   `json:"original_price"`
	Locations     []string `json:"locations"`
	Badge         string   `json:"badge,omitempty"`
	StartsAt      string   `json:"starts_at,omitempty"`
	EndsAt        string   `json:"ends_at,omitempty"`
	SortOrder     int      `json:"sort_order"`
}

// OfferRail is a named grouping of offers shown as one section on the
// offers page (e.g. "Viikon tarjoukset").
type OfferRail struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	SortOrder   int          `json:"sort_order"`
	Offers      []StoreOffer `json:"offers"`
}

// AllStoresValue is the sentinel location meaning the offer applies to
// every store. AllStoresLabel is what customers see for it.
const (
	AllStoresValue = "__ALL_STORES__"
	AllStoresLabel = "Kaikki myymälät"
)
