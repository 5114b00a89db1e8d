package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yallakauppa/storefront/internal/model"
)

func TestCreateOfferValidation(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	railID, err := repo.CreateRail(ctx, "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	missing := testOffer(railID, "Maito")
	missing.Price = "   "
	if _, err := repo.CreateOffer(ctx, missing); !errors.Is(err, ErrMissingFields) {
		t.Errorf("blank price: err = %v, want ErrMissingFields", err)
	}

	noLocation := testOffer(railID, "Maito")
	noLocation.Locations = nil
	if _, err := repo.CreateOffer(ctx, noLocation); !errors.Is(err, ErrMissingFields) {
		t.Errorf("no locations: err = %v, want ErrMissingFields", err)
	}

	badRange := testOffer(railID, "Maito")
	badRange.StartsAt = "2025-05-10"
	badRange.EndsAt = "2025-05-01"
	if _, err := repo.CreateOffer(ctx, badRange); !errors.Is(err, ErrDateRange) {
		t.Errorf("inverted dates: err = %v, want ErrDateRange", err)
	}
}

func TestCreateOfferOptionalFields(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	railID, err := repo.CreateRail(ctx, "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	in := testOffer(railID, "Maito")
	in.Badge = ""
	in.StartsAt = ""
	in.EndsAt = ""
	if _, err := repo.CreateOffer(ctx, in); err != nil {
		t.Fatalf("CreateOffer without optional fields: %v", err)
	}

	offers, err := repo.FetchLatestOffers(ctx, 10)
	if err != nil {
		t.Fatalf("FetchLatestOffers: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	o := offers[0]
	if o.Badge != "" || o.StartsAt != "" || o.EndsAt != "" {
		t.Errorf("optional fields should come back empty, got badge=%q starts=%q ends=%q",
			o.Badge, o.StartsAt, o.EndsAt)
	}
	if len(o.Locations) != 1 || o.Locations[0] != "Yalla Malmi" {
		t.Errorf("locations = %v", o.Locations)
	}
}

func TestOfferLocationsRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	railID, err := repo.CreateRail(ctx, "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	in := testOffer(railID, "Juusto")
	in.Locations = []string{"Yalla Malmi", "Yalla Tikkurila"}
	if _, err := repo.CreateOffer(ctx, in); err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}

	sentinel := testOffer(railID, "Leipä")
	sentinel.Locations = []string{model.AllStoresValue}
	if _, err := repo.CreateOffer(ctx, sentinel); err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}

	rails, err := repo.FetchOfferRails(ctx, false)
	if err != nil {
		t.Fatalf("FetchOfferRails: %v", err)
	}
	if len(rails) != 1 || len(rails[0].Offers) != 2 {
		t.Fatalf("expected 1 rail with 2 offers, got %+v", rails)
	}
	for _, o := range rails[0].Offers {
		switch o.Product {
		case "Juusto":
			if len(o.Locations) != 2 {
				t.Errorf("Juusto locations = %v", o.Locations)
			}
		case "Leipä":
			if len(o.Locations) != 1 || o.Locations[0] != model.AllStoresValue {
				t.Errorf("Leipä locations = %v", o.Locations)
			}
		}
	}
}

func TestExpiredOffersPurgedOnRead(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	railID, err := repo.CreateRail(ctx, "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	today := time.Now().Format("2006-01-02")

	expired := testOffer(railID, "Vanha")
	expired.EndsAt = yesterday
	if _, err := repo.CreateOffer(ctx, expired); err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	current := testOffer(railID, "Tuore")
	current.EndsAt = today
	if _, err := repo.CreateOffer(ctx, current); err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	open := testOffer(railID, "Jatkuva")
	if _, err := repo.CreateOffer(ctx, open); err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}

	offers, err := repo.FetchLatestOffers(ctx, 10)
	if err != nil {
		t.Fatalf("FetchLatestOffers: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected 2 visible offers, got %d", len(offers))
	}
	for _, o := range offers {
		if o.Product == "Vanha" {
			t.Errorf("expired offer still visible")
		}
	}

	// The read should have purged the expired row for good.
	var n int
	if err := repo.read.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM offer_items WHERE product = 'Vanha'`).Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if n != 0 {
		t.Errorf("expired row not purged, %d left", n)
	}
}

func TestFetchLatestOffersOrderAndLimit(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	railID, err := repo.CreateRail(ctx, "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	products := []string{"Eka", "Toka", "Kolmas"}
	for i, product := range products {
		id, err := repo.CreateOffer(ctx, testOffer(railID, product))
		if err != nil {
			t.Fatalf("CreateOffer: %v", err)
		}
		// Space the creation timestamps out so the newest-first ordering
		// is unambiguous within a fast test run.
		stamp := time.Now().Add(time.Duration(i) * time.Minute).UTC().Format("2006-01-02 15:04:05")
		if _, err := repo.admin.ExecContext(ctx,
			`UPDATE offer_items SET created_at = ? WHERE id = ?`, stamp, id); err != nil {
			t.Fatalf("updating created_at: %v", err)
		}
	}

	offers, err := repo.FetchLatestOffers(ctx, 2)
	if err != nil {
		t.Fatalf("FetchLatestOffers: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	if offers[0].Product != "Kolmas" || offers[1].Product != "Toka" {
		t.Errorf("order = [%s %s], want newest first", offers[0].Product, offers[1].Product)
	}
}

func TestDeleteOfferIdempotent(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	railID, err := repo.CreateRail(ctx, "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}
	id, err := repo.CreateOffer(ctx, testOffer(railID, "Maito"))
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}

	if err := repo.DeleteOffer(ctx, id); err != nil {
		t.Fatalf("DeleteOffer: %v", err)
	}
	if err := repo.DeleteOffer(ctx, id); err != nil {
		t.Errorf("repeated DeleteOffer: %v", err)
	}

	offers, err := repo.FetchLatestOffers(ctx, 10)
	if err != nil {
		t.Fatalf("FetchLatestOffers: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("expected no offers, got %d", len(offers))
	}
}
