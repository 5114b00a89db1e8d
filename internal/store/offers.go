package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yallakauppa/storefront/internal/model"
)

// OfferInput carries the fields of a new offer. ImageSrc is either a
// prepared data URI (upload mode) or a plain URL; the handler resolves
// that before calling CreateOffer.
type OfferInput struct {
	RailID        string
	Product       string
	Description   string
	ImageSrc      string
	ImageAlt      string
	Price         string
	OriginalPrice string
	Locations     []string
	Badge         string
	StartsAt      string
	EndsAt        string
	SortOrder     int
}

// Validate trims the input and checks the required fields and the date
// window. The badge is persisted as sent; whether it matches the actual
// discount is left to the admin.
func (in *OfferInput) Validate() error {
	in.RailID = strings.TrimSpace(in.RailID)
	in.Product = strings.TrimSpace(in.Product)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageSrc = strings.TrimSpace(in.ImageSrc)
	in.ImageAlt = strings.TrimSpace(in.ImageAlt)
	in.Price = strings.TrimSpace(in.Price)
	in.OriginalPrice = strings.TrimSpace(in.OriginalPrice)
	in.Badge = strings.TrimSpace(in.Badge)
	in.StartsAt = normalizeDate(strings.TrimSpace(in.StartsAt))
	in.EndsAt = normalizeDate(strings.TrimSpace(in.EndsAt))

	if in.RailID == "" || in.Product == "" || in.Description == "" ||
		in.ImageSrc == "" || in.ImageAlt == "" || in.Price == "" ||
		in.OriginalPrice == "" || len(in.Locations) == 0 {
		return ErrMissingFields
	}

	if in.StartsAt != "" && in.EndsAt != "" && in.StartsAt > in.EndsAt {
		return ErrDateRange
	}

	return nil
}

// CreateOffer validates and persists a new offer, returning its id.
func (r *Repository) CreateOffer(ctx context.Context, in OfferInput) (string, error) {
	if r.admin == nil {
		return "", ErrNotConfigured
	}

	if err := in.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := r.admin.ExecContext(ctx,
		r.q(`INSERT INTO offer_items
		     (id, rail_id, product, description, image_src, image_alt,
		      price, original_price, location, badge, starts_at, ends_at, sort_order)
		     VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, in.RailID, in.Product, in.Description, in.ImageSrc, in.ImageAlt,
		in.Price, in.OriginalPrice, encodeLocations(in.Locations),
		nullable(in.Badge), nullable(in.StartsAt), nullable(in.EndsAt), in.SortOrder,
	)
	if err != nil {
		return "", fmt.Errorf("creating offer: %w", err)
	}
	return id, nil
}

// DeleteOffer removes an offer. Deleting an id that no longer exists is
// not an error.
func (r *Repository) DeleteOffer(ctx context.Context, id string) error {
	if r.admin == nil {
		return ErrNotConfigured
	}

	if _, err := r.admin.ExecContext(ctx, r.q(`DELETE FROM offer_items WHERE id = ?`), id); err != nil {
		return fmt.Errorf("deleting offer: %w", err)
	}
	return nil
}

// FetchLatestOffers returns up to limit active offers, newest first by
// creation timestamp. When that ordering fails (hosted schemas without
// the created_at column) it degrades to a deterministic id ordering.
// Without a read connection the result is empty.
func (r *Repository) FetchLatestOffers(ctx context.Context, limit int) ([]model.StoreOffer, error) {
	if r.read == nil {
		return nil, nil
	}

	r.purgeOnRead(ctx)

	const columns = `SELECT id, rail_id, product, description, image_src, image_alt,
	                        price, original_price, location, badge, starts_at, ends_at, sort_order
	                 FROM offer_items`

	offers, err := r.listOffers(ctx, r.q(columns+` ORDER BY created_at DESC LIMIT ?`), limit)
	if err != nil {
		slog.Warn("latest offers by created_at failed, ordering by id", "error", err)
		offers, err = r.listOffers(ctx, r.q(columns+` ORDER BY id DESC LIMIT ?`), limit)
		if err != nil {
			return nil, err
		}
	}

	active := offers[:0]
	for _, offer := range offers {
		if offerActive(offer.EndsAt) {
			active = append(active, offer)
		}
	}
	return active, nil
}

// PurgeExpired deletes every offer whose end date is strictly before
// today and reports how many rows went. Requires the privileged
// connection.
func (r *Repository) PurgeExpired(ctx context.Context) (int64, error) {
	if r.admin == nil {
		return 0, ErrNotConfigured
	}

	result, err := r.admin.ExecContext(ctx,
		r.q(`DELETE FROM offer_items
		     WHERE ends_at IS NOT NULL AND ends_at <> '' AND ends_at < ?`),
		todayISO(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging expired offers: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging expired offers: %w", err)
	}
	return n, nil
}

// purgeOnRead runs the expiry purge ahead of a read. Purge failures are
// logged and never block the read they precede; a missing privileged
// connection simply skips the purge.
func (r *Repository) purgeOnRead(ctx context.Context) {
	if r.admin == nil {
		return
	}
	if n, err := r.PurgeExpired(ctx); err != nil {
		slog.Warn("purging expired offers failed", "error", err)
	} else if n > 0 {
		slog.Info("purged expired offers", "count", n)
	}
}

// listOffers runs an offer query and maps the rows.
func (r *Repository) listOffers(ctx context.Context, query string, args ...any) ([]model.StoreOffer, error) {
	rows, err := r.read.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	var offers []model.StoreOffer
	for rows.Next() {
		var o model.StoreOffer
		var location string
		var badge, startsAt, endsAt sql.NullString
		if err := rows.Scan(&o.ID, &o.RailID, &o.Product, &o.Description,
			&o.ImageSrc, &o.ImageAlt, &o.Price, &o.OriginalPrice,
			&location, &badge, &startsAt, &endsAt, &o.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}
		o.Locations = ParseLocations(location)
		o.Badge = badge.String
		o.StartsAt = normalizeDate(startsAt.String)
		o.EndsAt = normalizeDate(endsAt.String)
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// nullable maps an empty string to SQL NULL.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
