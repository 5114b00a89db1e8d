package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/yallakauppa/storefront/internal/model"
)

// CreateRail creates a new offer category and returns its generated id.
// Title and description are required after trimming.
func (r *Repository) CreateRail(ctx context.Context, title, description string) (string, error) {
	if r.admin == nil {
		return "", ErrNotConfigured
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return "", ErrMissingFields
	}

	id := newRailID(title)
	_, err := r.admin.ExecContext(ctx,
		r.q(`INSERT INTO offer_rails (id, title, description) VALUES (?, ?, ?)`),
		id, title, description,
	)
	if err != nil {
		return "", fmt.Errorf("creating rail: %w", err)
	}
	return id, nil
}

// DeleteRail removes a rail together with its offers. Deleting an id that
// no longer exists is not an error.
func (r *Repository) DeleteRail(ctx context.Context, id string) error {
	if r.admin == nil {
		return ErrNotConfigured
	}

	tx, err := r.admin.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting rail: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM offer_items WHERE rail_id = ?`), id); err != nil {
		return fmt.Errorf("deleting rail offers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM offer_rails WHERE id = ?`), id); err != nil {
		return fmt.Errorf("deleting rail: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleting rail: %w", err)
	}
	return nil
}

// FetchOfferRails returns every rail ascending by sort order, each with
// its active offers ascending by sort order. Rails without active offers
// are dropped unless includeEmpty is set (the admin panel wants them, the
// public page does not). Without a read connection the result is empty.
func (r *Repository) FetchOfferRails(ctx context.Context, includeEmpty bool) ([]model.OfferRail, error) {
	if r.read == nil {
		return nil, nil
	}

	r.purgeOnRead(ctx)

	rows, err := r.read.QueryContext(ctx,
		`SELECT id, title, description, sort_order
		 FROM offer_rails ORDER BY sort_order, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rails: %w", err)
	}
	defer rows.Close()

	var rails []model.OfferRail
	index := make(map[string]int)
	for rows.Next() {
		var rail model.OfferRail
		if err := rows.Scan(&rail.ID, &rail.Title, &rail.Description, &rail.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning rail: %w", err)
		}
		index[rail.ID] = len(rails)
		rails = append(rails, rail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing rails: %w", err)
	}

	offers, err := r.listOffers(ctx,
		`SELECT id, rail_id, product, description, image_src, image_alt,
		        price, original_price, location, badge, starts_at, ends_at, sort_order
		 FROM offer_items ORDER BY sort_order, id`,
	)
	if err != nil {
		return nil, err
	}

	for _, offer := range offers {
		if !offerActive(offer.EndsAt) {
			continue
		}
		if i, ok := index[offer.RailID]; ok {
			rails[i].Offers = append(rails[i].Offers, offer)
		}
	}

	if includeEmpty {
		return rails, nil
	}

	filtered := rails[:0]
	for _, rail := range rails {
		if len(rail.Offers) > 0 {
			filtered = append(filtered, rail)
		}
	}
	return filtered, nil
}
