package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/yallakauppa/storefront/internal/db"
)

// Errors surfaced by the repository. Handlers translate these into
// user-facing messages; nothing here should take a request down.
var (
	// ErrNotConfigured means the required connection is absent. Reads
	// never return it (they degrade to empty results); mutations and the
	// purge do.
	ErrNotConfigured = errors.New("datastore is not configured")

	// ErrMissingFields means a required input field was empty after trimming.
	ErrMissingFields = errors.New("required fields missing")

	// ErrDateRange means the offer's start date is after its end date.
	ErrDateRange = errors.New("start date is after end date")
)

// Repository is the single source of truth for offer and category data.
// It holds two connection handles: read is the low-privilege one used by
// public reads, admin the privileged one used by mutations and the expiry
// purge. Either may be nil when the matching configuration is absent; the
// repository then degrades (empty reads, ErrNotConfigured writes) instead
// of failing. Both handles are created once at startup and reused for the
// process lifetime.
type Repository struct {
	read   *sql.DB
	admin  *sql.DB
	driver string
}

// New creates a Repository over the given connection handles.
func New(read, admin *sql.DB, driver string) *Repository {
	return &Repository{read: read, admin: admin, driver: driver}
}

// q adapts a ?-placeholder query to the driver's placeholder style.
func (r *Repository) q(query string) string {
	return db.Rebind(r.driver, query)
}

// todayISO returns the current calendar day as yyyy-mm-dd.
func todayISO() string {
	return time.Now().Format("2006-01-02")
}

// normalizeDate truncates a date-ish string to yyyy-mm-dd. Expiry
// comparisons are lexicographic and only safe on this exact form.
func normalizeDate(v string) string {
	if len(v) > 10 {
		return v[:10]
	}
	return v
}

// offerActive reports whether an offer with the given end date is still
// visible: no end date, or an end date not strictly before today.
func offerActive(endsAt string) bool {
	end := normalizeDate(endsAt)
	return end == "" || end >= todayISO()
}
