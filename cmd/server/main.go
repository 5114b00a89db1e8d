package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"

	"github.com/yallakauppa/storefront/internal/auth"
	"github.com/yallakauppa/storefront/internal/config"
	"github.com/yallakauppa/storefront/internal/db"
	"github.com/yallakauppa/storefront/internal/mailer"
	"github.com/yallakauppa/storefront/internal/store"
	"github.com/yallakauppa/storefront/internal/web"
)

func main() {
	cfg := config.Load()

	read, admin := openDatabases(cfg.Database)
	repo := store.New(read, admin, cfg.Database.Driver)

	authn := auth.New(auth.Credentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, cfg.Server.Production)
	if !authn.Configured() {
		slog.Warn("admin credentials not configured, admin panel is disabled")
	}

	var notifier web.Notifier
	if cfg.Mail.Configured() {
		m, err := mailer.New(cfg.Mail)
		if err != nil {
			log.Fatalf("Failed to set up mail transport: %v", err)
		}
		notifier = m
	} else {
		slog.Warn("mail transport not configured, contact form is disabled")
	}

	router, err := web.NewRouter(repo, authn, notifier, cfg.Images.RemoteHosts)
	if err != nil {
		log.Fatalf("Failed to set up web router: %v", err)
	}

	handler := web.LoggingMiddleware(router)

	slog.Info("server listening", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// openDatabases opens the low-privilege read handle and the privileged
// admin handle. Missing configuration leaves a handle nil; the repository
// degrades accordingly instead of the process refusing to start.
func openDatabases(cfg config.DatabaseConfig) (read, admin *sql.DB) {
	if cfg.AdminDSN != "" {
		var err error
		admin, err = db.Open(cfg.Driver, cfg.AdminDSN)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		// The local sqlite driver owns its schema; hosted postgres is
		// provisioned out of band.
		if cfg.Driver == db.DriverSQLite {
			if err := db.Migrate(admin); err != nil {
				log.Fatalf("Failed to migrate database: %v", err)
			}
		}
	}

	switch {
	case cfg.ReadDSN == "":
		// No read connection: public pages render without offers.
	case cfg.ReadDSN == cfg.AdminDSN:
		read = admin
	default:
		var err error
		read, err = db.Open(cfg.Driver, cfg.ReadDSN)
		if err != nil {
			log.Fatalf("Failed to open read database: %v", err)
		}
	}

	if read == nil {
		slog.Warn("datastore not configured, no offers will be shown")
	}
	return read, admin
}
