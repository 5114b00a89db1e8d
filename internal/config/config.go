package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration. Everything is read from the
// environment once at startup.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Admin    AdminConfig
	Mail     MailConfig
	Images   ImageConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr       string
	Production bool
}

// DatabaseConfig holds the datastore connection configuration. ReadDSN is
// the low-privilege connection used by public reads, AdminDSN the
// privileged one used by mutations and the expiry purge. Either may be
// empty, in which case the corresponding operations degrade instead of
// failing at startup.
type DatabaseConfig struct {
	Driver   string
	ReadDSN  string
	AdminDSN string
}

// AdminConfig holds the admin panel credentials.
type AdminConfig struct {
	Username string
	Password string
}

// Configured reports whether both admin credentials are present.
func (a AdminConfig) Configured() bool {
	return a.Username != "" && a.Password != ""
}

// MailConfig holds the outbound SMTP configuration.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// ContactTo receives contact form submissions. Defaults to User.
	ContactTo string
}

// Configured reports whether the mail transport can be used.
func (m MailConfig) Configured() bool {
	return m.Host != "" && m.User != "" && m.Password != "" && m.ContactTo != ""
}

// ImageConfig holds image handling configuration.
type ImageConfig struct {
	// RemoteHosts is the allowlist for URL-mode offer images. Empty means
	// any host is accepted.
	RemoteHosts []string
}

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Addr:       getEnv("LISTEN_ADDR", ":8080"),
			Production: getEnv("APP_ENV", "") == "production",
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DATABASE_DRIVER", "sqlite"),
			ReadDSN:  getEnv("DATABASE_READ_URL", ""),
			AdminDSN: getEnv("DATABASE_ADMIN_URL", ""),
		},
		Admin: AdminConfig{
			Username: getEnv("OFFER_ADMIN_USERNAME", ""),
			Password: getEnv("OFFER_ADMIN_PASSWORD", ""),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Images: ImageConfig{
			RemoteHosts: getEnvList("IMAGE_REMOTE_HOSTS"),
		},
	}

	// DATABASE_PATH is a shorthand for local sqlite deployments: one file
	// backing both the read and the admin handle.
	if cfg.Database.Driver == "sqlite" && cfg.Database.ReadDSN == "" && cfg.Database.AdminDSN == "" {
		if path := getEnv("DATABASE_PATH", "storefront.sqlite3"); path != "" {
			cfg.Database.ReadDSN = path
			cfg.Database.AdminDSN = path
		}
	}

	cfg.Mail.ContactTo = getEnv("CONTACT_TO", cfg.Mail.User)

	return cfg
}

// getEnv gets an environment variable or returns the default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable as a trimmed slice.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
