package database

import (
	"fmt"
	"net/url"

	"github.com/rickgao/totals-data/internal/config"
)

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DBConfig) string {
	// URL-encode password to handle special characters
	return buildConnString(cfg, url.QueryEscape(cfg.Password))
}

// RedactedConnString is BuildConnString with the password masked, for logs.
func RedactedConnString(cfg config.DBConfig) string {
	if cfg.Password == "" {
		return buildConnString(cfg, "")
	}
	return buildConnString(cfg, "xxxxx")
}

func buildConnString(cfg config.DBConfig, password string) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}
