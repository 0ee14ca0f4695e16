package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingDatabaseURL is returned when a service that needs the database is
// started without a connection URL in its config file or DATABASE_URL.
var ErrMissingDatabaseURL = errors.New("database_url is not set (config file or DATABASE_URL)")

// APIServerConfig holds configuration for the analytics API service
type APIServerConfig struct {
	DatabaseURL string `json:"database_url" yaml:"database_url"`
	SSLRootCert string `json:"ssl_root_cert" yaml:"ssl_root_cert"`
	Port        string `json:"port" yaml:"port"`
}

// DashboardConfig holds configuration for the dashboard service
type DashboardConfig struct {
	APIServerURL string     `json:"api_server_url" yaml:"api_server_url"`
	Port         string     `json:"port" yaml:"port"`
	OIDC         OIDCConfig `json:"oidc" yaml:"oidc"`
}

// DataLoaderConfig holds configuration for the one-shot fixture loader
type DataLoaderConfig struct {
	DatabaseURL string `json:"database_url" yaml:"database_url"`
	SSLRootCert string `json:"ssl_root_cert" yaml:"ssl_root_cert"`
	FixturePath string `json:"fixture_path" yaml:"fixture_path"`
}

type OIDCConfig struct {
	ProviderURL  string `json:"provider_url" yaml:"provider_url"`
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
	RedirectURL  string `json:"redirect_url" yaml:"redirect_url"`
}

// Load loads the configuration from a file (YAML or JSON)
func Load(path string, cfg interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config file %s: %w", path, err)
		}
	} else {
		// Default to JSON for compatibility or other extensions
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to decode JSON config file %s: %w", path, err)
		}
	}

	return nil
}

// DSN combines the connection URL with the optional TLS root certificate,
// appending sslrootcert as a connection parameter the way managed Postgres
// providers expect it.
func DSN(databaseURL, sslRootCert string) string {
	if sslRootCert == "" {
		return databaseURL
	}
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return databaseURL + sep + "sslrootcert=" + sslRootCert
}

func (c *APIServerConfig) DSN() (string, error) {
	if c.DatabaseURL == "" {
		return "", ErrMissingDatabaseURL
	}
	return DSN(c.DatabaseURL, c.SSLRootCert), nil
}

func (c *DataLoaderConfig) DSN() (string, error) {
	if c.DatabaseURL == "" {
		return "", ErrMissingDatabaseURL
	}
	return DSN(c.DatabaseURL, c.SSLRootCert), nil
}
