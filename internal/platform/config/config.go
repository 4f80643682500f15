// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, upload roots) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Primaria API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for sessions and CSRF tokens
	RedisURL string `env:"REDIS_URL,required"`

	// UploadRoot is the base directory for all stored assets. Per-content-type
	// subdirectories (anunturi, hotarari, galerie, proiecte) live beneath it.
	UploadRoot string `env:"UPLOAD_ROOT" envDefault:"./data/uploads"`

	// Upload size ceilings, in bytes.
	MaxImageBytes    int64 `env:"MAX_IMAGE_BYTES"    envDefault:"5242880"`
	MaxDocumentBytes int64 `env:"MAX_DOCUMENT_BYTES" envDefault:"20971520"`
	MaxPhotoBytes    int64 `env:"MAX_PHOTO_BYTES"    envDefault:"10485760"`

	// Session cookie attributes. SameSite accepts lax|strict|none.
	CookieSecure   bool   `env:"COOKIE_SECURE"   envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAMESITE" envDefault:"lax"`

	// Timezone is the IANA name used for publish-date interpretation.
	Timezone string `env:"TIMEZONE" envDefault:"Europe/Bucharest"`

	// ExtraOrigins lists additional exact origins the CORS middleware
	// accepts in production, beyond the primaria.ro suffix. Used for
	// county-council portals that embed the public widgets.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Validate the timezone early; a bad value surfaces at startup, not at
	// the first publish-date parse.
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	// A typo here must not silently weaken the cookie policy.
	switch cfg.CookieSameSite {
	case "lax", "strict", "none":
	default:
		return nil, fmt.Errorf("config: invalid COOKIE_SAMESITE %q (want lax|strict|none)", cfg.CookieSameSite)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SameSite maps the configured cookie policy onto the stdlib constant.
// Load has already rejected anything outside lax|strict|none.
func (c *Config) SameSite() http.SameSite {
	switch c.CookieSameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// ExtraAllowedOrigins returns the configured extra CORS origins with
// whitespace trimmed and empty entries dropped.
func (c *Config) ExtraAllowedOrigins() []string {
	origins := make([]string, 0, len(c.ExtraOrigins))
	for _, origin := range c.ExtraOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
