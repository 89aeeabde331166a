package config

import (
	"fmt"
	"net/url"

	"github.com/vmunix/strmsync/internal/naming"
	"github.com/vmunix/strmsync/internal/syncer"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if !validLogFormats[c.Server.LogFormat] {
		errs = append(errs, fmt.Sprintf("server.log_format: must be text or json; got %q", c.Server.LogFormat))
	}

	// Provider
	if c.Provider.URL == "" {
		errs = append(errs, "provider.url: required")
	} else if u, err := url.Parse(c.Provider.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("provider.url: must be an absolute http(s) URL, got %q", c.Provider.URL))
	}
	if c.Provider.Username == "" {
		errs = append(errs, "provider.username: required")
	}
	if c.Provider.Password == "" {
		errs = append(errs, "provider.password: required")
	}
	if c.Provider.MaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("provider.max_retries: must not be negative, got %d", c.Provider.MaxRetries))
	}

	// Library
	if c.Library.Root == "" {
		errs = append(errs, "library.root: required")
	}

	// Sync
	if !c.Sync.Movies && !c.Sync.Series {
		errs = append(errs, "sync: at least one of movies or series must be enabled")
	}
	if !naming.FolderMode(c.Sync.FolderMode).Valid() {
		errs = append(errs, fmt.Sprintf("sync.folder_mode: must be single or category; got %q", c.Sync.FolderMode))
	}
	if n := c.Sync.MaxConcurrency; n != 0 && (n < syncer.MinConcurrency || n > syncer.MaxConcurrency) {
		errs = append(errs, fmt.Sprintf("sync.max_concurrency: must be between %d and %d, got %d", syncer.MinConcurrency, syncer.MaxConcurrency, n))
	}
	if c.Sync.FullSyncThreshold < 0 || c.Sync.FullSyncThreshold > 100 {
		errs = append(errs, fmt.Sprintf("sync.full_sync_threshold: must be between 0 and 100, got %g", c.Sync.FullSyncThreshold))
	}
	if c.Sync.FullSyncInterval.Duration < 0 {
		errs = append(errs, "sync.full_sync_interval: must not be negative")
	}
	if c.Sync.Interval.Duration < 0 {
		errs = append(errs, "sync.interval: must not be negative")
	}

	// Plex
	if c.Plex != nil {
		if c.Plex.URL == "" {
			errs = append(errs, "plex.url: required when plex is configured")
		}
		if c.Plex.Token == "" {
			errs = append(errs, "plex.token: required when plex is configured")
		}
	}

	return errs
}
