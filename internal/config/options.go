package config

import (
	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/delta"
	"github.com/vmunix/strmsync/internal/naming"
	"github.com/vmunix/strmsync/internal/syncer"
)

// Credentials returns the provider account.
func (c *Config) Credentials() catalog.Credentials {
	return catalog.Credentials{
		BaseURL:  c.Provider.URL,
		Username: c.Provider.Username,
		Password: c.Provider.Password,
	}
}

// SyncOptions projects the settings the sync engine consumes.
func (c *Config) SyncOptions() syncer.Config {
	return syncer.Config{
		Credentials:      c.Credentials(),
		LibraryRoot:      c.Library.Root,
		FolderMode:       naming.FolderMode(c.Sync.FolderMode),
		SyncMovies:       c.Sync.Movies,
		SyncSeries:       c.Sync.Series,
		MovieCategories:  c.Sync.MovieCategories,
		SeriesCategories: c.Sync.SeriesCategories,
		MaxConcurrency:   c.Sync.MaxConcurrency,
		CleanupOrphans:   c.Sync.CleanupOrphans,
		SmartSkip:        c.Sync.SmartSkip,
		Incremental:      c.Sync.Incremental,
		Policy: delta.Policy{
			FullSyncInterval: c.Sync.FullSyncInterval.Duration,
			ChangeThreshold:  c.Sync.FullSyncThreshold,
		},
		MetadataLookup: c.Sync.MetadataLookup,
	}
}
