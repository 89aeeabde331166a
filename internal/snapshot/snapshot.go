// Package snapshot persists point-in-time views of the provider catalog so the
// next sync can compute a delta instead of rewriting everything.
package snapshot

import (
	"sync"
	"time"

	"github.com/vmunix/strmsync/internal/catalog"
)

// CurrentVersion is the format tag written into new snapshots. Snapshots with
// a higher version are ignored on load.
const CurrentVersion = 1

// Snapshot is one synchronization's view of the catalog.
type Snapshot struct {
	Version           int                  `json:"version"`
	CreatedAt         time.Time            `json:"created_at"`
	ProviderIdentity  string               `json:"provider_identity"`
	ConfigFingerprint string               `json:"config_fingerprint,omitempty"`
	Movies            map[int]MovieRecord  `json:"movies"`
	Series            map[int]SeriesRecord `json:"series"`
	Metadata          Metadata             `json:"metadata"`
}

// MovieRecord is the persisted state of one movie.
type MovieRecord struct {
	StreamID           int    `json:"stream_id"`
	Name               string `json:"name"`
	Icon               string `json:"icon,omitempty"`
	ContainerExtension string `json:"container_extension"`
	CategoryID         int    `json:"category_id"`
	Added              string `json:"added,omitempty"`
	Checksum           string `json:"checksum"`
}

// SeriesRecord is the persisted state of one series.
type SeriesRecord struct {
	SeriesID     int    `json:"series_id"`
	Name         string `json:"name"`
	Cover        string `json:"cover,omitempty"`
	CategoryID   int    `json:"category_id"`
	EpisodeCount int    `json:"episode_count"`
	LastModified string `json:"last_modified,omitempty"`
	Checksum     string `json:"checksum"`
}

// Metadata summarizes the pass that produced a snapshot.
type Metadata struct {
	TotalMovies int           `json:"total_movies"`
	TotalSeries int           `json:"total_series"`
	Duration    time.Duration `json:"duration_ns"`
	IsComplete  bool          `json:"is_complete"`
}

// Usable reports whether s may serve as a delta baseline.
func (s *Snapshot) Usable() bool {
	return s != nil && s.Metadata.IsComplete && s.Version <= CurrentVersion
}

// MovieRecordFrom converts a catalog movie into its persisted form.
func MovieRecordFrom(m catalog.Movie) MovieRecord {
	return MovieRecord{
		StreamID:           m.StreamID,
		Name:               m.Name,
		Icon:               m.Icon,
		ContainerExtension: m.ContainerExtension,
		CategoryID:         m.CategoryID,
		Added:              m.Added,
		Checksum:           MovieChecksum(m),
	}
}

// SeriesRecordFrom converts a catalog series into its persisted form.
func SeriesRecordFrom(s catalog.Series, episodeCount int) SeriesRecord {
	return SeriesRecord{
		SeriesID:     s.SeriesID,
		Name:         s.Name,
		Cover:        s.Cover,
		CategoryID:   s.CategoryID,
		EpisodeCount: episodeCount,
		LastModified: s.LastModified,
		Checksum:     SeriesChecksum(s),
	}
}

// Builder accumulates a snapshot while a sync runs. It is safe for
// concurrent use.
type Builder struct {
	mu      sync.Mutex
	snap    *Snapshot
	started time.Time
}

// NewBuilder starts a snapshot for the given provider and configuration.
func NewBuilder(providerIdentity, configFingerprint string, started time.Time) *Builder {
	return &Builder{
		started: started,
		snap: &Snapshot{
			Version:           CurrentVersion,
			ProviderIdentity:  providerIdentity,
			ConfigFingerprint: configFingerprint,
			Movies:            make(map[int]MovieRecord),
			Series:            make(map[int]SeriesRecord),
		},
	}
}

// AddMovies records the given movies.
func (b *Builder) AddMovies(movies []catalog.Movie) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range movies {
		b.snap.Movies[m.StreamID] = MovieRecordFrom(m)
	}
}

// AddSeries records the given series with an unknown episode count.
func (b *Builder) AddSeries(series []catalog.Series) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range series {
		b.snap.Series[s.SeriesID] = SeriesRecordFrom(s, 0)
	}
}

// SetEpisodeCount updates the episode count of a recorded series.
func (b *Builder) SetEpisodeCount(seriesID, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rec, ok := b.snap.Series[seriesID]; ok {
		rec.EpisodeCount = count
		b.snap.Series[seriesID] = rec
	}
}

// Build finalizes the snapshot. The builder must not be used afterwards.
func (b *Builder) Build(complete bool, finished time.Time) *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.CreatedAt = finished.UTC()
	b.snap.Metadata = Metadata{
		TotalMovies: len(b.snap.Movies),
		TotalSeries: len(b.snap.Series),
		Duration:    finished.Sub(b.started),
		IsComplete:  complete,
	}
	return b.snap
}
