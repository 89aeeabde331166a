// Package delta classifies the live catalog against the last snapshot.
package delta

import (
	"sort"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/snapshot"
)

// Stats summarizes a delta.
type Stats struct {
	TotalCurrent  int     `json:"total_current"`
	New           int     `json:"new"`
	Modified      int     `json:"modified"`
	Removed       int     `json:"removed"`
	Unchanged     int     `json:"unchanged"`
	ChangePercent float64 `json:"change_percent"`
}

// Delta is the classified difference between a snapshot and the live catalog.
// Unchanged items are only counted.
type Delta struct {
	NewMovies        []catalog.Movie
	ModifiedMovies   []catalog.Movie
	RemovedMovieIDs  []int
	UnchangedMovies  int
	NewSeries        []catalog.Series
	ModifiedSeries   []catalog.Series
	RemovedSeriesIDs []int
	UnchangedSeries  int

	// HasBaseline is false when no previous snapshot was supplied.
	HasBaseline bool
	Stats       Stats
}

// Compute classifies movies and series against prev. A nil prev marks every
// current item new and nothing removed.
func Compute(prev *snapshot.Snapshot, movies []catalog.Movie, series []catalog.Series) *Delta {
	d := &Delta{HasBaseline: prev != nil}

	var prevMovies map[int]snapshot.MovieRecord
	var prevSeries map[int]snapshot.SeriesRecord
	if prev != nil {
		prevMovies = prev.Movies
		prevSeries = prev.Series
	}

	currentMovies := make(map[int]bool, len(movies))
	for _, m := range movies {
		currentMovies[m.StreamID] = true
		rec, ok := prevMovies[m.StreamID]
		switch {
		case !ok:
			d.NewMovies = append(d.NewMovies, m)
		case rec.Checksum != snapshot.MovieChecksum(m):
			d.ModifiedMovies = append(d.ModifiedMovies, m)
		default:
			d.UnchangedMovies++
		}
	}
	for id := range prevMovies {
		if !currentMovies[id] {
			d.RemovedMovieIDs = append(d.RemovedMovieIDs, id)
		}
	}
	sort.Ints(d.RemovedMovieIDs)

	currentSeries := make(map[int]bool, len(series))
	for _, s := range series {
		currentSeries[s.SeriesID] = true
		rec, ok := prevSeries[s.SeriesID]
		switch {
		case !ok:
			d.NewSeries = append(d.NewSeries, s)
		case rec.Checksum != snapshot.SeriesChecksum(s):
			d.ModifiedSeries = append(d.ModifiedSeries, s)
		default:
			d.UnchangedSeries++
		}
	}
	for id := range prevSeries {
		if !currentSeries[id] {
			d.RemovedSeriesIDs = append(d.RemovedSeriesIDs, id)
		}
	}
	sort.Ints(d.RemovedSeriesIDs)

	d.Stats = Stats{
		TotalCurrent: len(movies) + len(series),
		New:          len(d.NewMovies) + len(d.NewSeries),
		Modified:     len(d.ModifiedMovies) + len(d.ModifiedSeries),
		Removed:      len(d.RemovedMovieIDs) + len(d.RemovedSeriesIDs),
		Unchanged:    d.UnchangedMovies + d.UnchangedSeries,
	}
	d.Stats.ChangePercent = changePercent(d.Stats)
	return d
}

func changePercent(s Stats) float64 {
	universe := s.TotalCurrent + s.Removed
	if universe == 0 {
		return 0
	}
	return float64(s.New+s.Modified+s.Removed) / float64(universe) * 100
}

// HasChanges reports whether anything was added, modified or removed.
func (d *Delta) HasChanges() bool {
	return d.Stats.New+d.Stats.Modified+d.Stats.Removed > 0
}

// ChangedSeriesIDs returns the IDs of new and modified series as a set.
func (d *Delta) ChangedSeriesIDs() map[int]bool {
	ids := make(map[int]bool, len(d.NewSeries)+len(d.ModifiedSeries))
	for _, s := range d.NewSeries {
		ids[s.SeriesID] = true
	}
	for _, s := range d.ModifiedSeries {
		ids[s.SeriesID] = true
	}
	return ids
}
