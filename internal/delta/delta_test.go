package delta

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/snapshot"
)

func movie(id int, name string) catalog.Movie {
	return catalog.Movie{StreamID: id, Name: name, ContainerExtension: "mp4", CategoryID: 1}
}

func series(id int, name string) catalog.Series {
	return catalog.Series{SeriesID: id, Name: name, CategoryID: 2}
}

func baseline(movies []catalog.Movie, ser []catalog.Series) *snapshot.Snapshot {
	b := snapshot.NewBuilder("http://provider.test", "fp", time.Now())
	b.AddMovies(movies)
	b.AddSeries(ser)
	return b.Build(true, time.Now())
}

func TestCompute_NoBaseline(t *testing.T) {
	d := Compute(nil, []catalog.Movie{movie(1, "A"), movie(2, "B")}, []catalog.Series{series(5, "S")})

	assert.False(t, d.HasBaseline)
	assert.Len(t, d.NewMovies, 2)
	assert.Len(t, d.NewSeries, 1)
	assert.Empty(t, d.RemovedMovieIDs)
	assert.Empty(t, d.RemovedSeriesIDs)
	assert.Equal(t, 3, d.Stats.New)
	assert.InDelta(t, 100.0, d.Stats.ChangePercent, 0.001)
}

func TestCompute_NewMovieUnchangedExisting(t *testing.T) {
	prev := baseline([]catalog.Movie{movie(1, "A")}, nil)

	// Same content for id 1 even with a different icon.
	m1 := movie(1, "A")
	m1.Icon = "http://img/new.jpg"
	d := Compute(prev, []catalog.Movie{m1, movie(2, "B")}, nil)

	assert.Empty(t, d.ModifiedMovies)
	require.Len(t, d.NewMovies, 1)
	assert.Equal(t, 2, d.NewMovies[0].StreamID)
	assert.Empty(t, d.RemovedMovieIDs)
	assert.Equal(t, 1, d.UnchangedMovies)
}

func TestCompute_RemovedSeries(t *testing.T) {
	prev := baseline(nil, []catalog.Series{series(1, "One"), series(2, "Two")})
	d := Compute(prev, nil, []catalog.Series{series(1, "One")})

	assert.Equal(t, []int{2}, d.RemovedSeriesIDs)
	assert.Equal(t, 1, d.UnchangedSeries)
	assert.Empty(t, d.NewSeries)
	assert.Empty(t, d.ModifiedSeries)
}

func TestCompute_Modified(t *testing.T) {
	prev := baseline([]catalog.Movie{movie(1, "A")}, []catalog.Series{series(3, "S")})

	changed := movie(1, "A")
	changed.ContainerExtension = "mkv"
	s := series(3, "S")
	s.LastModified = "1700000000"

	d := Compute(prev, []catalog.Movie{changed}, []catalog.Series{s})
	require.Len(t, d.ModifiedMovies, 1)
	require.Len(t, d.ModifiedSeries, 1)
	assert.Equal(t, 2, d.Stats.Modified)
	assert.True(t, d.HasChanges())
	assert.Equal(t, map[int]bool{3: true}, d.ChangedSeriesIDs())
}

func TestCompute_Stats(t *testing.T) {
	prev := baseline(
		[]catalog.Movie{movie(1, "A"), movie(2, "B"), movie(3, "C")},
		[]catalog.Series{series(10, "X")},
	)
	b := movie(2, "B renamed")
	d := Compute(prev,
		[]catalog.Movie{movie(1, "A"), b, movie(4, "D")},
		[]catalog.Series{series(10, "X")},
	)

	assert.Equal(t, Stats{
		TotalCurrent:  4,
		New:           1,
		Modified:      1,
		Removed:       1,
		Unchanged:     2,
		ChangePercent: 60,
	}, d.Stats)
}

func TestCompute_EmptyUniverse(t *testing.T) {
	d := Compute(baseline(nil, nil), nil, nil)
	assert.Equal(t, 0.0, d.Stats.ChangePercent)
	assert.False(t, d.HasChanges())

	d = Compute(nil, nil, nil)
	assert.Equal(t, 0.0, d.Stats.ChangePercent)
}

func TestCompute_Completeness(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 100; round++ {
		var prevMovies, curMovies []catalog.Movie
		for id := 0; id < 30; id++ {
			if r.Intn(2) == 0 {
				prevMovies = append(prevMovies, movie(id, "M"))
			}
			if r.Intn(2) == 0 {
				name := "M"
				if r.Intn(4) == 0 {
					name = "M2"
				}
				curMovies = append(curMovies, movie(id, name))
			}
		}
		var prev *snapshot.Snapshot
		if round%10 != 0 {
			prev = baseline(prevMovies, nil)
		}

		d := Compute(prev, curMovies, nil)

		assert.Equal(t, len(curMovies), len(d.NewMovies)+len(d.ModifiedMovies)+d.UnchangedMovies)

		current := make(map[int]bool)
		for _, m := range curMovies {
			current[m.StreamID] = true
		}
		wantRemoved := 0
		if prev != nil {
			for _, m := range prevMovies {
				if !current[m.StreamID] {
					wantRemoved++
				}
			}
		}
		seen := make(map[int]int)
		for _, id := range d.RemovedMovieIDs {
			seen[id]++
			assert.False(t, current[id])
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "id %d removed more than once", id)
		}
		assert.Len(t, d.RemovedMovieIDs, wantRemoved)
	}
}

func TestPolicy_Decide(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	withBaseline := &Delta{HasBaseline: true, Stats: Stats{ChangePercent: 5}}
	bigChange := &Delta{HasBaseline: true, Stats: Stats{ChangePercent: 40}}

	tests := []struct {
		name     string
		policy   Policy
		delta    *Delta
		lastFull time.Time
		wantFull bool
	}{
		{"no baseline", Policy{}, &Delta{}, now, true},
		{"nil delta", Policy{}, nil, now, true},
		{"triggers disabled", Policy{}, bigChange, time.Time{}, false},
		{"within interval", Policy{FullSyncInterval: 24 * time.Hour}, withBaseline, now.Add(-time.Hour), false},
		{"interval elapsed", Policy{FullSyncInterval: 24 * time.Hour}, withBaseline, now.Add(-25 * time.Hour), true},
		{"never ran full", Policy{FullSyncInterval: 24 * time.Hour}, withBaseline, time.Time{}, true},
		{"below threshold", Policy{ChangeThreshold: 20}, withBaseline, now, false},
		{"above threshold", Policy{ChangeThreshold: 20}, bigChange, now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Decide(tt.delta, tt.lastFull, now)
			assert.Equal(t, tt.wantFull, got.Full, got.Reason)
			assert.NotEmpty(t, got.Reason)
		})
	}
}
