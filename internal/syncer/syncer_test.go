package syncer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/events"
	"github.com/vmunix/strmsync/internal/naming"
	"github.com/vmunix/strmsync/internal/syncer"
	"github.com/vmunix/strmsync/internal/syncer/mocks"
)

func TestSync_CreatesPointers(t *testing.T) {
	env := newTestEnv(t, nil)

	res := env.sync(t, false)

	assert.True(t, res.Success)
	assert.Equal(t, syncer.OutcomeSucceeded, res.Outcome())
	assert.True(t, res.Full, "first run has no baseline")
	assert.Equal(t, 3, res.MoviesCreated)
	assert.Equal(t, 2, res.EpisodesCreated)
	assert.Zero(t, res.Errors)
	assert.NotEmpty(t, res.SnapshotPath)
	assert.False(t, res.EndedAt.Before(res.StartedAt))

	assert.ElementsMatch(t, []string{
		filepath.Join("Movies", "The Matrix (1999)", "The Matrix (1999).strm"),
		filepath.Join("Movies", "Heat (1995)", "Heat (1995).strm"),
		filepath.Join("Movies", "Drive (2011)", "Drive (2011).strm"),
		filepath.Join("Series", "Breaking Bad", "Season 01", "Breaking Bad - S01E01 - Pilot.strm"),
		filepath.Join("Series", "Breaking Bad", "Season 01", "Breaking Bad - S01E02.strm"),
	}, pointerFiles(t, env.root))

	assert.Equal(t, "http://provider.test:8080/movie/user/pass/101.mkv",
		readFile(t, env.path("Movies", "The Matrix (1999)", "The Matrix (1999).strm")))
	assert.Equal(t, "http://provider.test:8080/series/user/pass/9001.mkv",
		readFile(t, env.path("Series", "Breaking Bad", "Season 01", "Breaking Bad - S01E01 - Pilot.strm")))

	progress := env.syncer.Progress()
	assert.False(t, progress.Running)
	assert.Equal(t, syncer.PhaseIdle, progress.Phase)
	assert.False(t, env.syncer.Running())
	assert.Same(t, res, env.syncer.LastResult())
}

func TestSync_SecondRunIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)
	before := pointerFiles(t, env.root)

	res := env.sync(t, false)

	assert.True(t, res.Success)
	assert.False(t, res.Full)
	assert.Equal(t, "incremental", res.FullReason)
	assert.Zero(t, res.MoviesCreated)
	assert.Zero(t, res.EpisodesCreated)
	assert.Zero(t, res.OrphansDeleted)
	assert.Equal(t, 3, res.MoviesSkipped)
	assert.Equal(t, 1, res.SeriesSkipped, "unchanged series with files on disk is smart-skipped")
	assert.Equal(t, 1, env.catalog.calls(501), "smart skip avoids the episode fetch")
	assert.Equal(t, 4, res.Delta.Unchanged)
	assert.False(t, res.Changed())
	assert.ElementsMatch(t, before, pointerFiles(t, env.root))
}

func TestSync_FullRequestBypassesSmartSkip(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	res := env.sync(t, true)

	assert.True(t, res.Full)
	assert.Equal(t, "requested", res.FullReason)
	assert.Zero(t, res.SeriesSkipped)
	assert.Equal(t, 2, res.EpisodesSkipped)
	assert.Equal(t, 2, env.catalog.calls(501))
}

func TestSync_SmartSkipDisabledFetchesEveryRun(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.SmartSkip = false })
	env.sync(t, false)
	env.sync(t, false)

	assert.Equal(t, 2, env.catalog.calls(501))
}

func TestSync_ModifiedSeriesFetchesNewEpisodes(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	env.catalog.mu.Lock()
	env.catalog.series[10][0].LastModified = "1700009999"
	info := env.catalog.infos[501]
	info.Seasons[2] = []catalog.Episode{{ID: 9101, Title: "Seven Thirty-Seven", EpisodeNum: 1, Season: 2, ContainerExtension: "mkv"}}
	env.catalog.mu.Unlock()

	res := env.sync(t, false)

	assert.False(t, res.Full)
	assert.Equal(t, 1, res.Delta.Modified)
	assert.Zero(t, res.SeriesSkipped)
	assert.Equal(t, 1, res.EpisodesCreated)
	assert.FileExists(t, env.path("Series", "Breaking Bad", "Season 02", "Breaking Bad - S02E01 - Seven Thirty-Seven.strm"))
}

func TestSync_ModifiedMovieIsRewritten(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	env.catalog.mu.Lock()
	env.catalog.movies[2][0].ContainerExtension = "mkv"
	env.catalog.mu.Unlock()

	res := env.sync(t, false)

	assert.Equal(t, 1, res.MoviesUpdated)
	assert.Equal(t, 2, res.MoviesSkipped)
	assert.Equal(t, "http://provider.test:8080/movie/user/pass/201.mkv",
		readFile(t, env.path("Movies", "Drive (2011)", "Drive (2011).strm")))
}

func TestSync_ArtworkChangeIsNotModification(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	env.catalog.mu.Lock()
	env.catalog.movies[1][0].Icon = "http://img/other.jpg"
	env.catalog.mu.Unlock()

	res := env.sync(t, false)
	assert.Zero(t, res.Delta.Modified)
	assert.Zero(t, res.MoviesUpdated)
}

func TestSync_RemovesOrphansAndPrunesFolders(t *testing.T) {
	env := newTestEnv(t, nil)
	bus := events.NewBus(nil, nil)
	t.Cleanup(func() { _ = bus.Close() })
	env.syncer = syncer.New(testConfig(env.root), env.catalog, env.store, nil, syncer.WithPublisher(bus))
	removed := bus.Subscribe(events.EventOrphansRemoved, 1)

	env.sync(t, false)

	// A non-pointer file beside a pointer must survive.
	extra := env.path("Movies", "Heat (1995)", "poster.jpg")
	require.NoError(t, os.WriteFile(extra, []byte("x"), 0644))

	env.catalog.mu.Lock()
	env.catalog.movies[1] = env.catalog.movies[1][:1] // drop Heat
	env.catalog.movies[2] = nil                       // drop Drive
	env.catalog.mu.Unlock()

	res := env.sync(t, false)

	assert.Equal(t, 2, res.OrphansDeleted)
	assert.Equal(t, 2, res.Delta.Removed)
	assert.NoFileExists(t, env.path("Movies", "Heat (1995)", "Heat (1995).strm"))
	assert.FileExists(t, extra)
	assert.NoDirExists(t, env.path("Movies", "Drive (2011)"))
	assert.DirExists(t, env.path("Movies"))
	assert.FileExists(t, env.path("Movies", "The Matrix (1999)", "The Matrix (1999).strm"))

	select {
	case e := <-removed:
		ev, ok := e.(*events.OrphansRemoved)
		require.True(t, ok)
		assert.Equal(t, 2, ev.Count)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for orphans event")
	}
}

func TestSync_PrunesUpToRootOnly(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.SyncSeries = false })
	env.sync(t, false)

	env.catalog.mu.Lock()
	env.catalog.movies = map[int][]catalog.Movie{}
	env.catalog.mu.Unlock()

	res := env.sync(t, false)
	assert.Equal(t, 3, res.OrphansDeleted)
	assert.Empty(t, pointerFiles(t, env.root))
	assert.DirExists(t, env.root)
}

func TestSync_CleanupDisabledKeepsOrphans(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.CleanupOrphans = false })
	env.sync(t, false)

	env.catalog.mu.Lock()
	env.catalog.movies[2] = nil
	env.catalog.mu.Unlock()

	res := env.sync(t, false)
	assert.Zero(t, res.OrphansDeleted)
	assert.FileExists(t, env.path("Movies", "Drive (2011)", "Drive (2011).strm"))
}

func TestSync_DisabledKindIsNotCleaned(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	cfg := testConfig(env.root)
	cfg.SyncSeries = false
	s := syncer.New(cfg, env.catalog, env.store, nil)

	res, err := s.Sync(context.Background(), syncer.Request{})
	require.NoError(t, err)
	assert.Zero(t, res.OrphansDeleted)
	assert.FileExists(t, env.path("Series", "Breaking Bad", "Season 01", "Breaking Bad - S01E01 - Pilot.strm"))
}

func TestSync_DuplicateAcrossCategoriesProcessedOnce(t *testing.T) {
	env := newTestEnv(t, nil)
	env.catalog.movies[2] = append(env.catalog.movies[2], env.catalog.movies[1][0])

	res := env.sync(t, false)
	assert.Equal(t, 3, res.MoviesCreated)
	assert.Zero(t, res.MoviesSkipped)
}

func TestSync_MissingConfiguredCategory(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) {
		c.MovieCategories = []int{2, 99}
	})

	res := env.sync(t, false)
	assert.Equal(t, []int{99}, res.MissingCategories)
	assert.Equal(t, 1, res.MoviesCreated)
	assert.NoDirExists(t, env.path("Movies", "Heat (1995)"))
}

func TestSync_CategoryFolderMode(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.FolderMode = naming.FolderCategory })

	env.sync(t, false)
	assert.FileExists(t, env.path("Movies", "Action", "The Matrix (1999)", "The Matrix (1999).strm"))
	assert.FileExists(t, env.path("Series", "Crime TV", "Breaking Bad", "Season 01", "Breaking Bad - S01E01 - Pilot.strm"))
}

func TestSync_NotConfiguredLeavesFilesystemUntouched(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.Credentials = catalog.Credentials{} })

	res, err := env.syncer.Sync(context.Background(), syncer.Request{})
	require.ErrorIs(t, err, syncer.ErrNotConfigured)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, syncer.OutcomeFailed, res.Outcome())
	assert.NotEmpty(t, res.Error)
	assert.NoDirExists(t, env.root)
	assert.False(t, env.syncer.Progress().Running)

	infos, err := env.store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSync_CatalogErrorFailsRun(t *testing.T) {
	env := newTestEnv(t, nil)
	env.catalog.catErr = errors.New("connection refused")

	res, err := env.syncer.Sync(context.Background(), syncer.Request{})
	require.Error(t, err)

	var catErr *syncer.CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, syncer.PhaseCollecting, catErr.Phase)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "connection refused")
	assert.Empty(t, pointerFiles(t, env.root))

	infos, err := env.store.List()
	require.NoError(t, err)
	assert.Empty(t, infos, "failed runs do not snapshot")
}

func TestSync_SeriesInfoErrorIsCountedAndProtectsFiles(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	env.catalog.mu.Lock()
	env.catalog.infoErr[501] = errors.New("bad gateway")
	env.catalog.mu.Unlock()

	res := env.sync(t, true)

	assert.True(t, res.Success)
	assert.Equal(t, syncer.OutcomeSucceededWithErrors, res.Outcome())
	assert.Equal(t, 1, res.Errors)
	assert.Zero(t, res.OrphansDeleted)
	assert.FileExists(t, env.path("Series", "Breaking Bad", "Season 01", "Breaking Bad - S01E01 - Pilot.strm"))
}

func TestSync_ItemWriteErrorDoesNotAbort(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.SyncSeries = false })
	// A regular file where a movie folder must go makes that write fail.
	require.NoError(t, os.MkdirAll(env.path("Movies"), 0755))
	require.NoError(t, os.WriteFile(env.path("Movies", "Drive (2011)"), []byte("x"), 0644))

	res := env.sync(t, false)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 2, res.MoviesCreated)
}

func TestSync_RejectsConcurrentRunAndCancels(t *testing.T) {
	env := newTestEnv(t, nil)
	env.catalog.block = true

	type outcome struct {
		res *syncer.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := env.syncer.Sync(context.Background(), syncer.Request{})
		done <- outcome{res, err}
	}()

	select {
	case <-env.catalog.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("sync never reached the catalog")
	}

	assert.True(t, env.syncer.Running())
	assert.True(t, env.syncer.Progress().Running)

	res, err := env.syncer.Sync(context.Background(), syncer.Request{})
	assert.ErrorIs(t, err, syncer.ErrSyncInProgress)
	assert.Nil(t, res)

	assert.True(t, env.syncer.Cancel())

	select {
	case out := <-done:
		require.ErrorIs(t, out.err, syncer.ErrCancelled)
		assert.True(t, out.res.Cancelled)
		assert.False(t, out.res.Success)
		assert.Equal(t, syncer.OutcomeCancelled, out.res.Outcome())
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not stop after cancel")
	}

	progress := env.syncer.Progress()
	assert.False(t, progress.Running)
	assert.Equal(t, syncer.PhaseCancelled, progress.Phase)
	assert.False(t, env.syncer.Cancel(), "nothing left to cancel")
}

func TestStart_RunsInBackground(t *testing.T) {
	env := newTestEnv(t, nil)
	env.catalog.block = true

	require.NoError(t, env.syncer.Start(context.Background(), syncer.Request{Full: true}))
	assert.True(t, env.syncer.Running(), "running flag is held before Start returns")
	assert.ErrorIs(t, env.syncer.Start(context.Background(), syncer.Request{}), syncer.ErrSyncInProgress)

	select {
	case <-env.catalog.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("background sync never reached the catalog")
	}
	require.True(t, env.syncer.Cancel())

	require.Eventually(t, func() bool { return !env.syncer.Running() }, 5*time.Second, 10*time.Millisecond)
	res := env.syncer.LastResult()
	require.NotNil(t, res)
	assert.True(t, res.Cancelled)
	assert.True(t, res.Full)
}

// blockingFS holds the first pointer write until release is closed.
type blockingFS struct {
	syncer.OSFileSystem
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	writes  atomic.Int32
}

func newBlockingFS() *blockingFS {
	return &blockingFS{entered: make(chan struct{}), release: make(chan struct{})}
}

func (f *blockingFS) WriteFile(path string, data []byte) error {
	f.writes.Add(1)
	f.once.Do(func() { close(f.entered) })
	<-f.release
	return f.OSFileSystem.WriteFile(path, data)
}

func TestSync_CancelDuringWrites(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func(*syncer.Config)
		setup func(*fakeCatalog)
		phase syncer.Phase
		// items finished before the cancel took effect
		processed int
	}{
		{
			name:      "movies",
			cfg:       func(c *syncer.Config) { c.SyncSeries = false },
			phase:     syncer.PhaseSyncingMovies,
			processed: 1,
		},
		{
			name: "series",
			cfg:  func(c *syncer.Config) { c.SyncMovies = false },
			setup: func(f *fakeCatalog) {
				for _, id := range []int{502, 503} {
					f.series[10] = append(f.series[10], catalog.Series{SeriesID: id, Name: "Show " + strconv.Itoa(id), CategoryID: 10})
					f.infos[id] = &catalog.SeriesInfo{Seasons: map[int][]catalog.Episode{
						1: {{ID: id * 10, EpisodeNum: 1, Season: 1, ContainerExtension: "mkv"}},
					}}
				}
			},
			phase: syncer.PhaseSyncingSeries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := newBlockingFS()
			env := newTestEnv(t, func(c *syncer.Config) {
				tt.cfg(c)
				c.MaxConcurrency = 1
			}, syncer.WithFileSystem(fsys))
			if tt.setup != nil {
				tt.setup(env.catalog)
			}

			type outcome struct {
				res *syncer.Result
				err error
			}
			done := make(chan outcome, 1)
			go func() {
				res, err := env.syncer.Sync(context.Background(), syncer.Request{})
				done <- outcome{res, err}
			}()

			select {
			case <-fsys.entered:
			case <-time.After(5 * time.Second):
				t.Fatal("sync never reached a pointer write")
			}
			assert.Equal(t, tt.phase, env.syncer.Progress().Phase)
			require.True(t, env.syncer.Cancel())
			close(fsys.release)

			select {
			case out := <-done:
				require.ErrorIs(t, out.err, syncer.ErrCancelled)
				assert.True(t, out.res.Cancelled)
			case <-time.After(5 * time.Second):
				t.Fatal("sync did not stop after cancel")
			}

			assert.Equal(t, int32(1), fsys.writes.Load(), "no writes start after cancel")
			assert.Len(t, pointerFiles(t, env.root), 1)
			progress := env.syncer.Progress()
			assert.False(t, progress.Running)
			assert.Equal(t, syncer.PhaseCancelled, progress.Phase)
			assert.Equal(t, tt.processed, progress.Processed)
			assert.False(t, env.syncer.Running())

			snap, err := env.store.LoadLatest(context.Background())
			require.NoError(t, err)
			assert.Nil(t, snap, "cancelled runs leave no snapshot")
		})
	}
}

func TestStart_CancellableAsSoonAsStarted(t *testing.T) {
	env := newTestEnv(t, nil)
	env.catalog.block = true

	for i := range 20 {
		require.NoError(t, env.syncer.Start(context.Background(), syncer.Request{}))
		require.True(t, env.syncer.Cancel(), "run %d", i)
		require.Eventually(t, func() bool { return !env.syncer.Running() }, 5*time.Second, 5*time.Millisecond)
		assert.True(t, env.syncer.LastResult().Cancelled, "run %d", i)
	}
}

func TestSync_CancelledContext(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := env.syncer.Sync(ctx, syncer.Request{})
	require.ErrorIs(t, err, syncer.ErrCancelled)
	assert.True(t, res.Cancelled)
	assert.False(t, env.syncer.Progress().Running)
}

func TestSync_RescanOnlyWhenChanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	scanner := mocks.NewMockLibraryScanner(ctrl)
	scanner.EXPECT().Scan(gomock.Any()).Return(nil).Times(1)

	env := newTestEnv(t, nil, syncer.WithScanner(scanner))
	env.sync(t, false)
	env.sync(t, false)
}

func TestSync_RescanFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	scanner := mocks.NewMockLibraryScanner(ctrl)
	scanner.EXPECT().Scan(gomock.Any()).Return(errors.New("plex down"))

	env := newTestEnv(t, nil, syncer.WithScanner(scanner))
	res := env.sync(t, false)
	assert.True(t, res.Success)
}

func TestSync_SnapshotSaveFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().LoadLatest(gomock.Any()).Return(nil, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", errors.New("disk full"))

	root := filepath.Join(t.TempDir(), "library")
	s := syncer.New(testConfig(root), newFakeCatalog(), store, nil)

	res, err := s.Sync(context.Background(), syncer.Request{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "disk full", res.SnapshotError)
	assert.Empty(t, res.SnapshotPath)
}

func TestSync_SnapshotRecordsCatalog(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	snap, err := env.store.LoadLatest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Metadata.IsComplete)
	assert.Len(t, snap.Movies, 3)
	require.Contains(t, snap.Series, 501)
	assert.Equal(t, 2, snap.Series[501].EpisodeCount)
	assert.Equal(t, "http://provider.test:8080", snap.ProviderIdentity)

	// A smart-skipped run carries the episode count forward.
	env.sync(t, false)
	snap, err = env.store.LoadLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Series[501].EpisodeCount)
}

func TestSync_ProviderChangeDiscardsBaseline(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	cfg := testConfig(env.root)
	cfg.Credentials.BaseURL = "http://mirror.test"
	s := syncer.New(cfg, env.catalog, env.store, nil)

	res, err := s.Sync(context.Background(), syncer.Request{})
	require.NoError(t, err)
	assert.True(t, res.Full)
	assert.Equal(t, 3, res.MoviesUpdated)
	assert.Equal(t, 2, res.EpisodesUpdated)
	assert.Equal(t, "http://mirror.test/movie/user/pass/201.mp4",
		readFile(t, env.path("Movies", "Drive (2011)", "Drive (2011).strm")))
}

func TestSync_ThresholdForcesFull(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.Policy.ChangeThreshold = 10 })
	env.sync(t, false)

	env.catalog.mu.Lock()
	env.catalog.movies[2] = nil
	env.catalog.mu.Unlock()

	res := env.sync(t, false)
	assert.True(t, res.Full)
	assert.Contains(t, res.FullReason, "threshold")
	assert.Equal(t, 2, env.catalog.calls(501), "full sync refetches series")
}

func TestSync_IntervalUsesRecordedLastFull(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync(t, false)

	tests := []struct {
		name     string
		lastFull time.Time
		wantFull bool
	}{
		{"stale", time.Now().Add(-48 * time.Hour), true},
		{"recent", time.Now().Add(-time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			recorder := mocks.NewMockResultRecorder(ctrl)
			recorder.EXPECT().LastFullSync(gomock.Any()).Return(tt.lastFull, nil)
			recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

			cfg := testConfig(env.root)
			cfg.Policy.FullSyncInterval = 24 * time.Hour
			s := syncer.New(cfg, env.catalog, env.store, nil, syncer.WithRecorder(recorder))

			res, err := s.Sync(context.Background(), syncer.Request{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantFull, res.Full, res.FullReason)
		})
	}
}

func TestSync_IncrementalDisabled(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.Incremental = false })

	res := env.sync(t, false)
	assert.True(t, res.Full)
	assert.Equal(t, "incremental disabled", res.FullReason)
	assert.Equal(t, 3, res.MoviesCreated)
	assert.Equal(t, 1, env.catalog.calls(501))

	env.catalog.mu.Lock()
	env.catalog.series[10][0].LastModified = "1700009999"
	env.catalog.infos[501].Seasons[2] = []catalog.Episode{{ID: 9101, Title: "Seven Thirty-Seven", EpisodeNum: 1, Season: 2, ContainerExtension: "mkv"}}
	env.catalog.mu.Unlock()

	// Every pass is full, so the changed series is refetched and later passes
	// keep refetching rather than trusting what is on disk.
	for i := range 3 {
		res = env.sync(t, false)
		assert.True(t, res.Full, "pass %d", i)
		assert.Zero(t, res.SeriesSkipped, "pass %d", i)
	}
	assert.Equal(t, 4, env.catalog.calls(501))
	assert.FileExists(t, env.path("Series", "Breaking Bad", "Season 02", "Breaking Bad - S02E01 - Seven Thirty-Seven.strm"))
	assert.Zero(t, res.EpisodesCreated, "episode was written on the first pass after the change")
}

func TestSync_NameCollisionFirstItemWins(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.SyncSeries = false })
	env.catalog.movies = map[int][]catalog.Movie{
		1: {
			{StreamID: 301, Name: "Same (2000)", ContainerExtension: "mkv", CategoryID: 1},
			{StreamID: 302, Name: "Same (2000)", ContainerExtension: "mp4", CategoryID: 1},
			{StreamID: 303, Name: "| EN | Same (2000)", ContainerExtension: "avi", CategoryID: 1},
		},
	}
	want := catalog.StreamURL(testConfig("").Credentials, catalog.KindMovie, 301, "mkv")
	pointer := env.path("Movies", "Same (2000)", "Same (2000).strm")

	res := env.sync(t, false)
	assert.Equal(t, 1, res.MoviesCreated)
	assert.Equal(t, 2, res.MoviesSkipped)
	assert.Equal(t, want, readFile(t, pointer))

	// A full pass verifies content; the losers must not overwrite the winner.
	res = env.sync(t, true)
	assert.Zero(t, res.MoviesUpdated)
	assert.Equal(t, 3, res.MoviesSkipped)
	assert.False(t, res.Changed())
	assert.Equal(t, want, readFile(t, pointer))
	assert.Len(t, pointerFiles(t, env.root), 1)
}

func TestSync_SeriesFolderCollisionFirstSeriesWins(t *testing.T) {
	env := newTestEnv(t, func(c *syncer.Config) { c.SyncMovies = false })
	env.catalog.series[10] = append(env.catalog.series[10], catalog.Series{SeriesID: 502, Name: "Breaking Bad", CategoryID: 10})
	env.catalog.infos[502] = &catalog.SeriesInfo{Seasons: map[int][]catalog.Episode{
		1: {{ID: 9901, Title: "Impostor", EpisodeNum: 1, Season: 1, ContainerExtension: "mp4"}},
	}}

	res := env.sync(t, true)

	assert.Equal(t, 2, res.EpisodesCreated)
	assert.Equal(t, 1, res.SeriesSkipped)
	assert.Zero(t, env.catalog.calls(502))
	want := catalog.StreamURL(testConfig("").Credentials, catalog.KindSeries, 9001, "mkv")
	assert.Equal(t, want, readFile(t, env.path("Series", "Breaking Bad", "Season 01", "Breaking Bad - S01E01 - Pilot.strm")))
}

func TestSync_PublishesLifecycleEvents(t *testing.T) {
	bus := events.NewBus(nil, nil)
	t.Cleanup(func() { _ = bus.Close() })
	all := bus.SubscribeAll(10)

	env := newTestEnv(t, nil, syncer.WithPublisher(bus))
	env.sync(t, false)

	var types []string
	for len(types) < 3 {
		select {
		case e := <-all:
			types = append(types, e.EventType())
		case <-time.After(time.Second):
			t.Fatalf("timeout, got %v", types)
		}
	}
	assert.Equal(t, []string{events.EventSyncStarted, events.EventSnapshotSaved, events.EventSyncCompleted}, types)
}

func TestConfig_Concurrency(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, syncer.DefaultConcurrency},
		{-3, 1},
		{1, 1},
		{7, 7},
		{20, 20},
		{500, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, syncer.Config{MaxConcurrency: tt.in}.Concurrency(), "input %d", tt.in)
	}
}

func TestConfig_FingerprintTracksLayout(t *testing.T) {
	a := testConfig("/lib")
	b := testConfig("/lib")
	b.MaxConcurrency = 19
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "concurrency does not shape the tree")

	b.FolderMode = naming.FolderCategory
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
