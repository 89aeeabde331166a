package syncer_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/naming"
	"github.com/vmunix/strmsync/internal/snapshot"
	"github.com/vmunix/strmsync/internal/syncer"
)

// fakeCatalog is an in-memory provider. Safe for concurrent use.
type fakeCatalog struct {
	mu         sync.Mutex
	movieCats  []catalog.Category
	seriesCats []catalog.Category
	movies     map[int][]catalog.Movie
	series     map[int][]catalog.Series
	infos      map[int]*catalog.SeriesInfo
	infoErr    map[int]error
	catErr     error
	infoCalls  map[int]int

	// When block is set, MoviesInCategory signals entered and waits for the
	// context to end.
	block   bool
	entered chan struct{}
	once    sync.Once
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		movieCats:  []catalog.Category{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}},
		seriesCats: []catalog.Category{{ID: 10, Name: "Crime TV"}},
		movies: map[int][]catalog.Movie{
			1: {
				{StreamID: 101, Name: "The Matrix (1999)", ContainerExtension: "mkv", CategoryID: 1, Icon: "http://img/1.jpg"},
				{StreamID: 102, Name: "| EN | Heat (1995)", ContainerExtension: "mp4", CategoryID: 1},
			},
			2: {
				{StreamID: 201, Name: "Drive (2011)", ContainerExtension: "mp4", CategoryID: 2},
			},
		},
		series: map[int][]catalog.Series{
			10: {{SeriesID: 501, Name: "Breaking Bad", CategoryID: 10, LastModified: "1700000000"}},
		},
		infos: map[int]*catalog.SeriesInfo{
			501: {Seasons: map[int][]catalog.Episode{
				1: {
					{ID: 9001, Title: "Pilot", EpisodeNum: 1, Season: 1, ContainerExtension: "mkv"},
					{ID: 9002, Title: "Episode 2", EpisodeNum: 2, Season: 1, ContainerExtension: "mkv"},
				},
			}},
		},
		infoErr:   map[int]error{},
		infoCalls: map[int]int{},
		entered:   make(chan struct{}),
	}
}

func (f *fakeCatalog) MovieCategories(ctx context.Context) ([]catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.catErr != nil {
		return nil, f.catErr
	}
	return append([]catalog.Category(nil), f.movieCats...), nil
}

func (f *fakeCatalog) SeriesCategories(ctx context.Context) ([]catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.catErr != nil {
		return nil, f.catErr
	}
	return append([]catalog.Category(nil), f.seriesCats...), nil
}

func (f *fakeCatalog) MoviesInCategory(ctx context.Context, categoryID int) ([]catalog.Movie, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block {
		f.once.Do(func() { close(f.entered) })
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Movie(nil), f.movies[categoryID]...), nil
}

func (f *fakeCatalog) SeriesInCategory(ctx context.Context, categoryID int) ([]catalog.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Series(nil), f.series[categoryID]...), nil
}

func (f *fakeCatalog) SeriesInfo(ctx context.Context, seriesID int) (*catalog.SeriesInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls[seriesID]++
	if err := f.infoErr[seriesID]; err != nil {
		return nil, err
	}
	return f.infos[seriesID], nil
}

func (f *fakeCatalog) calls(seriesID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoCalls[seriesID]
}

func testConfig(root string) syncer.Config {
	return syncer.Config{
		Credentials:    catalog.Credentials{BaseURL: "http://provider.test:8080/", Username: "user", Password: "pass"},
		LibraryRoot:    root,
		FolderMode:     naming.FolderSingle,
		SyncMovies:     true,
		SyncSeries:     true,
		MaxConcurrency: 4,
		CleanupOrphans: true,
		SmartSkip:      true,
		Incremental:    true,
	}
}

// testEnv bundles a syncer with its library root and snapshot store.
type testEnv struct {
	root    string
	store   *snapshot.Store
	catalog *fakeCatalog
	syncer  *syncer.Syncer
}

func newTestEnv(t *testing.T, cfg func(*syncer.Config), opts ...syncer.Option) *testEnv {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "library")
	c := testConfig(root)
	if cfg != nil {
		cfg(&c)
	}
	cat := newFakeCatalog()
	store := snapshot.NewStore(filepath.Join(dir, "data"), nil)
	return &testEnv{
		root:    root,
		store:   store,
		catalog: cat,
		syncer:  syncer.New(c, cat, store, nil, opts...),
	}
}

func (e *testEnv) sync(t *testing.T, full bool) *syncer.Result {
	t.Helper()
	res, err := e.syncer.Sync(context.Background(), syncer.Request{Full: full})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func (e *testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.root}, parts...)...)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// pointerFiles lists every .strm file under root, relative to it.
func pointerFiles(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == naming.PointerExt {
			rel, _ := filepath.Rel(root, path)
			out = append(out, rel)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}
