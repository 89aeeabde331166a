package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// DirName is the hidden subdirectory of the data path holding snapshots.
	DirName = ".snapshots"
	// DefaultRetention is how many snapshot files are kept after a save.
	DefaultRetention = 3

	filePrefix = "snapshot_"
	fileSuffix = ".json"
	// timeLayout sorts lexicographically in chronological order.
	timeLayout = "20060102T150405.000Z"
)

// Info describes a persisted snapshot file.
type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SavedAt   time.Time `json:"saved_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// Store reads and writes snapshots under <dataPath>/.snapshots.
type Store struct {
	dir       string
	retention int
	now       func() time.Time
	log       *slog.Logger

	// mu linearizes saves and the retention pass that follows each save.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithRetention sets how many snapshots survive the cleanup after a save.
func WithRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithClock sets the clock used to name snapshot files.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store rooted at dataPath.
func NewStore(dataPath string, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		dir:       filepath.Join(dataPath, DirName),
		retention: DefaultRetention,
		now:       time.Now,
		log:       logger.With("component", "snapshot"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory snapshots are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes snap to a new timestamped file and prunes old snapshots.
// It returns the path written. Write errors are returned to the caller;
// retention failures are logged only.
func (s *Store) Save(ctx context.Context, snap *Snapshot) (string, error) {
	if snap == nil {
		return "", errors.New("save snapshot: nil snapshot")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path, err := s.nextPath()
	if err != nil {
		return "", err
	}
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	s.log.Info("snapshot saved",
		"path", path,
		"movies", len(snap.Movies),
		"series", len(snap.Series),
		"complete", snap.Metadata.IsComplete)

	if err := s.prune(); err != nil {
		s.log.Warn("snapshot retention cleanup failed", "error", err)
	}
	return path, nil
}

// nextPath returns a file name for the current instant that does not exist
// yet, advancing by one millisecond on collision. Callers hold s.mu.
func (s *Store) nextPath() (string, error) {
	ts := s.now().UTC().Truncate(time.Millisecond)

	files, err := s.files()
	if err != nil {
		return "", err
	}
	if len(files) > 0 {
		// Never sort before the newest existing file, even if the clock stepped back.
		if last, ok := parseName(files[len(files)-1]); ok && !ts.After(last) {
			ts = last.Add(time.Millisecond)
		}
	}

	for {
		path := filepath.Join(s.dir, fileName(ts))
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("stat snapshot: %w", err)
		}
		ts = ts.Add(time.Millisecond)
	}
}

// prune removes all but the newest retention files. Callers hold s.mu.
func (s *Store) prune() error {
	files, err := s.files()
	if err != nil {
		return err
	}
	if len(files) <= s.retention {
		return nil
	}

	var errs []error
	for _, name := range files[:len(files)-s.retention] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		s.log.Debug("pruned snapshot", "name", name)
	}
	return errors.Join(errs...)
}

// LoadLatest returns the newest snapshot, or nil when there is none usable:
// no files, the newest file is unreadable or malformed, or it is marked
// incomplete. Only directory listing failures are returned as errors.
func (s *Store) LoadLatest(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := s.files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	name := files[len(files)-1]
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("snapshot unreadable, ignoring", "path", path, "error", err)
		return nil, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("snapshot corrupt, ignoring", "path", path, "error", err)
		return nil, nil
	}
	if snap.Version > CurrentVersion {
		s.log.Warn("snapshot from newer format, ignoring", "path", path, "version", snap.Version)
		return nil, nil
	}
	if !snap.Metadata.IsComplete {
		s.log.Info("latest snapshot incomplete, ignoring", "path", path)
		return nil, nil
	}
	if snap.Movies == nil {
		snap.Movies = make(map[int]MovieRecord)
	}
	if snap.Series == nil {
		snap.Series = make(map[int]SeriesRecord)
	}
	return &snap, nil
}

// List returns persisted snapshots, oldest first.
func (s *Store) List() ([]Info, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(files))
	for _, name := range files {
		path := filepath.Join(s.dir, name)
		st, err := os.Stat(path)
		if err != nil {
			continue
		}
		savedAt, _ := parseName(name)
		infos = append(infos, Info{
			Name:      name,
			Path:      path,
			SavedAt:   savedAt,
			SizeBytes: st.Size(),
		})
	}
	return infos, nil
}

// files returns snapshot file names sorted oldest first. A missing directory
// yields an empty list.
func (s *Store) files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func fileName(ts time.Time) string {
	return filePrefix + ts.UTC().Format(timeLayout) + fileSuffix
}

func parseName(name string) (time.Time, bool) {
	raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	ts, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// writeAtomic writes data to a temp file in the same directory and renames
// it into place so readers never see a partial snapshot.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-snapshot-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
