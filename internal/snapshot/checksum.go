package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/vmunix/strmsync/internal/catalog"
)

// MovieChecksum digests the fields that identify a movie's content: name,
// container extension and category. Artwork URLs and the stream ID are not
// part of the digest.
func MovieChecksum(m catalog.Movie) string {
	return digest("movie", m.Name, m.ContainerExtension, strconv.Itoa(m.CategoryID))
}

// SeriesChecksum digests name, category and the provider's last-modified
// marker, so new episodes surface as a modified series. The cover URL and
// series ID are not part of the digest.
func SeriesChecksum(s catalog.Series) string {
	return digest("series", s.Name, strconv.Itoa(s.CategoryID), s.LastModified)
}

// digest hashes length-prefixed fields so ("ab","c") and ("a","bc") differ.
func digest(fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(strconv.Itoa(len(f))))
		h.Write([]byte{':'})
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintInput is the sync-relevant subset of configuration. Changing any
// of these invalidates the previous snapshot as a baseline.
type FingerprintInput struct {
	FolderMode       string
	MovieCategories  []int
	SeriesCategories []int
	SyncMovies       bool
	SyncSeries       bool
	MetadataLookup   bool
	SmartSkip        bool
}

// ConfigFingerprint returns a stable digest of in. Category lists are treated
// as sets, so order and duplicates do not matter.
func ConfigFingerprint(in FingerprintInput) string {
	canonical := struct {
		FolderMode       string `json:"folder_mode"`
		MovieCategories  []int  `json:"movie_categories"`
		SeriesCategories []int  `json:"series_categories"`
		SyncMovies       bool   `json:"sync_movies"`
		SyncSeries       bool   `json:"sync_series"`
		MetadataLookup   bool   `json:"metadata_lookup"`
		SmartSkip        bool   `json:"smart_skip"`
	}{
		FolderMode:       strings.ToLower(strings.TrimSpace(in.FolderMode)),
		MovieCategories:  sortedSet(in.MovieCategories),
		SeriesCategories: sortedSet(in.SeriesCategories),
		SyncMovies:       in.SyncMovies,
		SyncSeries:       in.SyncSeries,
		MetadataLookup:   in.MetadataLookup,
		SmartSkip:        in.SmartSkip,
	}

	// Marshal of a struct with fixed field order cannot fail.
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sortedSet(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
