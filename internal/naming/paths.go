package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PointerExt is the extension of every pointer file the engine writes.
const PointerExt = ".strm"

// FolderMode controls how items are grouped under the library root.
type FolderMode string

const (
	// FolderSingle puts every item directly under Movies/ or Series/.
	FolderSingle FolderMode = "single"
	// FolderCategory adds one subfolder per provider category.
	FolderCategory FolderMode = "category"
)

// Valid reports whether m is a known folder mode.
func (m FolderMode) Valid() bool {
	return m == FolderSingle || m == FolderCategory
}

const (
	moviesDir = "Movies"
	seriesDir = "Series"
)

// genericEpisodeTitle matches provider auto-titles like "Episode 3".
var genericEpisodeTitle = regexp.MustCompile(`^Episode \d+$`)

// Layout computes target paths under a library root.
type Layout struct {
	Root string
	Mode FolderMode
}

// NewLayout creates a Layout. Unknown modes fall back to FolderSingle.
func NewLayout(root string, mode FolderMode) Layout {
	if !mode.Valid() {
		mode = FolderSingle
	}
	return Layout{Root: filepath.Clean(root), Mode: mode}
}

// MoviePath returns the pointer file path for a movie:
// Movies/[Category/]Name (YYYY)/Name (YYYY).strm
func (l Layout) MoviePath(name, categoryName string) string {
	folder := FolderName(name)
	return filepath.Join(l.base(moviesDir, categoryName), folder, folder+PointerExt)
}

// SeriesFolder returns the folder holding every season of a series.
func (l Layout) SeriesFolder(name, categoryName string) string {
	return filepath.Join(l.base(seriesDir, categoryName), FolderName(name))
}

// EpisodePath returns the pointer file path for an episode inside seriesFolder.
func (l Layout) EpisodePath(seriesFolder, seriesName string, season, episode int, title string) string {
	return filepath.Join(seriesFolder, SeasonFolder(season), EpisodeFileName(seriesName, season, episode, title))
}

// MoviesRoot is the top-level movies folder.
func (l Layout) MoviesRoot() string {
	return filepath.Join(l.Root, moviesDir)
}

// SeriesRoot is the top-level series folder.
func (l Layout) SeriesRoot() string {
	return filepath.Join(l.Root, seriesDir)
}

func (l Layout) base(kindDir, categoryName string) string {
	if l.Mode == FolderCategory {
		return filepath.Join(l.Root, kindDir, Sanitize(categoryName))
	}
	return filepath.Join(l.Root, kindDir)
}

// SeasonFolder returns "Season 01" style folder names.
func SeasonFolder(season int) string {
	return fmt.Sprintf("Season %02d", season)
}

// EpisodeFileName builds "{Series} - S01E02.strm" or, when the episode has a
// meaningful title, "{Series} - S01E02 - {Title}.strm".
func EpisodeFileName(seriesName string, season, episode int, title string) string {
	base := fmt.Sprintf("%s - S%02dE%02d", FolderName(seriesName), season, episode)

	title = strings.TrimSpace(normalize(title))
	if title != "" && !genericEpisodeTitle.MatchString(title) {
		if clean := Sanitize(title); clean != Unknown {
			base += " - " + clean
		}
	}
	return base + PointerExt
}
