// Package naming turns provider titles into deterministic library paths.
package naming

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ErrPathTraversal is returned when a computed path escapes the library root.
var ErrPathTraversal = errors.New("path escapes library root")

// Unknown replaces names that sanitize to nothing.
const Unknown = "Unknown"

// languageTag matches 2-3 letter language/country markers such as "| EN |",
// "｜FR｜" or "[DE]".
var languageTag = regexp.MustCompile(`(?:[|｜]\s*[A-Z]{2,3}\s*[|｜])|(?:\[\s*[A-Z]{2,3}\s*\])`)

// trailingYear matches a parenthesized year at the end of a name.
var trailingYear = regexp.MustCompile(`\((\d{4})\)\s*$`)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var multiUnderscore = regexp.MustCompile(`_+`)

var multiSpace = regexp.MustCompile(`\s+`)

// Title is a provider name split into its folder-safe parts.
type Title struct {
	Name string // sanitized base name without year
	Year int    // 0 when absent
}

// Folder returns the canonical folder name, "Name (YYYY)" or "Name".
func (t Title) Folder() string {
	if t.Year == 0 {
		return t.Name
	}
	return t.Name + " (" + strconv.Itoa(t.Year) + ")"
}

// Parse cleans a provider title using the current year for year bounds.
func Parse(raw string) Title {
	return ParseAt(raw, time.Now())
}

// ParseAt cleans a provider title. Language tags are removed, a trailing
// "(YYYY)" within 1900..now+5 is extracted, and the remainder is sanitized.
func ParseAt(raw string, now time.Time) Title {
	s := normalize(raw)
	s = languageTag.ReplaceAllString(s, " ")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))

	var year int
	if m := trailingYear.FindStringSubmatchIndex(s); m != nil {
		y, _ := strconv.Atoi(s[m[2]:m[3]])
		if y >= 1900 && y <= now.Year()+5 {
			year = y
			s = s[:m[0]]
		}
	}

	return Title{Name: Sanitize(s), Year: year}
}

// FolderName is shorthand for Parse(raw).Folder().
func FolderName(raw string) string {
	return Parse(raw).Folder()
}

// Sanitize replaces characters that are illegal in paths with "_", collapses
// runs of "_" and trims "_" and spaces from both ends. An empty result
// becomes Unknown.
func Sanitize(name string) string {
	name = normalize(name)
	name = illegalChars.ReplaceAllString(name, "_")
	name = multiUnderscore.ReplaceAllString(name, "_")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, "_ ")
	if name == "" || strings.Trim(name, ".") == "" {
		return Unknown
	}
	return name
}

// normalize folds full-width forms to ASCII and composes to NFC so the same
// title always produces the same bytes.
func normalize(s string) string {
	return norm.NFC.String(width.Fold.String(s))
}

// ValidatePath ensures the path is within the expected root directory.
func ValidatePath(path, expectedRoot string) error {
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(expectedRoot)

	if cleanPath == cleanRoot {
		return nil
	}
	if !strings.HasSuffix(cleanRoot, string(filepath.Separator)) {
		cleanRoot += string(filepath.Separator)
	}
	if !strings.HasPrefix(cleanPath, cleanRoot) {
		return ErrPathTraversal
	}
	return nil
}
