package naming

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Movie Name", "Movie Name"},
		{"path separators", "AC/DC\\Live", "AC_DC_Live"},
		{"illegal chars", `Movie: The *Best* <One>`, "Movie_ The _Best_ _One"},
		{"collapse underscores", "a???b", "a_b"},
		{"trim underscores and spaces", " _Name_ ", "Name"},
		{"null bytes", "Movie\x00Name", "Movie_Name"},
		{"empty", "", Unknown},
		{"only illegal", "???", Unknown},
		{"only dots", "..", Unknown},
		{"full width letters", "Ｍｏｖｉｅ", "Movie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input), "Sanitize(%q)", tt.input)
		})
	}
}

func TestParseAt(t *testing.T) {
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		input      string
		wantName   string
		wantYear   int
		wantFolder string
	}{
		{"tagged with year", "Breaking Bad (2008) | EN |", "Breaking Bad", 2008, "Breaking Bad (2008)"},
		{"full width bars", "Amélie (2001) ｜FR｜", "Amélie", 2001, "Amélie (2001)"},
		{"bracket tag", "[DE] Dark (2017)", "Dark", 2017, "Dark (2017)"},
		{"no year", "The Office | US |", "The Office", 0, "The Office"},
		{"year too old", "Old Film (1850)", "Old Film (1850)", 0, "Old Film (1850)"},
		{"year too far ahead", "Future (2040)", "Future (2040)", 0, "Future (2040)"},
		{"year upper bound", "Soon (2031)", "Soon", 2031, "Soon (2031)"},
		{"year not trailing", "1917 (2019) Extended", "1917 (2019) Extended", 0, "1917 (2019) Extended"},
		{"lowercase pipe not a tag", "This|That", "This_That", 0, "This_That"},
		{"four letter tag kept", "Film [UHDR]", "Film [UHDR]", 0, "Film [UHDR]"},
		{"empty after tags", "| EN |", Unknown, 0, Unknown},
		{"illegal with year", "Mission: Impossible (1996)", "Mission_ Impossible", 1996, "Mission_ Impossible (1996)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAt(tt.input, now)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantYear, got.Year)
			assert.Equal(t, tt.wantFolder, got.Folder())
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	in := "Breaking Bad (2008) | EN |"
	assert.Equal(t, Parse(in), Parse(in))
	assert.Equal(t, "Breaking Bad (2008)", FolderName(in))
}

func TestValidatePath(t *testing.T) {
	root := "/library"

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid subpath", "/library/Movies/A (2000)/A (2000).strm", false},
		{"exact root", "/library", false},
		{"traversal attempt", "/library/../etc/passwd", true},
		{"outside root", "/other/file.strm", true},
		{"sibling prefix", "/library2/file.strm", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(filepath.FromSlash(tt.path), filepath.FromSlash(root))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathTraversal)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
