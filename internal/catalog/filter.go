package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// FilterCategories keeps the categories whose ID is in allow. An empty allow
// list keeps everything. Configured IDs that the provider no longer lists are
// returned in missing, in the order they were configured.
func FilterCategories(all []Category, allow []int) (kept []Category, missing []int) {
	if len(allow) == 0 {
		return all, nil
	}

	wanted := make(map[int]bool, len(allow))
	for _, id := range allow {
		wanted[id] = true
	}

	present := make(map[int]bool, len(all))
	for _, c := range all {
		present[c.ID] = true
		if wanted[c.ID] {
			kept = append(kept, c)
		}
	}

	seen := make(map[int]bool, len(allow))
	for _, id := range allow {
		if !present[id] && !seen[id] {
			missing = append(missing, id)
		}
		seen[id] = true
	}
	return kept, missing
}

// CategoryMatch is a category ranked against a free-text query.
type CategoryMatch struct {
	Category Category
	Score    float64
}

// MatchCategories ranks categories by Jaro-Winkler similarity to query and
// returns those scoring at least threshold, best first. A category whose name
// contains the query as a substring always matches with score 1.
func MatchCategories(all []Category, query string, threshold float64) []CategoryMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []CategoryMatch
	for _, c := range all {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		score := float64(edlib.JaroWinklerSimilarity(q, name))
		if strings.Contains(name, q) {
			score = 1
		}
		if score >= threshold {
			matches = append(matches, CategoryMatch{Category: c, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Category.ID < matches[j].Category.ID
	})
	return matches
}

// NameIndex maps category IDs to display names.
func NameIndex(cats []Category) map[int]string {
	idx := make(map[int]string, len(cats))
	for _, c := range cats {
		idx[c.ID] = c.Name
	}
	return idx
}

// StreamURL builds the playable provider URL written into a pointer file.
func StreamURL(creds Credentials, kind Kind, id int, ext string) string {
	segment := "movie"
	if kind == KindSeries {
		segment = "series"
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "mp4"
	}
	return fmt.Sprintf("%s/%s/%s/%s/%d.%s", creds.Identity(), segment, creds.Username, creds.Password, id, ext)
}
