// Package catalog defines the provider catalog model and the client contract
// the sync engine consumes.
package catalog

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks . Client

import (
	"context"
	"sort"
	"strings"
)

// Kind distinguishes the two catalog content types.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Category is a provider-side grouping of catalog items.
type Category struct {
	ID       int    `json:"category_id"`
	Name     string `json:"category_name"`
	ParentID int    `json:"parent_id,omitempty"`
}

// Movie is a VOD stream summary as listed in a category.
type Movie struct {
	StreamID           int    `json:"stream_id"`
	Name               string `json:"name"`
	Icon               string `json:"stream_icon"`
	ContainerExtension string `json:"container_extension"`
	CategoryID         int    `json:"category_id"`
	Added              string `json:"added"`
}

// Series is a series summary as listed in a category.
type Series struct {
	SeriesID     int    `json:"series_id"`
	Name         string `json:"name"`
	Cover        string `json:"cover"`
	CategoryID   int    `json:"category_id"`
	LastModified string `json:"last_modified"`
}

// Episode is a single episode from a series listing.
type Episode struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	EpisodeNum         int    `json:"episode_num"`
	Season             int    `json:"season"`
	ContainerExtension string `json:"container_extension"`
}

// SeriesInfo holds the full episode listing of a series grouped by season.
type SeriesInfo struct {
	Seasons map[int][]Episode `json:"episodes"`
}

// EpisodeCount returns the number of episodes across all seasons.
func (s *SeriesInfo) EpisodeCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, eps := range s.Seasons {
		n += len(eps)
	}
	return n
}

// SeasonNumbers returns the season numbers in ascending order.
func (s *SeriesInfo) SeasonNumbers() []int {
	if s == nil {
		return nil
	}
	nums := make([]int, 0, len(s.Seasons))
	for n := range s.Seasons {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Client reads the remote catalog. Implementations own authentication,
// pagination and retry of transient failures; any error they return is
// treated as a hard failure for the calling phase.
type Client interface {
	MovieCategories(ctx context.Context) ([]Category, error)
	SeriesCategories(ctx context.Context) ([]Category, error)
	MoviesInCategory(ctx context.Context, categoryID int) ([]Movie, error)
	SeriesInCategory(ctx context.Context, categoryID int) ([]Series, error)
	SeriesInfo(ctx context.Context, seriesID int) (*SeriesInfo, error)
}

// Credentials identify a provider account.
type Credentials struct {
	BaseURL  string
	Username string
	Password string
}

// Configured reports whether every field needed to talk to the provider is set.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.BaseURL) != "" &&
		strings.TrimSpace(c.Username) != "" &&
		strings.TrimSpace(c.Password) != ""
}

// Identity returns the normalized base address used to tie a snapshot to a
// provider instance.
func (c Credentials) Identity() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}
