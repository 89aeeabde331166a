// Package xtream provides a client for the Xtream Codes player API.
package xtream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Category is a VOD or series category.
type Category struct {
	ID       FlexInt `json:"category_id"`
	Name     string  `json:"category_name"`
	ParentID FlexInt `json:"parent_id"`
}

// Stream is a VOD entry from get_vod_streams.
type Stream struct {
	StreamID           FlexInt `json:"stream_id"`
	Name               string  `json:"name"`
	StreamIcon         string  `json:"stream_icon"`
	ContainerExtension string  `json:"container_extension"`
	CategoryID         FlexInt `json:"category_id"`
	Added              string  `json:"added"`
}

// Series is a series entry from get_series.
type Series struct {
	SeriesID     FlexInt `json:"series_id"`
	Name         string  `json:"name"`
	Cover        string  `json:"cover"`
	CategoryID   FlexInt `json:"category_id"`
	LastModified string  `json:"last_modified"`
}

// Episode is one episode from get_series_info.
type Episode struct {
	ID                 FlexInt `json:"id"`
	Title              string  `json:"title"`
	EpisodeNum         FlexInt `json:"episode_num"`
	Season             FlexInt `json:"season"`
	ContainerExtension string  `json:"container_extension"`
}

// SeriesInfo is the get_series_info response, episodes grouped by season.
type SeriesInfo struct {
	Episodes map[int][]Episode
}

type seriesInfoResponse struct {
	Episodes json.RawMessage `json:"episodes"`
}

// decodeEpisodes accepts both the object form {"1": [...]} and the array
// form [[...], [...]] some panels emit for contiguous seasons.
func decodeEpisodes(raw json.RawMessage) (map[int][]Episode, error) {
	out := make(map[int][]Episode)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	if raw[0] == '[' {
		var groups [][]Episode
		if err := json.Unmarshal(raw, &groups); err != nil {
			return nil, fmt.Errorf("decode episodes: %w", err)
		}
		for i, eps := range groups {
			for _, ep := range eps {
				season := int(ep.Season)
				if season == 0 {
					season = i + 1
				}
				out[season] = append(out[season], ep)
			}
		}
		return out, nil
	}

	var bySeason map[string][]Episode
	if err := json.Unmarshal(raw, &bySeason); err != nil {
		return nil, fmt.Errorf("decode episodes: %w", err)
	}
	for key, eps := range bySeason {
		season, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		out[season] = append(out[season], eps...)
	}
	return out, nil
}

// authResponse is what panels return instead of a listing when the
// credentials are rejected.
type authResponse struct {
	UserInfo struct {
		Auth FlexInt `json:"auth"`
	} `json:"user_info"`
}

// FlexInt decodes integers that panels send as numbers, quoted numbers,
// empty strings or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid integer %s", string(b))
		}
		n = int(fl)
	}
	*f = FlexInt(n)
	return nil
}
