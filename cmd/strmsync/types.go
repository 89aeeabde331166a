package main

import "time"

// SyncResult is a finished run as reported by the server.
type SyncResult struct {
	ID              int64     `json:"id,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationMS      int64     `json:"duration_ms"`
	Success         bool      `json:"success"`
	Cancelled       bool      `json:"cancelled"`
	Error           string    `json:"error,omitempty"`
	Full            bool      `json:"full"`
	FullReason      string    `json:"full_reason,omitempty"`
	MoviesCreated   int       `json:"movies_created"`
	MoviesUpdated   int       `json:"movies_updated"`
	MoviesSkipped   int       `json:"movies_skipped"`
	SeriesSkipped   int       `json:"series_skipped"`
	EpisodesCreated int       `json:"episodes_created"`
	EpisodesUpdated int       `json:"episodes_updated"`
	EpisodesSkipped int       `json:"episodes_skipped"`
	OrphansDeleted  int       `json:"orphans_deleted"`
	Errors          int       `json:"errors"`
	Outcome         string    `json:"outcome,omitempty"`
	Delta           struct {
		TotalCurrent  int     `json:"total_current"`
		New           int     `json:"new"`
		Modified      int     `json:"modified"`
		Removed       int     `json:"removed"`
		ChangePercent float64 `json:"change_percent"`
	} `json:"delta"`
	MissingCategories []int `json:"missing_categories,omitempty"`
}

type ProgressResponse struct {
	Running         bool      `json:"running"`
	Phase           string    `json:"phase"`
	CurrentItem     string    `json:"current_item,omitempty"`
	Total           int       `json:"total"`
	Processed       int       `json:"processed"`
	MoviesCreated   int       `json:"movies_created"`
	EpisodesCreated int       `json:"episodes_created"`
	OrphansDeleted  int       `json:"orphans_deleted"`
	Errors          int       `json:"errors"`
	StartedAt       time.Time `json:"started_at"`
	Percent         float64   `json:"percent"`
}

type StatusResponse struct {
	Version     string           `json:"version"`
	Running     bool             `json:"running"`
	LibraryRoot string           `json:"library_root"`
	LastResult  *SyncResult      `json:"last_result,omitempty"`
	Progress    ProgressResponse `json:"progress"`
}

type SyncAcceptedResponse struct {
	Status string `json:"status"`
	Full   bool   `json:"full"`
}

type HistoryResponse struct {
	Items []SyncResult `json:"items"`
	Limit int          `json:"limit"`
}

type SnapshotsResponse struct {
	Items []struct {
		Name      string    `json:"name"`
		SavedAt   time.Time `json:"saved_at"`
		SizeBytes int64     `json:"size_bytes"`
	} `json:"items"`
}

type CategoriesResponse struct {
	Kind  string `json:"kind"`
	Items []struct {
		ID    int      `json:"id"`
		Name  string   `json:"name"`
		Score *float64 `json:"score,omitempty"`
	} `json:"items"`
}

type VerifyResponse struct {
	OK     bool `json:"ok"`
	Checks []struct {
		Name  string `json:"name"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
		Skip  bool   `json:"skipped,omitempty"`
	} `json:"checks"`
}
