package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSize(tt.bytes))
		})
	}
}

func TestOutcomeLabel(t *testing.T) {
	tests := []struct {
		name string
		r    SyncResult
		want string
	}{
		{"reported", SyncResult{Outcome: "succeeded_with_errors"}, "succeeded with errors"},
		{"cancelled", SyncResult{Cancelled: true}, "cancelled"},
		{"failed", SyncResult{}, "failed"},
		{"errors", SyncResult{Success: true, Errors: 2}, "succeeded with errors"},
		{"clean", SyncResult{Success: true}, "succeeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeLabel(&tt.r))
		})
	}
}

func TestPrintResult(t *testing.T) {
	r := &SyncResult{
		Success:       true,
		Full:          true,
		FullReason:    "interval",
		DurationMS:    2500,
		MoviesCreated: 3,
		Errors:        1,
	}
	r.Delta.New = 3
	r.Delta.TotalCurrent = 10
	r.Delta.ChangePercent = 30

	var buf bytes.Buffer
	printResult(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "Sync succeeded with errors (full: interval) in 2.5s")
	assert.Contains(t, out, "3 created, 0 updated, 0 skipped")
	assert.Contains(t, out, "3 new, 0 modified, 0 removed (30.0% of 10)")
	assert.Contains(t, out, "Errors:    1")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, &HistoryResponse{})
	assert.Equal(t, "No sync runs recorded.\n", buf.String())

	buf.Reset()
	printHistory(&buf, &HistoryResponse{Items: []SyncResult{
		{ID: 7, Success: true, Full: true, MoviesCreated: 2, EpisodesUpdated: 4},
		{ID: 6, Cancelled: true},
	}})
	out := buf.String()
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "full")
	assert.Contains(t, out, "+2 ~0")
	assert.Contains(t, out, "+0 ~4")
	assert.Contains(t, out, "cancelled")
}

func TestStatusCommand(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		RespondJSON(StatusResponse{Version: "1.2.3", LibraryRoot: "/media/strm"}).
		Build()

	out, err := runCLI(t, srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "/media/strm")
}

func TestSyncCommand_Started(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/sync").
		ExpectPOST().
		RespondJSONStatus(http.StatusAccepted, SyncAcceptedResponse{Status: "started", Full: true}).
		Build()

	out, err := runCLI(t, srv.URL, "sync", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "Sync started (full: true)")
}

func TestSyncCommand_AlreadyRunning(t *testing.T) {
	srv := newMockServer(t).
		RespondJSONStatus(http.StatusConflict, map[string]string{"error": "sync already in progress", "code": "SYNC_RUNNING"}).
		Build()

	_, err := runCLI(t, srv.URL, "sync")
	require.Error(t, err)
	assert.Equal(t, "a sync is already running", err.Error())
}

func TestSyncCommand_Wait(t *testing.T) {
	old := pollInterval
	pollInterval = 10 * time.Millisecond
	t.Cleanup(func() { pollInterval = old })

	var polls atomic.Int32
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/api/v1/sync":
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte(`{"status":"started","full":false}`))
			case "/api/v1/progress":
				running := polls.Add(1) < 3
				if running {
					_, _ = w.Write([]byte(`{"running":true,"phase":"syncing_movies","total":4,"processed":2}`))
					return
				}
				_, _ = w.Write([]byte(`{"running":false,"phase":"idle"}`))
			case "/api/v1/status":
				_, _ = w.Write([]byte(`{"version":"dev","running":false,"last_result":{"success":true,"movies_created":4,"outcome":"succeeded"}}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}).
		Build()

	out, err := runCLI(t, srv.URL, "sync", "--wait")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
	assert.Contains(t, out, "Sync succeeded (incremental)")
	assert.Contains(t, out, "4 created")
}

func TestSyncCommand_WaitFailedRun(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/v1/sync":
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte(`{"status":"started"}`))
			case "/api/v1/progress":
				_, _ = w.Write([]byte(`{"running":false,"phase":"idle"}`))
			case "/api/v1/status":
				_, _ = w.Write([]byte(`{"last_result":{"success":false,"error":"provider unreachable"}}`))
			}
		}).
		Build()

	out, err := runCLI(t, srv.URL, "sync", "--wait")
	require.Error(t, err)
	assert.Contains(t, out, "provider unreachable")
}

func TestCancelCommand(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		srv := newMockServer(t).
			ExpectPath("/api/v1/sync/cancel").
			ExpectPOST().
			RespondJSONStatus(http.StatusAccepted, map[string]string{"status": "cancelling"}).
			Build()

		out, err := runCLI(t, srv.URL, "cancel")
		require.NoError(t, err)
		assert.Contains(t, out, "Cancellation requested.")
	})

	t.Run("idle", func(t *testing.T) {
		srv := newMockServer(t).
			RespondJSONStatus(http.StatusConflict, map[string]string{"error": "no sync running", "code": "NOT_RUNNING"}).
			Build()

		out, err := runCLI(t, srv.URL, "cancel")
		require.NoError(t, err)
		assert.Contains(t, out, "No sync is running.")
	})
}

func TestHistoryCommand_JSON(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/history").
		RespondJSON(HistoryResponse{Items: []SyncResult{{ID: 1, Success: true}}, Limit: 3}).
		Build()

	out, err := runCLI(t, srv.URL, "--json", "history", "-n", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"limit": 3`)
	assert.Contains(t, out, `"id": 1`)
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "valid.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[provider]
url = "http://panel.test:8080"
username = "user"
password = "pass"

[library]
root = "/media/strm"
`), 0o644))

		out, err := runCLI(t, "", "config", "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration Summary:")
		assert.Contains(t, out, "movies (all categories), series (all categories)")
		assert.Contains(t, out, "Configuration valid!")
	})

	t.Run("missing env", func(t *testing.T) {
		path := filepath.Join(dir, "missing.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[provider]
url = "http://panel.test:8080"
username = "user"
password = "${STRMSYNC_TEST_UNSET_PASSWORD}"

[library]
root = "/media/strm"
`), 0o644))

		out, err := runCLI(t, "", "config", "validate", path)
		require.Error(t, err)
		assert.Equal(t, "configuration invalid", err.Error())
		assert.Contains(t, out, "STRMSYNC_TEST_UNSET_PASSWORD")
	})
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := runCLI(t, "", "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	_, err = runCLI(t, "", "--config", path, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "", "--config", path, "init", "--force")
	require.NoError(t, err)
}
