package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// verifyTimeout bounds each connection check.
const verifyTimeout = 10 * time.Second

// VerifyCheck is the result of a single check.
type VerifyCheck struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Skip  bool   `json:"skipped,omitempty"`
}

// VerifyResponse is the response for GET /verify.
type VerifyResponse struct {
	OK     bool          `json:"ok"`
	Checks []VerifyCheck `json:"checks"`
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := VerifyResponse{OK: true}

	add := func(name string, skip bool, err error) {
		c := VerifyCheck{Name: name, OK: err == nil && !skip, Skip: skip}
		if err != nil {
			c.Error = err.Error()
			resp.OK = false
		}
		resp.Checks = append(resp.Checks, c)
	}

	add("library_root", false, checkWritable(s.cfg.LibraryRoot))

	if s.deps.Catalog != nil {
		add("provider", false, withTimeout(ctx, func(ctx context.Context) error {
			_, err := s.deps.Catalog.MovieCategories(ctx)
			return err
		}))
	} else {
		add("provider", true, nil)
	}

	if s.deps.Plex != nil {
		add("plex", false, withTimeout(ctx, func(ctx context.Context) error {
			_, err := s.deps.Plex.Identity(ctx)
			return err
		}))
	} else {
		add("plex", true, nil)
	}

	writeJSON(w, http.StatusOK, resp)
}

func withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	return fn(ctx)
}

// checkWritable reports whether dir exists (or can be created) and accepts
// new files.
func checkWritable(dir string) error {
	if dir == "" {
		return errors.New("library root not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create library root: %w", err)
	}
	f, err := os.CreateTemp(dir, ".verify-*")
	if err != nil {
		return fmt.Errorf("library root not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
