package plex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vmunix/strmsync/internal/syncer"
)

// Scanner refreshes Plex after a sync. With named libraries it refreshes
// those sections; otherwise it refreshes every section whose location lies
// inside the library root.
type Scanner struct {
	client    *Client
	libraries []string
	root      string
	log       *slog.Logger
}

var _ syncer.LibraryScanner = (*Scanner)(nil)

// NewScanner creates a Scanner for libraryRoot.
func NewScanner(client *Client, libraries []string, libraryRoot string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		client:    client,
		libraries: libraries,
		root:      strings.TrimSuffix(libraryRoot, "/"),
		log:       logger.With("component", "plex-scanner"),
	}
}

// Scan triggers the refreshes. A section already refreshing is left alone.
func (s *Scanner) Scan(ctx context.Context) error {
	sections, err := s.client.Sections(ctx)
	if err != nil {
		return fmt.Errorf("get sections: %w", err)
	}

	targets := s.targets(sections)
	if len(targets) == 0 {
		return fmt.Errorf("no plex section matches library root %s", s.root)
	}

	var errs []error
	for _, sec := range targets {
		if sec.Refreshing() {
			s.log.Debug("section already refreshing", "section", sec.Title)
			continue
		}
		if err := s.client.RefreshLibrary(ctx, sec.Key); err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", sec.Title, err))
			continue
		}
		s.log.Info("plex refresh triggered", "section", sec.Title)
	}
	return errors.Join(errs...)
}

func (s *Scanner) targets(sections []Section) []Section {
	var out []Section
	if len(s.libraries) > 0 {
		for _, name := range s.libraries {
			found := false
			for _, sec := range sections {
				if strings.EqualFold(sec.Title, name) {
					out = append(out, sec)
					found = true
					break
				}
			}
			if !found {
				s.log.Warn("plex library not found", "library", name)
			}
		}
		return out
	}

	remoteRoot := s.client.ToRemote(s.root)
	for _, sec := range sections {
		for _, loc := range sec.Locations {
			if within(loc.Path, remoteRoot) {
				out = append(out, sec)
				break
			}
		}
	}
	return out
}

// within reports whether path equals root or lies below it.
func within(path, root string) bool {
	path = strings.TrimSuffix(path, "/")
	return path == root || strings.HasPrefix(path, root+"/")
}
