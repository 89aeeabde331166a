package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/strmsync/internal/events"
	"github.com/vmunix/strmsync/internal/naming"
)

// cleanOrphans deletes pointer files that were not produced or protected by
// this run, then prunes directories left empty. Only folders of enabled
// content types are scanned; files that are not pointers are never touched.
func (r *run) cleanOrphans(ctx context.Context) error {
	var roots []string
	if r.s.cfg.SyncMovies {
		roots = append(roots, r.layout.MoviesRoot())
	}
	if r.s.cfg.SyncSeries {
		roots = append(roots, r.layout.SeriesRoot())
	}

	var orphans []string
	for _, root := range roots {
		err := r.s.fs.Walk(root, func(path string) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !strings.EqualFold(filepath.Ext(path), naming.PointerExt) {
				return nil
			}
			if !r.isSynced(path) {
				orphans = append(orphans, path)
			}
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("scan %s: %w", root, err)
		}
	}

	r.s.progress.update(func(p *Progress) { p.Total = len(orphans) })

	var removed []string
	for _, path := range orphans {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.s.progress.item(path)
		if err := r.s.fs.Remove(path); err != nil {
			r.counters.errors.Add(1)
			r.log.Warn("failed to delete orphan", "path", path, "error", err)
			r.itemDone()
			continue
		}
		r.counters.orphansDeleted.Add(1)
		removed = append(removed, path)
		r.log.Debug("deleted orphan", "path", path)
		r.pruneEmptyParents(filepath.Dir(path))
		r.itemDone()
	}

	if len(removed) > 0 {
		r.log.Info("removed orphans", "count", len(removed))
		r.s.publish(ctx, &events.OrphansRemoved{
			BaseEvent: events.NewBase(events.EventOrphansRemoved, events.EntitySync, r.id),
			Count:     len(removed),
			Paths:     removed,
		})
	}
	return nil
}

// pruneEmptyParents removes dir and its ancestors while they are empty,
// stopping at the library root.
func (r *run) pruneEmptyParents(dir string) {
	root := r.layout.Root
	for dir != root && naming.ValidatePath(dir, root) == nil {
		ok, err := r.s.fs.RemoveDirIfEmpty(dir)
		if err != nil {
			r.log.Warn("failed to prune folder", "dir", dir, "error", err)
			return
		}
		if !ok {
			return
		}
		dir = filepath.Dir(dir)
	}
}
