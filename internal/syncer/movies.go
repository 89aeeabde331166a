package syncer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/strmsync/internal/catalog"
)

// syncMovies writes one pointer per movie with bounded parallelism. Item
// failures are counted and logged; only cancellation stops the fan-out.
// Paths are claimed in catalog order before dispatch, so when two movies
// sanitize to the same file the first one listed always owns it.
func (r *run) syncMovies(ctx context.Context) error {
	modified := make(map[int]bool, len(r.delta.ModifiedMovies))
	for _, m := range r.delta.ModifiedMovies {
		modified[m.StreamID] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.s.cfg.Concurrency())

	for _, m := range r.movies {
		if gctx.Err() != nil {
			break
		}
		path := r.layout.MoviePath(m.Name, r.movieCats[m.CategoryID])
		if !r.claim(path) {
			r.counters.moviesSkipped.Add(1)
			r.log.Warn("movie maps to a pointer owned by another movie, skipping",
				"stream_id", m.StreamID, "name", m.Name, "path", path)
			r.itemDone()
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.syncMovie(m, path, r.full || modified[m.StreamID])
			r.itemDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// syncMovie writes the pointer for m at its claimed path. A failed write
// keeps whatever is already on disk, since the path stays claimed.
func (r *run) syncMovie(m catalog.Movie, path string, verify bool) {
	r.s.progress.item(m.Name)

	url := catalog.StreamURL(r.s.cfg.Credentials, catalog.KindMovie, m.StreamID, m.ContainerExtension)
	outcome, err := r.writePointer(path, url, verify)
	if err != nil {
		r.counters.errors.Add(1)
		r.log.Warn("failed to write movie pointer", "stream_id", m.StreamID, "name", m.Name, "error", err)
		return
	}

	switch outcome {
	case pointerCreated:
		r.counters.moviesCreated.Add(1)
		r.log.Debug("created movie pointer", "path", path)
	case pointerUpdated:
		r.counters.moviesUpdated.Add(1)
		r.log.Debug("updated movie pointer", "path", path)
	default:
		r.counters.moviesSkipped.Add(1)
	}
}
