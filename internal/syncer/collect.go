package syncer

import (
	"context"

	"github.com/vmunix/strmsync/internal/catalog"
)

// collect fetches categories and their items sequentially, de-duplicating
// items reachable through more than one category. Any provider error aborts
// the run; nothing has been written yet at this point.
func (r *run) collect(ctx context.Context) error {
	cfg := r.s.cfg
	client := r.s.client

	if cfg.SyncMovies {
		all, err := client.MovieCategories(ctx)
		if err != nil {
			return &CatalogError{Phase: PhaseCollecting, Op: "fetch movie categories", Err: err}
		}
		cats := r.allowed(all, cfg.MovieCategories, "movie")
		r.movieCats = catalog.NameIndex(all)

		seen := make(map[int]bool)
		for _, cat := range cats {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.s.progress.item("movies: " + cat.Name)
			items, err := client.MoviesInCategory(ctx, cat.ID)
			if err != nil {
				return &CatalogError{Phase: PhaseCollecting, Op: "fetch movies in category " + cat.Name, Err: err}
			}
			for _, m := range items {
				if seen[m.StreamID] {
					continue
				}
				seen[m.StreamID] = true
				if m.CategoryID == 0 {
					m.CategoryID = cat.ID
				}
				r.movies = append(r.movies, m)
			}
		}
		r.log.Info("collected movies", "categories", len(cats), "movies", len(r.movies))
	}

	if cfg.SyncSeries {
		all, err := client.SeriesCategories(ctx)
		if err != nil {
			return &CatalogError{Phase: PhaseCollecting, Op: "fetch series categories", Err: err}
		}
		cats := r.allowed(all, cfg.SeriesCategories, "series")
		r.seriesCats = catalog.NameIndex(all)

		seen := make(map[int]bool)
		for _, cat := range cats {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.s.progress.item("series: " + cat.Name)
			items, err := client.SeriesInCategory(ctx, cat.ID)
			if err != nil {
				return &CatalogError{Phase: PhaseCollecting, Op: "fetch series in category " + cat.Name, Err: err}
			}
			for _, s := range items {
				if seen[s.SeriesID] {
					continue
				}
				seen[s.SeriesID] = true
				if s.CategoryID == 0 {
					s.CategoryID = cat.ID
				}
				r.series = append(r.series, s)
			}
		}
		r.log.Info("collected series", "categories", len(cats), "series", len(r.series))
	}

	r.builder.AddMovies(r.movies)
	r.builder.AddSeries(r.series)
	r.collected = true
	return ctx.Err()
}

// allowed applies a configured allow-list and warns about IDs the provider
// no longer lists.
func (r *run) allowed(all []catalog.Category, allow []int, kind string) []catalog.Category {
	kept, missing := catalog.FilterCategories(all, allow)
	for _, id := range missing {
		r.log.Warn("configured category not found on provider", "kind", kind, "category_id", id)
	}
	r.result.MissingCategories = append(r.result.MissingCategories, missing...)
	return kept
}
