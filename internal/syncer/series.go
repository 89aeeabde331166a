package syncer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/naming"
)

// syncSeries fetches episode listings and writes one pointer per episode.
// A series whose listing cannot be fetched is counted as a single error and
// its existing files are kept. Series folders are claimed in catalog order;
// a later series landing in a taken folder is skipped.
func (r *run) syncSeries(ctx context.Context) error {
	modified := make(map[int]bool, len(r.delta.ModifiedSeries))
	for _, s := range r.delta.ModifiedSeries {
		modified[s.SeriesID] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.s.cfg.Concurrency())

	owners := make(map[string]int, len(r.series))
	for _, s := range r.series {
		if gctx.Err() != nil {
			break
		}
		folder := r.layout.SeriesFolder(s.Name, r.seriesCats[s.CategoryID])
		if owner, taken := owners[folder]; taken {
			r.counters.seriesSkipped.Add(1)
			r.log.Warn("series maps to a folder owned by another series, skipping",
				"series_id", s.SeriesID, "series", s.Name, "owner_id", owner, "folder", folder)
			r.itemDone()
			continue
		}
		owners[folder] = s.SeriesID

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.syncOneSeries(gctx, s, folder, r.full || modified[s.SeriesID]); err != nil {
				return err
			}
			r.itemDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// syncOneSeries returns an error only on cancellation.
func (r *run) syncOneSeries(ctx context.Context, s catalog.Series, folder string, verify bool) error {
	r.s.progress.item(s.Name)
	log := r.log.With("series_id", s.SeriesID, "series", s.Name)

	if err := naming.ValidatePath(folder, r.layout.Root); err != nil {
		r.counters.errors.Add(1)
		log.Warn("series folder outside library root", "folder", folder)
		return nil
	}

	if r.canSmartSkip(s) {
		existing, err := r.existingPointers(folder)
		if err != nil {
			log.Warn("failed to inspect series folder", "error", err)
		}
		if len(existing) > 0 {
			for _, p := range existing {
				r.markSynced(p)
			}
			r.counters.seriesSkipped.Add(1)
			r.builder.SetEpisodeCount(s.SeriesID, r.knownEpisodeCount(s.SeriesID, len(existing)))
			log.Debug("smart skip", "existing", len(existing))
			return nil
		}
	}

	info, err := r.s.client.SeriesInfo(ctx, s.SeriesID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.counters.errors.Add(1)
		log.Warn("failed to fetch series info", "error", err)
		existing, walkErr := r.existingPointers(folder)
		if walkErr != nil {
			log.Warn("failed to inspect series folder", "error", walkErr)
		}
		for _, p := range existing {
			r.markSynced(p)
		}
		return nil
	}

	for _, season := range info.SeasonNumbers() {
		for _, ep := range info.Seasons[season] {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.syncEpisode(log, folder, s, season, ep, verify)
		}
	}
	r.builder.SetEpisodeCount(s.SeriesID, info.EpisodeCount())
	return nil
}

func (r *run) syncEpisode(log *slog.Logger, folder string, s catalog.Series, season int, ep catalog.Episode, verify bool) {
	path := r.layout.EpisodePath(folder, s.Name, season, ep.EpisodeNum, ep.Title)
	if !r.claim(path) {
		r.counters.episodesSkipped.Add(1)
		log.Warn("duplicate episode listing, skipping", "episode_id", ep.ID, "season", season, "episode", ep.EpisodeNum)
		return
	}
	url := catalog.StreamURL(r.s.cfg.Credentials, catalog.KindSeries, ep.ID, ep.ContainerExtension)

	outcome, err := r.writePointer(path, url, verify)
	if err != nil {
		r.counters.errors.Add(1)
		log.Warn("failed to write episode pointer", "episode_id", ep.ID, "season", season, "episode", ep.EpisodeNum, "error", err)
		return
	}

	switch outcome {
	case pointerCreated:
		r.counters.episodesCreated.Add(1)
	case pointerUpdated:
		r.counters.episodesUpdated.Add(1)
	default:
		r.counters.episodesSkipped.Add(1)
	}
}

// canSmartSkip reports whether s may reuse what is on disk instead of
// fetching its episode listing.
func (r *run) canSmartSkip(s catalog.Series) bool {
	if !r.s.cfg.SmartSkip || r.full {
		return false
	}
	return !r.changedShow[s.SeriesID]
}

// existingPointers lists pointer files already present under folder.
func (r *run) existingPointers(folder string) ([]string, error) {
	var out []string
	err := r.s.fs.Walk(folder, func(path string) error {
		if strings.EqualFold(filepath.Ext(path), naming.PointerExt) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// knownEpisodeCount carries the baseline count forward for skipped series.
func (r *run) knownEpisodeCount(seriesID, fallback int) int {
	if r.baseline != nil {
		if rec, ok := r.baseline.Series[seriesID]; ok && rec.EpisodeCount > 0 {
			return rec.EpisodeCount
		}
	}
	return fallback
}
