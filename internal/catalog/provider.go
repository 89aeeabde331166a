package catalog

import (
	"context"

	"github.com/vmunix/strmsync/pkg/xtream"
)

// Provider adapts an xtream.Client to Client.
type Provider struct {
	api *xtream.Client
}

var _ Client = (*Provider)(nil)

// NewProvider wraps api.
func NewProvider(api *xtream.Client) *Provider {
	return &Provider{api: api}
}

func (p *Provider) MovieCategories(ctx context.Context) ([]Category, error) {
	cats, err := p.api.VODCategories(ctx)
	if err != nil {
		return nil, err
	}
	return categories(cats), nil
}

func (p *Provider) SeriesCategories(ctx context.Context) ([]Category, error) {
	cats, err := p.api.SeriesCategories(ctx)
	if err != nil {
		return nil, err
	}
	return categories(cats), nil
}

func (p *Provider) MoviesInCategory(ctx context.Context, categoryID int) ([]Movie, error) {
	streams, err := p.api.VODStreams(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]Movie, 0, len(streams))
	for _, s := range streams {
		if s.StreamID == 0 {
			continue
		}
		out = append(out, Movie{
			StreamID:           int(s.StreamID),
			Name:               s.Name,
			Icon:               s.StreamIcon,
			ContainerExtension: s.ContainerExtension,
			CategoryID:         int(s.CategoryID),
			Added:              s.Added,
		})
	}
	return out, nil
}

func (p *Provider) SeriesInCategory(ctx context.Context, categoryID int) ([]Series, error) {
	list, err := p.api.Series(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]Series, 0, len(list))
	for _, s := range list {
		if s.SeriesID == 0 {
			continue
		}
		out = append(out, Series{
			SeriesID:     int(s.SeriesID),
			Name:         s.Name,
			Cover:        s.Cover,
			CategoryID:   int(s.CategoryID),
			LastModified: s.LastModified,
		})
	}
	return out, nil
}

func (p *Provider) SeriesInfo(ctx context.Context, seriesID int) (*SeriesInfo, error) {
	info, err := p.api.SeriesInfo(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	out := &SeriesInfo{Seasons: make(map[int][]Episode, len(info.Episodes))}
	for season, eps := range info.Episodes {
		for _, ep := range eps {
			if ep.ID == 0 {
				continue
			}
			out.Seasons[season] = append(out.Seasons[season], Episode{
				ID:                 int(ep.ID),
				Title:              ep.Title,
				EpisodeNum:         int(ep.EpisodeNum),
				Season:             season,
				ContainerExtension: ep.ContainerExtension,
			})
		}
	}
	return out, nil
}

func categories(in []xtream.Category) []Category {
	out := make([]Category, 0, len(in))
	for _, c := range in {
		out = append(out, Category{ID: int(c.ID), Name: c.Name, ParentID: int(c.ParentID)})
	}
	return out
}
