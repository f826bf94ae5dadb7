package pages

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"estatedash/internal/app/dto"
	"estatedash/internal/domain/listings"
)

type DashboardSource interface {
	Properties(ctx context.Context) ([]listings.Listing, error)
	PropertyOptions(ctx context.Context) (listings.Options, error)
}

// Dashboard is the listing table with client-side search, facets, sort and pagination.
type Dashboard struct {
	source DashboardSource
	logger *slog.Logger
	guard  fetchGuard

	mu       sync.Mutex
	items    []listings.Listing
	options  listings.Options
	criteria listings.FilterCriteria
	sort     listings.SortKey
	page     int
	err      error
	errors   widgetErrors
}

func NewDashboard(source DashboardSource, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		source:   source,
		logger:   loggerOrDefault(logger),
		criteria: listings.DefaultCriteria(),
		page:     1,
	}
}

func (d *Dashboard) SetSearch(term string) {
	d.update(func() { d.criteria.Search = term })
}

func (d *Dashboard) SetCity(city string) {
	d.update(func() { d.criteria.City = city })
}

func (d *Dashboard) SetType(propertyType string) {
	d.update(func() { d.criteria.Type = propertyType })
}

func (d *Dashboard) SetPriceBucket(key string) {
	d.update(func() { d.criteria.PriceBucket = key })
}

func (d *Dashboard) SetAreaBucket(key string) {
	d.update(func() { d.criteria.AreaBucket = key })
}

func (d *Dashboard) SetSort(key listings.SortKey) {
	d.update(func() { d.sort = key })
}

// SetPage moves to page n. Out-of-range pages are clamped when the view renders.
func (d *Dashboard) SetPage(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = n
}

// update applies a filter or sort change; every such change returns to page 1.
func (d *Dashboard) update(change func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	change()
	d.page = 1
}

// Load fetches the listings and the filter options concurrently.
func (d *Dashboard) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(track(ctx, &d.mu, &d.guard, dto.WidgetListings, d.source.Properties, func(items []listings.Listing, err error) {
		if err != nil {
			logFetchFailure(ctx, d.logger, "dashboard", dto.WidgetListings, err)
			d.items = nil
			d.err = err
			d.errors.set(dto.WidgetListings, MsgLoadFailed)
			return
		}
		d.items = items
		d.err = nil
		d.errors.clear(dto.WidgetListings)
	}))
	g.Go(track(ctx, &d.mu, &d.guard, dto.WidgetOptions, d.source.PropertyOptions, func(opts listings.Options, err error) {
		if err != nil {
			// facets fall back to the listings themselves
			logFetchFailure(ctx, d.logger, "dashboard", dto.WidgetOptions, err)
			d.options = listings.Options{}
			return
		}
		d.options = opts.Canonical()
	}))
	_ = g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return fmt.Errorf("%w: %w", ErrPageUnavailable, d.err)
	}
	return nil
}

func (d *Dashboard) View() dto.DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	opts := d.options
	if len(opts.Cities) == 0 && len(opts.Types) == 0 {
		opts = listings.DeriveOptions(d.items)
	}
	criteria := d.criteria.Normalized()
	result := listings.View(d.items, criteria, d.sort, d.page, listings.PageSizeTable)
	d.page = result.Page.Number

	view := dto.DashboardView{
		Filters: dto.DashboardFilters{
			Search:      criteria.Search,
			City:        criteria.City,
			Type:        criteria.Type,
			PriceBucket: criteria.PriceBucket,
			AreaBucket:  criteria.AreaBucket,
			Sort:        string(d.sort),
		},
		Facets:     dto.MapFacets(opts),
		Listings:   dto.MapListingRows(result.Items),
		Pagination: dto.MapPagination(result.Page),
		Errors:     d.errors.snapshot(),
	}
	if d.err != nil {
		view.Error = MsgLoadFailed
	}
	return view
}
