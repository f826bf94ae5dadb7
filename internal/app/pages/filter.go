package pages

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"estatedash/internal/app/dto"
	"estatedash/internal/domain/listings"
)

type FilterSource interface {
	FilterProperties(ctx context.Context, f listings.ServerFilter) ([]listings.Listing, error)
	PropertyOptions(ctx context.Context) (listings.Options, error)
}

// Filter asks the estate API to filter on "apply" and pages through the
// returned cards.
type Filter struct {
	source FilterSource
	logger *slog.Logger
	guard  fetchGuard

	mu      sync.Mutex
	filter  listings.ServerFilter
	options listings.Options
	items   []listings.Listing
	applied bool
	page    int
	errors  widgetErrors
}

func NewFilter(source FilterSource, logger *slog.Logger) *Filter {
	return &Filter{source: source, logger: loggerOrDefault(logger), page: 1}
}

// SetFilter edits the pending filter. It is only sent on Apply.
func (f *Filter) SetFilter(filter listings.ServerFilter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter.Normalized()
}

func (f *Filter) SetPage(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.page = n
}

// Load fetches the facets offered by the filter form. A failure is not fatal:
// the facets are then derived from the filtered cards.
func (f *Filter) Load(ctx context.Context) {
	_ = track(ctx, &f.mu, &f.guard, dto.WidgetOptions, f.source.PropertyOptions, func(opts listings.Options, err error) {
		if err != nil {
			logFetchFailure(ctx, f.logger, "filter", dto.WidgetOptions, err)
			f.options = listings.Options{}
			return
		}
		f.options = opts.Canonical()
	})()
}

// Apply sends the current filter to the estate API and returns to page 1.
func (f *Filter) Apply(ctx context.Context) error {
	f.mu.Lock()
	filter := f.filter
	f.applied = true
	f.page = 1
	f.mu.Unlock()

	fetch := func(ctx context.Context) ([]listings.Listing, error) {
		return f.source.FilterProperties(ctx, filter)
	}
	err := track(ctx, &f.mu, &f.guard, dto.WidgetListings, fetch, func(items []listings.Listing, err error) {
		f.items = settle(ctx, f.logger, &f.errors, "filter", dto.WidgetListings, MsgFilterFailed, items, err)
	})()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPageUnavailable, err)
	}
	return nil
}

func (f *Filter) View() dto.FilterView {
	f.mu.Lock()
	defer f.mu.Unlock()

	opts := f.options
	if len(opts.Cities) == 0 && len(opts.Types) == 0 {
		opts = listings.DeriveOptions(f.items)
	}
	p := listings.Paginate(len(f.items), f.page, listings.PageSizeGrid)
	f.page = p.Number
	return dto.FilterView{
		Filter: dto.ServerFilter{
			Types:    nonNilStrings(f.filter.Types),
			City:     f.filter.City,
			MinPrice: f.filter.MinPrice,
			MaxPrice: f.filter.MaxPrice,
			MinArea:  f.filter.MinArea,
			MaxArea:  f.filter.MaxArea,
			Sort:     f.filter.Sort,
		},
		Facets:     dto.MapFacets(opts),
		Applied:    f.applied,
		Listings:   dto.MapListingRows(listings.Slice(f.items, p)),
		Pagination: dto.MapPagination(p),
		Errors:     f.errors.snapshot(),
	}
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
