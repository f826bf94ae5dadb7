package pages

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"estatedash/internal/domain/crawl"
	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/stats"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeEstate serves canned data. A non-nil hook overrides the canned answer of
// its resource.
type fakeEstate struct {
	mu sync.Mutex

	listings    []listings.Listing
	listingsErr error
	listingsFn  func(ctx context.Context) ([]listings.Listing, error)
	options     listings.Options
	optionsErr  error

	filtered    []listings.Listing
	filterErr   error
	filterCalls []listings.ServerFilter

	trend    []stats.PriceTrend
	trendErr error
	types    []stats.TypeShare
	sellers  []stats.Seller
	websites []stats.WebsiteStat

	cities        []stats.CityStat
	citiesFn      func(ctx context.Context) ([]stats.CityStat, error)
	allocation    []stats.PriceAllocation
	allocationErr error

	summary    []stats.TypeSummary
	summaryErr error
	typeTrend  []stats.TypeTrend

	timeline       []stats.TimelineBucket
	timelinePrices []stats.TimelinePrice
	timelineErr    error
	ranges         []stats.TimelineRange

	sites    []crawl.Website
	sitesErr error
}

func (f *fakeEstate) Properties(ctx context.Context) ([]listings.Listing, error) {
	if f.listingsFn != nil {
		return f.listingsFn(ctx)
	}
	return f.listings, f.listingsErr
}

func (f *fakeEstate) PropertyOptions(context.Context) (listings.Options, error) {
	return f.options, f.optionsErr
}

func (f *fakeEstate) FilterProperties(_ context.Context, filter listings.ServerFilter) ([]listings.Listing, error) {
	f.mu.Lock()
	f.filterCalls = append(f.filterCalls, filter)
	f.mu.Unlock()
	return f.filtered, f.filterErr
}

func (f *fakeEstate) PriceTrend(context.Context) ([]stats.PriceTrend, error) {
	return f.trend, f.trendErr
}

func (f *fakeEstate) TypeDistribution(context.Context) ([]stats.TypeShare, error) {
	return f.types, nil
}

func (f *fakeEstate) TopSellers(context.Context) ([]stats.Seller, error) {
	return f.sellers, nil
}

func (f *fakeEstate) TopWebsites(context.Context) ([]stats.WebsiteStat, error) {
	return f.websites, nil
}

func (f *fakeEstate) CityStats(ctx context.Context) ([]stats.CityStat, error) {
	if f.citiesFn != nil {
		return f.citiesFn(ctx)
	}
	return f.cities, nil
}

func (f *fakeEstate) PriceAllocation(context.Context) ([]stats.PriceAllocation, error) {
	return f.allocation, f.allocationErr
}

func (f *fakeEstate) TypeSummary(context.Context) ([]stats.TypeSummary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeEstate) TypeTrend(context.Context) ([]stats.TypeTrend, error) {
	return f.typeTrend, nil
}

func (f *fakeEstate) Timeline(_ context.Context, r stats.TimelineRange) ([]stats.TimelineBucket, error) {
	f.mu.Lock()
	f.ranges = append(f.ranges, r)
	f.mu.Unlock()
	return f.timeline, nil
}

func (f *fakeEstate) TimelinePrices(context.Context, stats.TimelineRange) ([]stats.TimelinePrice, error) {
	return f.timelinePrices, f.timelineErr
}

func (f *fakeEstate) Websites(context.Context) ([]crawl.Website, error) {
	return f.sites, f.sitesErr
}

func manyListings(n int) []listings.Listing {
	out := make([]listings.Listing, 0, n)
	for i := 1; i <= n; i++ {
		city := "Hà Nội"
		if i%2 == 0 {
			city = "tp.hcm"
		}
		out = append(out, listings.Listing{
			ID:    string(rune('a' + i - 1)),
			Title: "Căn hộ",
			City:  city,
			Type:  "Chung cư",
			Price: int64(i) * 100_000_000,
			Area:  float64(20 + i),
		})
	}
	return out
}
