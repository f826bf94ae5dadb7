package pages

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/middleware"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/crawl"
	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/stats"
)

func rowIDs(rows []dto.ListingRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestDashboardView(t *testing.T) {
	src := &fakeEstate{
		listings: manyListings(8),
		options:  listings.Options{Cities: []string{"HCM", "Hà Nội"}, Types: []string{"Chung cư"}},
	}
	page := NewDashboard(src, discard)
	page.SetSort(listings.SortPriceDesc)
	page.SetPage(5)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	view := page.View()
	if got := rowIDs(view.Listings); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("page 2 = %v", got)
	}
	if view.Pagination.Page != 2 || view.Pagination.TotalPages != 2 || view.Pagination.StartIndex != 6 {
		t.Fatalf("pagination = %+v", view.Pagination)
	}
	if !reflect.DeepEqual(view.Facets.Cities, []string{"Hà Nội", listings.HoChiMinhCity}) {
		t.Fatalf("cities = %v", view.Facets.Cities)
	}
	if view.Error != "" || view.Errors != nil {
		t.Fatalf("unexpected errors: %q %v", view.Error, view.Errors)
	}
}

func TestDashboardFilterChangeResetsPage(t *testing.T) {
	page := NewDashboard(&fakeEstate{listings: manyListings(8)}, discard)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	page.SetPage(2)
	if got := page.View().Pagination.Page; got != 2 {
		t.Fatalf("page = %d", got)
	}

	page.SetCity("HCM")
	view := page.View()
	if view.Pagination.Page != 1 || view.Pagination.TotalItems != 4 {
		t.Fatalf("after city change = %+v", view.Pagination)
	}
	if got := rowIDs(view.Listings); !reflect.DeepEqual(got, []string{"b", "d", "f", "h"}) {
		t.Fatalf("hcm rows = %v", got)
	}
	if view.Filters.City != "HCM" || view.Filters.Type != listings.All {
		t.Fatalf("filters = %+v", view.Filters)
	}
}

func TestDashboardOptionsFallBackToListings(t *testing.T) {
	src := &fakeEstate{listings: manyListings(3), optionsErr: errors.New("options down")}
	page := NewDashboard(src, discard)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("options failure must not fail the page: %v", err)
	}
	facets := page.View().Facets
	if !reflect.DeepEqual(facets.Cities, []string{"Hà Nội", listings.HoChiMinhCity}) || !reflect.DeepEqual(facets.Types, []string{"Chung cư"}) {
		t.Fatalf("derived facets = %+v", facets)
	}
}

func TestDashboardListingsFailure(t *testing.T) {
	boom := errors.New("estate api down")
	src := &fakeEstate{listingsErr: boom, options: listings.Options{Cities: []string{"Đà Nẵng"}}}
	page := NewDashboard(src, discard)

	err := page.Load(context.Background())
	if !errors.Is(err, ErrPageUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("Load error = %v", err)
	}
	view := page.View()
	if view.Error != MsgLoadFailed || view.Errors[dto.WidgetListings] != MsgLoadFailed {
		t.Fatalf("view errors = %q %v", view.Error, view.Errors)
	}
	if len(view.Listings) != 0 || view.Pagination.TotalPages != 0 || view.Pagination.Page != 1 {
		t.Fatalf("empty view = %+v", view)
	}
	if !reflect.DeepEqual(view.Facets.Cities, []string{"Đà Nẵng"}) {
		t.Fatalf("options must still render: %v", view.Facets.Cities)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	stale := []listings.Listing{{ID: "stale"}}
	fresh := []listings.Listing{{ID: "fresh"}}
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	src := &fakeEstate{listingsFn: func(context.Context) ([]listings.Listing, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return stale, nil
		}
		return fresh, nil
	}}
	page := NewDashboard(src, discard)

	done := make(chan error, 1)
	go func() { done <- page.Load(context.Background()) }()
	<-started
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Load: %v", err)
	}

	if got := rowIDs(page.View().Listings); !reflect.DeepEqual(got, []string{"fresh"}) {
		t.Fatalf("rows = %v, the slow earlier response must not win", got)
	}
}

func TestAnalyticsWidgetsFailIndependently(t *testing.T) {
	src := &fakeEstate{
		trendErr: errors.New("trend down"),
		types:    []stats.TypeShare{{Name: "Nhà phố", Value: 1}},
		sellers:  []stats.Seller{{Name: "Anh Tuấn", Listings: 12}},
		websites: []stats.WebsiteStat{{Name: "nhatot", Listings: 40}},
	}
	page := NewAnalytics(src, discard)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	view := page.View()
	if view.Errors[dto.WidgetPriceTrend] != MsgLoadFailed || len(view.Errors) != 1 {
		t.Fatalf("errors = %v", view.Errors)
	}
	if len(view.PriceTrend) != 0 || len(view.Types) != 1 || view.Sellers[0].Rank != 1 || view.Websites[0].Listings != 40 {
		t.Fatalf("view = %+v", view)
	}
}

func TestLocationsSearchAndPaging(t *testing.T) {
	cities := []stats.CityStat{{City: ""}}
	for i := 1; i <= 7; i++ {
		cities = append(cities, stats.CityStat{City: fmt.Sprintf("Hà Nam %d", i), PostCount: i})
	}
	cities = append(cities, stats.CityStat{City: "Đà Nẵng"})
	page := NewLocations(&fakeEstate{cities: cities, allocationErr: errors.New("down")}, discard)
	page.SetPage(2)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	view := page.View()
	if view.Pagination.TotalItems != 8 || len(view.Cities) != 3 || view.Pagination.PageText != "Trang 2 / 2" {
		t.Fatalf("unfiltered = %+v", view.Pagination)
	}
	if view.Errors[dto.WidgetPriceAllocation] != MsgLoadFailed || view.Errors[dto.WidgetCities] != "" {
		t.Fatalf("errors = %v", view.Errors)
	}

	page.SetSearch("HÀ NAM")
	view = page.View()
	if view.Pagination.Page != 1 || view.Pagination.TotalItems != 7 || len(view.Cities) != PageSizeLocations {
		t.Fatalf("search = %+v", view.Pagination)
	}
}

func TestPropertiesMessages(t *testing.T) {
	page := NewProperties(&fakeEstate{summaryErr: errors.New("down"), typeTrend: []stats.TypeTrend{{Date: "2025-09-01", Type: "Đất nền", Count: 3}}}, discard)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	view := page.View()
	if view.Errors[dto.WidgetSummary] != MsgSummaryFailed || len(view.Summary) != 0 {
		t.Fatalf("summary = %+v %v", view.Summary, view.Errors)
	}
	if len(view.Trend) != 1 || view.Trend[0].Date != "01/09/2025" {
		t.Fatalf("trend = %+v", view.Trend)
	}
}

func TestFilterAppliesOnDemand(t *testing.T) {
	src := &fakeEstate{filtered: manyListings(14)}
	page := NewFilter(src, discard)
	page.SetFilter(listings.ServerFilter{Types: []string{"Chung cư", "all"}, City: "hcm", MinPrice: 1})
	page.Load(context.Background())
	if len(src.filterCalls) != 0 || page.View().Applied {
		t.Fatal("the filter must not run before apply")
	}

	if err := page.Apply(context.Background()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	sent := src.filterCalls[0]
	if !reflect.DeepEqual(sent.Types, []string{"Chung cư"}) || sent.City != listings.HoChiMinhCity {
		t.Fatalf("sent filter = %+v", sent)
	}
	page.SetPage(2)
	view := page.View()
	if !view.Applied || len(view.Listings) != 2 || view.Pagination.TotalPages != 2 {
		t.Fatalf("grid = %+v", view.Pagination)
	}
	if len(view.Facets.Cities) != 2 {
		t.Fatalf("facets derived from results = %+v", view.Facets)
	}
}

func TestFilterApplyFailureMakesPageUnavailable(t *testing.T) {
	down := errors.New("filter down")
	reg := queries.NewInMemoryBus()
	Register(reg, commands.NewInMemoryBus(), &fakeEstate{filterErr: down, optionsErr: errors.New("options down")}, nil, nil, discard)

	view, err := queries.Ask[FilterQuery, dto.FilterView](context.Background(), reg, FilterQuery{Apply: true})
	if !errors.Is(err, ErrPageUnavailable) || !errors.Is(err, down) {
		t.Fatalf("expected ErrPageUnavailable wrapping the fetch error, got %v", err)
	}
	if !view.Applied || view.Errors[dto.WidgetListings] != MsgFilterFailed || len(view.Listings) != 0 {
		t.Fatalf("view = %+v", view)
	}

	view, err = queries.Ask[FilterQuery, dto.FilterView](context.Background(), reg, FilterQuery{})
	if err != nil || view.Applied {
		t.Fatalf("unapplied page with failing facets = %+v, %v", view, err)
	}
}

func TestWidgetPageUnavailableOnlyWhenEveryWidgetFails(t *testing.T) {
	citiesDown := errors.New("cities down")
	src := &fakeEstate{
		citiesFn:      func(context.Context) ([]stats.CityStat, error) { return nil, citiesDown },
		allocationErr: errors.New("allocation down"),
	}
	page := NewLocations(src, discard)
	err := page.Load(context.Background())
	if !errors.Is(err, ErrPageUnavailable) || !errors.Is(err, citiesDown) {
		t.Fatalf("expected ErrPageUnavailable, got %v", err)
	}
	view := page.View()
	if view.Errors[dto.WidgetCities] != MsgLoadFailed || view.Errors[dto.WidgetPriceAllocation] != MsgLoadFailed {
		t.Fatalf("errors = %v", view.Errors)
	}

	src.allocationErr = nil
	if err := NewLocations(src, discard).Load(context.Background()); err != nil {
		t.Fatalf("one working widget keeps the page available: %v", err)
	}
}

func TestTimelineLoadsSelectedRange(t *testing.T) {
	src := &fakeEstate{
		timeline:    []stats.TimelineBucket{{Label: "Tuần 1", TotalPosts: 10}},
		timelineErr: errors.New("prices down"),
	}
	page := NewTimeline(src, discard, time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC))
	page.SetMode(stats.ModeWeeks)
	page.SetMonth(8)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := (stats.TimelineRange{Mode: stats.ModeWeeks, Year: 2025, Month: 8}); src.ranges[0] != want {
		t.Fatalf("range = %+v", src.ranges[0])
	}
	view := page.View()
	if len(view.Counts) != 1 || view.Errors[dto.WidgetTimelinePrice] != MsgTimelinePriceFail || view.Prices == nil {
		t.Fatalf("view = %+v", view)
	}

	page.SetMonth(13)
	if err := page.Load(context.Background()); !errors.Is(err, stats.ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	page := NewSettings(&fakeEstate{sites: []crawl.Website{{Name: "a", Enabled: true}, {Name: "b"}}}, discard)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if view := page.View(); view.EnabledCount != 1 || len(view.Websites) != 2 {
		t.Fatalf("view = %+v", view)
	}

	failing := NewSettings(&fakeEstate{sitesErr: errors.New("down")}, discard)
	if err := failing.Load(context.Background()); !errors.Is(err, ErrPageUnavailable) {
		t.Fatalf("expected ErrPageUnavailable, got %v", err)
	}
	if view := failing.View(); view.Error != MsgWebsitesFailed || view.Websites == nil {
		t.Fatalf("view = %+v", view)
	}
}

func TestPageQueriesThroughBus(t *testing.T) {
	reg := queries.NewInMemoryBus()
	src := &fakeEstate{listingsErr: errors.New("down")}
	Register(reg, commands.NewInMemoryBus(), src, nil, nil, discard)
	bus := middleware.ChainQueries(reg, middleware.QueryValidation(middleware.MessageValidator{}))

	_, err := queries.Ask[DashboardQuery, dto.DashboardView](context.Background(), bus, DashboardQuery{PriceBucket: "1-2"})
	if !errors.Is(err, listings.ErrUnknownPriceBucket) {
		t.Fatalf("expected ErrUnknownPriceBucket, got %v", err)
	}

	view, err := queries.Ask[DashboardQuery, dto.DashboardView](context.Background(), bus, DashboardQuery{Sort: "price_asc"})
	if !errors.Is(err, ErrPageUnavailable) || view.Error != MsgLoadFailed {
		t.Fatalf("page error must travel with the view: %v %+v", err, view)
	}

	_, err = queries.Ask[TimelineQuery, dto.TimelineView](context.Background(), bus, TimelineQuery{Mode: "decade"})
	if !errors.Is(err, stats.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}
