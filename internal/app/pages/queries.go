package pages

import (
	"context"
	"log/slog"
	"time"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	valuationhandlers "estatedash/internal/app/handlers/valuation"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/stats"
	"estatedash/internal/domain/valuation"
)

const (
	dashboardKey       = "pages.dashboard"
	analyticsKey       = "pages.analytics"
	locationsKey       = "pages.locations"
	propertiesKey      = "pages.properties"
	filterKey          = "pages.filter"
	timelineKey        = "pages.timeline"
	valuationKey       = "pages.valuation"
	submitValuationKey = "pages.valuation.submit"
	settingsKey        = "pages.settings"
)

// DashboardQuery renders the dashboard with the given client-side filters.
type DashboardQuery struct {
	Search      string
	City        string
	Type        string
	PriceBucket string
	AreaBucket  string
	Sort        string
	Page        int
}

func (q DashboardQuery) Key() string { return dashboardKey }

func (q DashboardQuery) criteria() listings.FilterCriteria {
	return listings.FilterCriteria{
		Search:      q.Search,
		City:        q.City,
		Type:        q.Type,
		PriceBucket: q.PriceBucket,
		AreaBucket:  q.AreaBucket,
	}
}

func (q DashboardQuery) Validate() error {
	if err := q.criteria().Validate(); err != nil {
		return err
	}
	_, err := listings.ParseSortKey(q.Sort)
	return err
}

type DashboardHandler struct {
	Source DashboardSource
	Logger *slog.Logger
}

func (h *DashboardHandler) Handle(ctx context.Context, q DashboardQuery) (dto.DashboardView, error) {
	sortKey, err := listings.ParseSortKey(q.Sort)
	if err != nil {
		return dto.DashboardView{}, err
	}
	page := NewDashboard(h.Source, h.Logger)
	c := q.criteria()
	page.SetSearch(c.Search)
	page.SetCity(c.City)
	page.SetType(c.Type)
	page.SetPriceBucket(c.PriceBucket)
	page.SetAreaBucket(c.AreaBucket)
	page.SetSort(sortKey)
	page.SetPage(q.Page)
	loadErr := page.Load(ctx)
	return page.View(), loadErr
}

type AnalyticsQuery struct{}

func (q AnalyticsQuery) Key() string { return analyticsKey }

type AnalyticsHandler struct {
	Source AnalyticsSource
	Logger *slog.Logger
}

func (h *AnalyticsHandler) Handle(ctx context.Context, _ AnalyticsQuery) (dto.AnalyticsView, error) {
	page := NewAnalytics(h.Source, h.Logger)
	err := page.Load(ctx)
	return page.View(), err
}

type LocationsQuery struct {
	Search string
	Page   int
}

func (q LocationsQuery) Key() string { return locationsKey }

type LocationsHandler struct {
	Source LocationsSource
	Logger *slog.Logger
}

func (h *LocationsHandler) Handle(ctx context.Context, q LocationsQuery) (dto.LocationsView, error) {
	page := NewLocations(h.Source, h.Logger)
	page.SetSearch(q.Search)
	page.SetPage(q.Page)
	err := page.Load(ctx)
	return page.View(), err
}

type PropertiesQuery struct{}

func (q PropertiesQuery) Key() string { return propertiesKey }

type PropertiesHandler struct {
	Source PropertiesSource
	Logger *slog.Logger
}

func (h *PropertiesHandler) Handle(ctx context.Context, _ PropertiesQuery) (dto.PropertiesView, error) {
	page := NewProperties(h.Source, h.Logger)
	err := page.Load(ctx)
	return page.View(), err
}

// FilterQuery renders the filter page. The server-side filter only runs when
// Apply is set, as the page only filters when the user clicks apply.
type FilterQuery struct {
	Filter listings.ServerFilter
	Apply  bool
	Page   int
}

func (q FilterQuery) Key() string     { return filterKey }
func (q FilterQuery) Validate() error { return q.Filter.Validate() }

type FilterHandler struct {
	Source FilterSource
	Logger *slog.Logger
}

func (h *FilterHandler) Handle(ctx context.Context, q FilterQuery) (dto.FilterView, error) {
	page := NewFilter(h.Source, h.Logger)
	page.SetFilter(q.Filter)
	page.Load(ctx)
	if !q.Apply {
		return page.View(), nil
	}
	err := page.Apply(ctx)
	page.SetPage(q.Page)
	return page.View(), err
}

// TimelineQuery renders the timeline page. A zero Year or Month falls back to now.
type TimelineQuery struct {
	Mode  string
	Year  int
	Month int
	Now   time.Time
}

func (q TimelineQuery) Key() string { return timelineKey }

func (q TimelineQuery) Range() (stats.TimelineRange, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := stats.DefaultTimelineRange(now)
	mode, err := stats.ParseTimelineMode(q.Mode)
	if err != nil {
		return stats.TimelineRange{}, err
	}
	rng.Mode = mode
	if q.Year != 0 {
		rng.Year = q.Year
	}
	if q.Month != 0 {
		rng.Month = q.Month
	}
	return rng, rng.Validate()
}

func (q TimelineQuery) Validate() error {
	_, err := q.Range()
	return err
}

type TimelineHandler struct {
	Source TimelineSource
	Logger *slog.Logger
}

func (h *TimelineHandler) Handle(ctx context.Context, q TimelineQuery) (dto.TimelineView, error) {
	rng, err := q.Range()
	if err != nil {
		return dto.TimelineView{}, err
	}
	page := NewTimeline(h.Source, h.Logger, time.Now())
	page.SetMode(rng.Mode)
	page.SetYear(rng.Year)
	page.SetMonth(rng.Month)
	loadErr := page.Load(ctx)
	return page.View(), loadErr
}

// ValuationQuery renders the empty form with the recent valuation history.
type ValuationQuery struct {
	HistoryLimit int
}

func (q ValuationQuery) Key() string { return valuationKey }

func (q ValuationQuery) Validate() error {
	return valuationhandlers.ListHistoryQuery{Limit: q.HistoryLimit}.Validate()
}

// SubmitValuationCommand submits the manual valuation form and renders the page.
type SubmitValuationCommand struct {
	Form         valuation.Form
	HistoryLimit int
}

func (c SubmitValuationCommand) Key() string { return submitValuationKey }

// ValuationHandler drives the valuation page. Commands is the chained command
// bus the prediction command is dispatched on.
type ValuationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h *ValuationHandler) Handle(ctx context.Context, q ValuationQuery) (dto.ValuationView, error) {
	page := NewValuation(h.Commands, h.Queries, h.Logger)
	page.LoadHistory(ctx, q.HistoryLimit)
	return page.View(), nil
}

func (h *ValuationHandler) Submit(ctx context.Context, cmd SubmitValuationCommand) (dto.ValuationView, error) {
	page := NewValuation(h.Commands, h.Queries, h.Logger)
	page.SetForm(cmd.Form)
	if err := page.Submit(ctx); err != nil {
		// the failure is part of the rendered view
		return page.View(), nil
	}
	page.LoadHistory(ctx, cmd.HistoryLimit)
	return page.View(), nil
}

type SettingsQuery struct{}

func (q SettingsQuery) Key() string { return settingsKey }

type SettingsHandler struct {
	Source SettingsSource
	Logger *slog.Logger
}

func (h *SettingsHandler) Handle(ctx context.Context, _ SettingsQuery) (dto.SettingsView, error) {
	page := NewSettings(h.Source, h.Logger)
	err := page.Load(ctx)
	return page.View(), err
}

// Source is every estate API resource the pages read.
type Source interface {
	DashboardSource
	AnalyticsSource
	LocationsSource
	PropertiesSource
	FilterSource
	TimelineSource
	SettingsSource
}

// Register wires every page query, plus the valuation form submission.
// cmdBus and queryBus are the chained buses the valuation page dispatches on.
func Register(queryReg *queries.InMemoryBus, cmdReg *commands.InMemoryBus, source Source, cmdBus commands.Bus, queryBus queries.Bus, logger *slog.Logger) {
	queries.Register[DashboardQuery, dto.DashboardView](queryReg, &DashboardHandler{Source: source, Logger: logger})
	queries.Register[AnalyticsQuery, dto.AnalyticsView](queryReg, &AnalyticsHandler{Source: source, Logger: logger})
	queries.Register[LocationsQuery, dto.LocationsView](queryReg, &LocationsHandler{Source: source, Logger: logger})
	queries.Register[PropertiesQuery, dto.PropertiesView](queryReg, &PropertiesHandler{Source: source, Logger: logger})
	queries.Register[FilterQuery, dto.FilterView](queryReg, &FilterHandler{Source: source, Logger: logger})
	queries.Register[TimelineQuery, dto.TimelineView](queryReg, &TimelineHandler{Source: source, Logger: logger})
	queries.Register[SettingsQuery, dto.SettingsView](queryReg, &SettingsHandler{Source: source, Logger: logger})

	valuationPage := &ValuationHandler{Commands: cmdBus, Queries: queryBus, Logger: logger}
	queries.Register[ValuationQuery, dto.ValuationView](queryReg, valuationPage)
	commands.Register[SubmitValuationCommand, dto.ValuationView](cmdReg, commands.HandlerFunc[SubmitValuationCommand, dto.ValuationView](valuationPage.Submit))
}
