package pages

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"estatedash/internal/app/dto"
	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/stats"
)

// PageSizeLocations is the number of cities per page.
const PageSizeLocations = 5

type LocationsSource interface {
	CityStats(ctx context.Context) ([]stats.CityStat, error)
	PriceAllocation(ctx context.Context) ([]stats.PriceAllocation, error)
}

// Locations lists per-city statistics with a city-name search, next to the
// price allocation chart.
type Locations struct {
	source LocationsSource
	logger *slog.Logger
	guard  fetchGuard

	mu         sync.Mutex
	cities     []stats.CityStat
	allocation []stats.PriceAllocation
	search     string
	page       int
	errors     widgetErrors
}

func NewLocations(source LocationsSource, logger *slog.Logger) *Locations {
	return &Locations{source: source, logger: loggerOrDefault(logger), page: 1}
}

func (l *Locations) SetSearch(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = term
	l.page = 1
}

func (l *Locations) SetPage(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = n
}

func (l *Locations) Load(ctx context.Context) error {
	const page = "locations"
	var g widgetLoader
	g.Go(track(ctx, &l.mu, &l.guard, dto.WidgetCities, l.source.CityStats, func(rows []stats.CityStat, err error) {
		l.cities = settle(ctx, l.logger, &l.errors, page, dto.WidgetCities, MsgLoadFailed, rows, err)
	}))
	g.Go(track(ctx, &l.mu, &l.guard, dto.WidgetPriceAllocation, l.source.PriceAllocation, func(rows []stats.PriceAllocation, err error) {
		l.allocation = settle(ctx, l.logger, &l.errors, page, dto.WidgetPriceAllocation, MsgLoadFailed, rows, err)
	}))
	return g.Wait()
}

// matchingCities drops rows without a city name and applies the search.
func (l *Locations) matchingCities() []stats.CityStat {
	term := strings.ToLower(strings.TrimSpace(l.search))
	out := make([]stats.CityStat, 0, len(l.cities))
	for _, c := range l.cities {
		if strings.TrimSpace(c.City) == "" {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(c.City), term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (l *Locations) View() dto.LocationsView {
	l.mu.Lock()
	defer l.mu.Unlock()

	cities := l.matchingCities()
	p := listings.Paginate(len(cities), l.page, PageSizeLocations)
	l.page = p.Number
	return dto.LocationsView{
		Search:          l.search,
		Cities:          dto.MapCityRows(listings.Slice(cities, p)),
		Pagination:      dto.MapPagination(p),
		PriceAllocation: dto.MapPriceAllocation(l.allocation),
		Errors:          l.errors.snapshot(),
	}
}
