package pages

import (
	"context"
	"log/slog"
	"sync"

	"estatedash/internal/app/dto"
	"estatedash/internal/domain/stats"
)

type PropertiesSource interface {
	TypeSummary(ctx context.Context) ([]stats.TypeSummary, error)
	TypeTrend(ctx context.Context) ([]stats.TypeTrend, error)
}

// Properties is the per-type summary table and the seven-day type trend.
type Properties struct {
	source PropertiesSource
	logger *slog.Logger
	guard  fetchGuard

	mu      sync.Mutex
	summary []stats.TypeSummary
	trend   []stats.TypeTrend
	errors  widgetErrors
}

func NewProperties(source PropertiesSource, logger *slog.Logger) *Properties {
	return &Properties{source: source, logger: loggerOrDefault(logger)}
}

func (p *Properties) Load(ctx context.Context) error {
	const page = "properties"
	var g widgetLoader
	g.Go(track(ctx, &p.mu, &p.guard, dto.WidgetSummary, p.source.TypeSummary, func(rows []stats.TypeSummary, err error) {
		p.summary = settle(ctx, p.logger, &p.errors, page, dto.WidgetSummary, MsgSummaryFailed, rows, err)
	}))
	g.Go(track(ctx, &p.mu, &p.guard, dto.WidgetTrend, p.source.TypeTrend, func(rows []stats.TypeTrend, err error) {
		p.trend = settle(ctx, p.logger, &p.errors, page, dto.WidgetTrend, MsgTrendFailed, rows, err)
	}))
	return g.Wait()
}

func (p *Properties) View() dto.PropertiesView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return dto.PropertiesView{
		Summary: dto.MapTypeSummary(p.summary),
		Trend:   dto.MapTypeTrend(p.trend),
		Errors:  p.errors.snapshot(),
	}
}
