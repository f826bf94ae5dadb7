package pages

import (
	"context"
	"log/slog"
	"sync"

	"estatedash/internal/app/dto"
	"estatedash/internal/domain/stats"
)

type AnalyticsSource interface {
	PriceTrend(ctx context.Context) ([]stats.PriceTrend, error)
	TypeDistribution(ctx context.Context) ([]stats.TypeShare, error)
	TopSellers(ctx context.Context) ([]stats.Seller, error)
	TopWebsites(ctx context.Context) ([]stats.WebsiteStat, error)
}

// Analytics shows the market charts. Each chart fails on its own.
type Analytics struct {
	source AnalyticsSource
	logger *slog.Logger
	guard  fetchGuard

	mu       sync.Mutex
	trend    []stats.PriceTrend
	types    []stats.TypeShare
	sellers  []stats.Seller
	websites []stats.WebsiteStat
	errors   widgetErrors
}

func NewAnalytics(source AnalyticsSource, logger *slog.Logger) *Analytics {
	return &Analytics{source: source, logger: loggerOrDefault(logger)}
}

func (a *Analytics) Load(ctx context.Context) error {
	const page = "analytics"
	var g widgetLoader
	g.Go(track(ctx, &a.mu, &a.guard, dto.WidgetPriceTrend, a.source.PriceTrend, func(rows []stats.PriceTrend, err error) {
		a.trend = settle(ctx, a.logger, &a.errors, page, dto.WidgetPriceTrend, MsgLoadFailed, rows, err)
	}))
	g.Go(track(ctx, &a.mu, &a.guard, dto.WidgetTypes, a.source.TypeDistribution, func(rows []stats.TypeShare, err error) {
		a.types = settle(ctx, a.logger, &a.errors, page, dto.WidgetTypes, MsgLoadFailed, rows, err)
	}))
	g.Go(track(ctx, &a.mu, &a.guard, dto.WidgetSellers, a.source.TopSellers, func(rows []stats.Seller, err error) {
		a.sellers = settle(ctx, a.logger, &a.errors, page, dto.WidgetSellers, MsgLoadFailed, rows, err)
	}))
	g.Go(track(ctx, &a.mu, &a.guard, dto.WidgetWebsites, a.source.TopWebsites, func(rows []stats.WebsiteStat, err error) {
		a.websites = settle(ctx, a.logger, &a.errors, page, dto.WidgetWebsites, MsgLoadFailed, rows, err)
	}))
	return g.Wait()
}

func (a *Analytics) View() dto.AnalyticsView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return dto.AnalyticsView{
		PriceTrend: dto.MapPriceTrend(a.trend),
		Types:      dto.MapTypeShares(a.types),
		Sellers:    dto.MapSellers(a.sellers),
		Websites:   dto.MapWebsiteStats(a.websites),
		Errors:     a.errors.snapshot(),
	}
}
