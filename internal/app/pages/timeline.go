package pages

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"estatedash/internal/app/dto"
	"estatedash/internal/domain/stats"
)

type TimelineSource interface {
	Timeline(ctx context.Context, r stats.TimelineRange) ([]stats.TimelineBucket, error)
	TimelinePrices(ctx context.Context, r stats.TimelineRange) ([]stats.TimelinePrice, error)
}

// Timeline charts posting counts and average prices over the selected range.
type Timeline struct {
	source TimelineSource
	logger *slog.Logger
	guard  fetchGuard

	mu     sync.Mutex
	rng    stats.TimelineRange
	counts []stats.TimelineBucket
	prices []stats.TimelinePrice
	errors widgetErrors
}

func NewTimeline(source TimelineSource, logger *slog.Logger, now time.Time) *Timeline {
	return &Timeline{source: source, logger: loggerOrDefault(logger), rng: stats.DefaultTimelineRange(now)}
}

func (t *Timeline) SetMode(mode stats.TimelineMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rng.Mode = mode
}

func (t *Timeline) SetYear(year int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rng.Year = year
}

func (t *Timeline) SetMonth(month int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rng.Month = month
}

// Load fetches both series for the current range. A range change followed by
// Load supersedes any fetch still in flight for the previous range.
func (t *Timeline) Load(ctx context.Context) error {
	t.mu.Lock()
	rng := t.rng
	t.mu.Unlock()
	if err := rng.Validate(); err != nil {
		return err
	}

	const page = "timeline"
	counts := func(ctx context.Context) ([]stats.TimelineBucket, error) { return t.source.Timeline(ctx, rng) }
	prices := func(ctx context.Context) ([]stats.TimelinePrice, error) { return t.source.TimelinePrices(ctx, rng) }

	var g widgetLoader
	g.Go(track(ctx, &t.mu, &t.guard, dto.WidgetTimeline, counts, func(rows []stats.TimelineBucket, err error) {
		t.counts = settle(ctx, t.logger, &t.errors, page, dto.WidgetTimeline, MsgTimelineFailed, rows, err)
	}))
	g.Go(track(ctx, &t.mu, &t.guard, dto.WidgetTimelinePrice, prices, func(rows []stats.TimelinePrice, err error) {
		t.prices = settle(ctx, t.logger, &t.errors, page, dto.WidgetTimelinePrice, MsgTimelinePriceFail, rows, err)
	}))
	return g.Wait()
}

func (t *Timeline) View() dto.TimelineView {
	t.mu.Lock()
	defer t.mu.Unlock()
	counts := t.counts
	if counts == nil {
		counts = []stats.TimelineBucket{}
	}
	return dto.TimelineView{
		Mode:   string(t.rng.Mode),
		Year:   t.rng.Year,
		Month:  t.rng.Month,
		Counts: counts,
		Prices: dto.MapTimelinePrices(t.prices),
		Errors: t.errors.snapshot(),
	}
}
