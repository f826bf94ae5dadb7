package estateapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"estatedash/internal/domain/stats"
)

func yearQuery(year int) url.Values {
	return url.Values{"year": {strconv.Itoa(year)}}
}

func weeksQuery(year, month int) url.Values {
	return url.Values{"year": {strconv.Itoa(year)}, "month": {strconv.Itoa(month)}}
}

func (c *Client) TimelineLast7Days(ctx context.Context) ([]stats.TimelineBucket, error) {
	return getJSON[[]stats.TimelineBucket](ctx, c, "timeline last 7 days", "/timeline/last7days", nil)
}

func (c *Client) TimelineByWeeks(ctx context.Context, year, month int) ([]stats.TimelineBucket, error) {
	return getJSON[[]stats.TimelineBucket](ctx, c, "timeline weeks", "/timeline/weeks", weeksQuery(year, month))
}

func (c *Client) TimelineByYear(ctx context.Context, year int) ([]stats.TimelineBucket, error) {
	return getJSON[[]stats.TimelineBucket](ctx, c, "timeline year", "/timeline/year", yearQuery(year))
}

func (c *Client) PriceLast7Days(ctx context.Context) ([]stats.TimelinePrice, error) {
	return getJSON[[]stats.TimelinePrice](ctx, c, "average price last 7 days", "/timeline/price/last7days", nil)
}

func (c *Client) PriceByWeeks(ctx context.Context, year, month int) ([]stats.TimelinePrice, error) {
	return getJSON[[]stats.TimelinePrice](ctx, c, "average price weeks", "/timeline/price/weeks", weeksQuery(year, month))
}

func (c *Client) PriceByYear(ctx context.Context, year int) ([]stats.TimelinePrice, error) {
	return getJSON[[]stats.TimelinePrice](ctx, c, "average price year", "/timeline/price/year", yearQuery(year))
}

// Timeline dispatches to the count endpoint of the range's mode.
func (c *Client) Timeline(ctx context.Context, r stats.TimelineRange) ([]stats.TimelineBucket, error) {
	switch r.Mode {
	case stats.ModeLast7Days:
		return c.TimelineLast7Days(ctx)
	case stats.ModeWeeks:
		return c.TimelineByWeeks(ctx, r.Year, r.Month)
	case stats.ModeYear:
		return c.TimelineByYear(ctx, r.Year)
	default:
		return nil, fmt.Errorf("%w: %q", stats.ErrUnknownMode, r.Mode)
	}
}

// TimelinePrices dispatches to the average price endpoint of the range's mode.
func (c *Client) TimelinePrices(ctx context.Context, r stats.TimelineRange) ([]stats.TimelinePrice, error) {
	switch r.Mode {
	case stats.ModeLast7Days:
		return c.PriceLast7Days(ctx)
	case stats.ModeWeeks:
		return c.PriceByWeeks(ctx, r.Year, r.Month)
	case stats.ModeYear:
		return c.PriceByYear(ctx, r.Year)
	default:
		return nil, fmt.Errorf("%w: %q", stats.ErrUnknownMode, r.Mode)
	}
}
