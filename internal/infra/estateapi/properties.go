package estateapi

import (
	"context"
	"net/url"
	"strconv"

	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/stats"
)

// Properties returns the full listing collection.
func (c *Client) Properties(ctx context.Context) ([]listings.Listing, error) {
	return getJSON[[]listings.Listing](ctx, c, "properties", "/properties", nil)
}

// PropertyOptions returns the distinct cities and types offered as filters.
func (c *Client) PropertyOptions(ctx context.Context) (listings.Options, error) {
	return getJSON[listings.Options](ctx, c, "property options", "/properties/options", nil)
}

// FilterProperties lets the backend evaluate the filter.
func (c *Client) FilterProperties(ctx context.Context, f listings.ServerFilter) ([]listings.Listing, error) {
	return getJSON[[]listings.Listing](ctx, c, "filtered properties", "/properties/filter", filterValues(f))
}

// filterValues encodes only the set fields; types repeat once per value.
func filterValues(f listings.ServerFilter) url.Values {
	q := url.Values{}
	for _, t := range f.Types {
		q.Add("types", t)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.MinArea > 0 {
		q.Set("minArea", strconv.FormatFloat(f.MinArea, 'f', -1, 64))
	}
	if f.MaxArea > 0 {
		q.Set("maxArea", strconv.FormatFloat(f.MaxArea, 'f', -1, 64))
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	return q
}

func (c *Client) PriceTrend(ctx context.Context) ([]stats.PriceTrend, error) {
	return getJSON[[]stats.PriceTrend](ctx, c, "price trend", "/properties/Month", nil)
}

func (c *Client) TypeDistribution(ctx context.Context) ([]stats.TypeShare, error) {
	return getJSON[[]stats.TypeShare](ctx, c, "type distribution", "/properties/TypeDistribution", nil)
}

func (c *Client) TopSellers(ctx context.Context) ([]stats.Seller, error) {
	return getJSON[[]stats.Seller](ctx, c, "top sellers", "/properties/topsellers", nil)
}

func (c *Client) TopWebsites(ctx context.Context) ([]stats.WebsiteStat, error) {
	return getJSON[[]stats.WebsiteStat](ctx, c, "top websites", "/properties/topwebsite", nil)
}

func (c *Client) CityStats(ctx context.Context) ([]stats.CityStat, error) {
	return getJSON[[]stats.CityStat](ctx, c, "city stats", "/properties/statistics/cities", nil)
}

func (c *Client) PriceAllocation(ctx context.Context) ([]stats.PriceAllocation, error) {
	return getJSON[[]stats.PriceAllocation](ctx, c, "price allocation", "/properties/priceallocation", nil)
}

func (c *Client) TypeSummary(ctx context.Context) ([]stats.TypeSummary, error) {
	return getJSON[[]stats.TypeSummary](ctx, c, "type summary", "/properties/summary", nil)
}

// TypeTrend covers the last seven days.
func (c *Client) TypeTrend(ctx context.Context) ([]stats.TypeTrend, error) {
	return getJSON[[]stats.TypeTrend](ctx, c, "type trend", "/properties/type-trend", nil)
}
