package dto

import (
	"fmt"
	"strconv"

	"estatedash/internal/domain/shared/format"
	"estatedash/internal/domain/stats"
)

// Widget keys used in the per-widget error maps of the page views.
const (
	WidgetListings        = "listings"
	WidgetOptions         = "options"
	WidgetPriceTrend      = "price_trend"
	WidgetTypes           = "types"
	WidgetSellers         = "sellers"
	WidgetWebsites        = "websites"
	WidgetCities          = "cities"
	WidgetPriceAllocation = "price_allocation"
	WidgetSummary         = "summary"
	WidgetTrend           = "trend"
	WidgetTimeline        = "timeline"
	WidgetTimelinePrice   = "timeline_price"
	WidgetHistory         = "history"
)

// DashboardFilters echoes the active client-side filters.
type DashboardFilters struct {
	Search      string `json:"search"`
	City        string `json:"city"`
	Type        string `json:"type"`
	PriceBucket string `json:"price_bucket"`
	AreaBucket  string `json:"area_bucket"`
	Sort        string `json:"sort"`
}

type DashboardView struct {
	Filters    DashboardFilters  `json:"filters"`
	Facets     Facets            `json:"facets"`
	Listings   []ListingRow      `json:"listings"`
	Pagination Pagination        `json:"pagination"`
	Error      string            `json:"error,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

type PriceTrendPoint struct {
	Label            string  `json:"label"`
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	AveragePrice     float64 `json:"average_price"`
	AveragePriceText string  `json:"average_price_text"`
	PostCount        int     `json:"post_count"`
}

type TypeShareSlice struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	PercentText string  `json:"percent_text"`
}

type RankingRow struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Listings int    `json:"listings"`
}

type AnalyticsView struct {
	PriceTrend []PriceTrendPoint `json:"price_trend"`
	Types      []TypeShareSlice  `json:"types"`
	Sellers    []RankingRow      `json:"sellers"`
	Websites   []RankingRow      `json:"websites"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func MapPriceTrend(items []stats.PriceTrend) []PriceTrendPoint {
	out := make([]PriceTrendPoint, 0, len(items))
	for _, item := range items {
		out = append(out, PriceTrendPoint{
			Label:            fmt.Sprintf("%02d/%d", item.Month, item.Year),
			Year:             item.Year,
			Month:            item.Month,
			AveragePrice:     item.AveragePrice,
			AveragePriceText: format.Billions(item.AveragePrice),
			PostCount:        item.PostCount,
		})
	}
	return out
}

// MapTypeShares renders each slice as a percentage of the whole distribution.
func MapTypeShares(items []stats.TypeShare) []TypeShareSlice {
	var total float64
	for _, item := range items {
		total += item.Value
	}
	out := make([]TypeShareSlice, 0, len(items))
	for _, item := range items {
		var pct float64
		if total > 0 {
			pct = item.Value / total * 100
		}
		out = append(out, TypeShareSlice{Name: item.Name, Value: item.Value, PercentText: format.Percent(pct)})
	}
	return out
}

func MapSellers(items []stats.Seller) []RankingRow {
	out := make([]RankingRow, 0, len(items))
	for i, item := range items {
		out = append(out, RankingRow{Rank: i + 1, Name: item.Name, Phone: item.Phone, Listings: item.Listings})
	}
	return out
}

func MapWebsiteStats(items []stats.WebsiteStat) []RankingRow {
	out := make([]RankingRow, 0, len(items))
	for i, item := range items {
		out = append(out, RankingRow{Rank: i + 1, Name: item.Name, Listings: item.Listings})
	}
	return out
}

type CityRow struct {
	City             string  `json:"city"`
	PostCount        int     `json:"post_count"`
	AveragePrice     float64 `json:"average_price"`
	AveragePriceText string  `json:"average_price_text"`
	PopularType      string  `json:"popular_type"`
}

// AllocationPoint is the share of listings priced below Price.
type AllocationPoint struct {
	Price       float64 `json:"price"`
	PriceText   string  `json:"price_text"`
	Percent     float64 `json:"percent"`
	PercentText string  `json:"percent_text"`
}

type LocationsView struct {
	Search          string            `json:"search"`
	Cities          []CityRow         `json:"cities"`
	Pagination      Pagination        `json:"pagination"`
	PriceAllocation []AllocationPoint `json:"price_allocation"`
	Errors          map[string]string `json:"errors,omitempty"`
}

func MapCityRows(items []stats.CityStat) []CityRow {
	out := make([]CityRow, 0, len(items))
	for _, item := range items {
		out = append(out, CityRow{
			City:             item.City,
			PostCount:        item.PostCount,
			AveragePrice:     item.AveragePrice,
			AveragePriceText: format.Billions(item.AveragePrice),
			PopularType:      item.PopularType,
		})
	}
	return out
}

func MapPriceAllocation(items []stats.PriceAllocation) []AllocationPoint {
	out := make([]AllocationPoint, 0, len(items))
	for _, item := range items {
		out = append(out, AllocationPoint{
			Price:       item.Price,
			PriceText:   "Dưới " + strconv.FormatFloat(item.Price/1_000_000_000, 'f', -1, 64) + " tỷ",
			Percent:     item.Percent,
			PercentText: format.Percent(item.Percent),
		})
	}
	return out
}

type TypeSummaryRow struct {
	Type            string  `json:"type"`
	TotalListings   int     `json:"total_listings"`
	AvgPrice        float64 `json:"avg_price"`
	AvgPriceText    string  `json:"avg_price_text"`
	AvgAreaText     string  `json:"avg_area_text"`
	MarketShare     float64 `json:"market_share"`
	MarketShareText string  `json:"market_share_text"`
	HotCity         string  `json:"hot_city"`
	MinPriceText    string  `json:"min_price_text"`
	MaxPriceText    string  `json:"max_price_text"`
}

type TypeTrendRow struct {
	Date         string  `json:"date"`
	Type         string  `json:"type"`
	Count        int     `json:"count"`
	AvgPrice     float64 `json:"avg_price"`
	AvgPriceText string  `json:"avg_price_text"`
	AvgAreaText  string  `json:"avg_area_text"`
}

type PropertiesView struct {
	Summary []TypeSummaryRow  `json:"summary"`
	Trend   []TypeTrendRow    `json:"trend"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func MapTypeSummary(items []stats.TypeSummary) []TypeSummaryRow {
	out := make([]TypeSummaryRow, 0, len(items))
	for _, item := range items {
		out = append(out, TypeSummaryRow{
			Type:            item.Type,
			TotalListings:   item.TotalListings,
			AvgPrice:        item.AvgPrice,
			AvgPriceText:    format.Billions(item.AvgPrice),
			AvgAreaText:     format.AreaRounded(item.AvgArea),
			MarketShare:     item.MarketShare,
			MarketShareText: format.Percent(item.MarketShare),
			HotCity:         item.HotCity,
			MinPriceText:    format.Billions(item.MinPrice),
			MaxPriceText:    format.Billions(item.MaxPrice),
		})
	}
	return out
}

func MapTypeTrend(items []stats.TypeTrend) []TypeTrendRow {
	out := make([]TypeTrendRow, 0, len(items))
	for _, item := range items {
		out = append(out, TypeTrendRow{
			Date:         format.Date(item.Date),
			Type:         item.Type,
			Count:        item.Count,
			AvgPrice:     item.AvgPrice,
			AvgPriceText: format.Billions(item.AvgPrice),
			AvgAreaText:  format.AreaRounded(item.AvgArea),
		})
	}
	return out
}

// ServerFilter echoes the filter sent to the estate API.
type ServerFilter struct {
	Types    []string `json:"types"`
	City     string   `json:"city"`
	MinPrice int64    `json:"min_price"`
	MaxPrice int64    `json:"max_price"`
	MinArea  float64  `json:"min_area"`
	MaxArea  float64  `json:"max_area"`
	Sort     string   `json:"sort"`
}

type FilterView struct {
	Filter     ServerFilter      `json:"filter"`
	Facets     Facets            `json:"facets"`
	Applied    bool              `json:"applied"`
	Listings   []ListingRow      `json:"listings"`
	Pagination Pagination        `json:"pagination"`
	Errors     map[string]string `json:"errors,omitempty"`
}

type TimelinePoint struct {
	Label        string  `json:"label"`
	AvgPrice     float64 `json:"avg_price"`
	AvgPriceText string  `json:"avg_price_text"`
}

type TimelineView struct {
	Mode   string                 `json:"mode"`
	Year   int                    `json:"year"`
	Month  int                    `json:"month"`
	Counts []stats.TimelineBucket `json:"counts"`
	Prices []TimelinePoint        `json:"prices"`
	Errors map[string]string      `json:"errors,omitempty"`
}

func MapTimelinePrices(items []stats.TimelinePrice) []TimelinePoint {
	out := make([]TimelinePoint, 0, len(items))
	for _, item := range items {
		out = append(out, TimelinePoint{Label: item.Label, AvgPrice: item.AvgPrice, AvgPriceText: format.Billions(item.AvgPrice)})
	}
	return out
}
