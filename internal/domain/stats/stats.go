// Package stats holds the aggregated, server-computed records rendered as charts
// and ranking tables. They are decoded as served and only formatted for display.
package stats

// PriceTrend is the monthly average price and posting volume.
type PriceTrend struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	AveragePrice float64 `json:"averagePrice"`
	PostCount    int     `json:"postcount"`
}

// TypeShare is one slice of the property type distribution.
type TypeShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Seller is a row of the top sellers ranking.
type Seller struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Listings int    `json:"listings"`
}

// WebsiteStat is the number of listings crawled from one source website.
type WebsiteStat struct {
	Name     string `json:"name"`
	Listings int    `json:"listings"`
}

// CityStat summarises the market of one city.
type CityStat struct {
	City         string  `json:"city"`
	PostCount    int     `json:"postcount"`
	AveragePrice float64 `json:"averagePrice"`
	PopularType  string  `json:"popularType"`
}

// PriceAllocation is the share of listings priced below Price.
type PriceAllocation struct {
	Price   float64 `json:"price"`
	Percent float64 `json:"percent"`
}

// TypeSummary aggregates every listing of one property type.
type TypeSummary struct {
	Type          string  `json:"type"`
	TotalListings int     `json:"totalListings"`
	AvgPrice      float64 `json:"avgPrice"`
	AvgArea       float64 `json:"avgArea"`
	MarketShare   float64 `json:"marketShare"`
	HotCity       string  `json:"hotCity"`
	MinPrice      float64 `json:"minPrice"`
	MaxPrice      float64 `json:"maxPrice"`
}

// TypeTrend is the daily volume of one property type.
type TypeTrend struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
	AvgArea  float64 `json:"avgArea"`
}

// TimelineBucket is the posting count of one timeline slot.
type TimelineBucket struct {
	Label      string `json:"label"`
	TotalPosts int    `json:"totalPosts"`
}

// TimelinePrice is the average price of one timeline slot.
type TimelinePrice struct {
	Label    string  `json:"label"`
	AvgPrice float64 `json:"avgPrice"`
}
