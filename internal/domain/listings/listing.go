package listings

import (
	"strings"
	"time"

	"estatedash/internal/domain/shared/format"
)

// Listing is one scraped real-estate posting as served by the estate API.
// It is read-only for this service and lives only as long as the page that fetched it.
type Listing struct {
	ID         string   `json:"_id"`
	Title      string   `json:"title"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	Seller     string   `json:"seller"`
	Phone      string   `json:"numberPhone"`
	Price      int64    `json:"price"`
	Area       float64  `json:"area"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	PostedDate string   `json:"postedDate"`
	Link       string   `json:"link"`
	Legal      string   `json:"legal"`
	Frontage   *float64 `json:"frontage,omitempty"`
	Type       string   `json:"type"`
	Bedroom    int      `json:"bedroom"`
	Bathroom   int      `json:"bathroom"`
	Website    string   `json:"website"`
}

// PriceMillions is the price expressed in millions of VND, the unit of price buckets.
func (l Listing) PriceMillions() float64 {
	return float64(l.Price) / 1_000_000
}

var epoch = time.Unix(0, 0).UTC()

// Posted returns the posting time, or the Unix epoch when it is missing or malformed.
func (l Listing) Posted() time.Time {
	if t, ok := format.ParseTimestamp(l.PostedDate); ok {
		return t
	}
	return epoch
}

// FindByID returns the listing with the given identifier.
func FindByID(items []Listing, id string) (Listing, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Listing{}, false
	}
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Listing{}, false
}
