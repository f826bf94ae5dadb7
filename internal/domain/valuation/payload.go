package valuation

import (
	"strings"

	"estatedash/internal/domain/address"
	"estatedash/internal/domain/listings"
)

// UnknownLegal is sent when the legal status of a property is not known.
const UnknownLegal = "chưa rõ"

// Payload is the request body of the prediction service. Every field is sent,
// unknown values carry explicit defaults instead of being omitted.
type Payload struct {
	City     string  `json:"city"`
	District string  `json:"district"`
	Ward     string  `json:"ward"`
	Street   string  `json:"street"`
	Area     float64 `json:"area"`
	Type     string  `json:"type"`
	Bedroom  int     `json:"bedroom"`
	Bathroom int     `json:"bathroom"`
	Frontage float64 `json:"frontage"`
	Legal    string  `json:"legal"`
}

// Prediction is the response of the prediction service.
type Prediction struct {
	PredictedPrice float64 `json:"predicted_price"`
}

// FromListing builds a payload from a scraped listing. It never fails: the
// address is parsed for its parts, the parsed city wins over the listing city,
// and absent numbers become 0.
func FromListing(l listings.Listing) Payload {
	parsed := address.Parse(l.Address)
	city := parsed.City
	if city == "" {
		city = strings.TrimSpace(l.City)
	}
	var frontage float64
	if l.Frontage != nil && *l.Frontage > 0 {
		frontage = *l.Frontage
	}
	return Payload{
		City:     city,
		District: parsed.District,
		Ward:     parsed.Ward,
		Street:   parsed.Street,
		Area:     nonNegative(l.Area),
		Type:     strings.TrimSpace(l.Type),
		Bedroom:  max(l.Bedroom, 0),
		Bathroom: max(l.Bathroom, 0),
		Frontage: frontage,
		Legal:    legalOrUnknown(l.Legal),
	}
}

func legalOrUnknown(v string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return UnknownLegal
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
