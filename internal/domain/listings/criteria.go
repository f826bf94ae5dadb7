package listings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// All bypasses a facet or bucket predicate.
const All = "all"

var (
	ErrUnknownPriceBucket = errors.New("listings: unknown price bucket")
	ErrUnknownAreaBucket  = errors.New("listings: unknown area bucket")
)

// FilterCriteria is the active predicate set of a listing view. Predicates are ANDed.
type FilterCriteria struct {
	Search      string `json:"search"`
	City        string `json:"city"`
	Type        string `json:"type"`
	PriceBucket string `json:"price"`
	AreaBucket  string `json:"area"`
}

// DefaultCriteria matches every listing.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{City: All, Type: All, PriceBucket: All, AreaBucket: All}
}

// Normalized trims values and replaces blanks with All.
func (c FilterCriteria) Normalized() FilterCriteria {
	return FilterCriteria{
		Search:      strings.TrimSpace(c.Search),
		City:        orAll(c.City),
		Type:        orAll(c.Type),
		PriceBucket: orAll(c.PriceBucket),
		AreaBucket:  orAll(c.AreaBucket),
	}
}

// Validate rejects bucket keys that are not part of the fixed enumerations.
func (c FilterCriteria) Validate() error {
	n := c.Normalized()
	if n.PriceBucket != All {
		if _, ok := PriceBucket(n.PriceBucket); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPriceBucket, n.PriceBucket)
		}
	}
	if n.AreaBucket != All {
		if _, ok := AreaBucket(n.AreaBucket); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAreaBucket, n.AreaBucket)
		}
	}
	return nil
}

func orAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return All
	}
	return v
}

// Matches reports whether the listing satisfies every active predicate.
func (c FilterCriteria) Matches(l Listing) bool {
	n := c.Normalized()
	return MatchesSearch(l, n.Search) &&
		MatchesCity(l, n.City) &&
		MatchesType(l, n.Type) &&
		MatchesPrice(l, n.PriceBucket) &&
		MatchesArea(l, n.AreaBucket)
}

// Filter returns the matching listings in their original order. The input is not modified.
func Filter(items []Listing, c FilterCriteria) []Listing {
	n := c.Normalized()
	out := make([]Listing, 0, len(items))
	for _, item := range items {
		if n.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// MatchesSearch is a case-insensitive substring match over the searchable fields.
func MatchesSearch(l Listing, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	fields := [...]string{
		l.Title,
		l.Address,
		l.Seller,
		l.City,
		l.Type,
		l.Phone,
		strconv.FormatInt(l.Price, 10),
		l.Link,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MatchesCity compares canonical city labels.
func MatchesCity(l Listing, city string) bool {
	if city == "" || city == All {
		return true
	}
	return CanonicalCity(l.City) == CanonicalCity(city)
}

// MatchesType compares the property type exactly; listings without a type fall back
// to a title substring match.
func MatchesType(l Listing, propertyType string) bool {
	if propertyType == "" || propertyType == All {
		return true
	}
	if strings.TrimSpace(l.Type) == "" {
		return strings.Contains(strings.ToLower(l.Title), strings.ToLower(propertyType))
	}
	return l.Type == propertyType
}

// MatchesPrice tests the price in millions of VND against a price bucket.
// Unknown keys bypass the predicate; callers reject them with Validate.
func MatchesPrice(l Listing, key string) bool {
	if key == "" || key == All {
		return true
	}
	bucket, ok := PriceBucket(key)
	if !ok {
		return true
	}
	return bucket.Contains(l.PriceMillions())
}

// MatchesArea tests the floor area against an area bucket.
func MatchesArea(l Listing, key string) bool {
	if key == "" || key == All {
		return true
	}
	bucket, ok := AreaBucket(key)
	if !ok {
		return true
	}
	return bucket.Contains(l.Area)
}
