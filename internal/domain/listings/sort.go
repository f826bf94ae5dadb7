package listings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SortKey selects the ordering of a listing view. The zero value keeps insertion order.
type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortAreaAsc   SortKey = "area_asc"
	SortAreaDesc  SortKey = "area_desc"
	SortDateAsc   SortKey = "date_asc"
	SortDateDesc  SortKey = "date_desc"
)

var ErrUnknownSort = errors.New("listings: unknown sort key")

// ParseSortKey accepts the supported keys plus "none"/"" for insertion order.
func ParseSortKey(raw string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	switch key {
	case SortNone, SortPriceAsc, SortPriceDesc, SortAreaAsc, SortAreaDesc, SortDateAsc, SortDateDesc:
		return key, nil
	case "none":
		return SortNone, nil
	default:
		return SortNone, fmt.Errorf("%w: %q", ErrUnknownSort, raw)
	}
}

// Sort orders items in place. The sort is stable, so equal keys keep their relative order.
func Sort(items []Listing, key SortKey) {
	less := lessFor(key)
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

func lessFor(key SortKey) func(a, b Listing) bool {
	switch key {
	case SortPriceAsc:
		return func(a, b Listing) bool { return a.Price < b.Price }
	case SortPriceDesc:
		return func(a, b Listing) bool { return a.Price > b.Price }
	case SortAreaAsc:
		return func(a, b Listing) bool { return a.Area < b.Area }
	case SortAreaDesc:
		return func(a, b Listing) bool { return a.Area > b.Area }
	case SortDateAsc:
		return func(a, b Listing) bool { return a.Posted().Before(b.Posted()) }
	case SortDateDesc:
		return func(a, b Listing) bool { return a.Posted().After(b.Posted()) }
	default:
		return nil
	}
}
