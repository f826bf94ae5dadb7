package listings

import (
	"sort"
	"strings"
)

// Result is one rendered page of a filtered, sorted listing collection.
type Result struct {
	Items      []Listing `json:"items"`
	TotalCount int       `json:"total_count"`
	TotalPages int       `json:"total_pages"`
	StartIndex int       `json:"start_index"`
	Page       Page      `json:"pagination"`
	Window     Window    `json:"window"`
}

// View filters, sorts (over the whole filtered set) and paginates items.
// The input slice is left untouched.
func View(items []Listing, criteria FilterCriteria, key SortKey, page, size int) Result {
	filtered := Filter(items, criteria)
	Sort(filtered, key)
	p := Paginate(len(filtered), page, size)
	return Result{
		Items:      Slice(filtered, p),
		TotalCount: p.TotalItems,
		TotalPages: p.TotalPages,
		StartIndex: p.Start,
		Page:       p,
		Window:     PageWindow(p.Number, p.TotalPages, MaxPageButtons),
	}
}

// Options are the distinct facet values offered as filters.
type Options struct {
	Cities []string `json:"cities"`
	Types  []string `json:"types"`
}

// DeriveOptions builds facets from the listings themselves, with cities in canonical form.
func DeriveOptions(items []Listing) Options {
	cities := make(map[string]struct{})
	types := make(map[string]struct{})
	for _, item := range items {
		if city := CanonicalCity(item.City); city != "" {
			cities[city] = struct{}{}
		}
		if t := strings.TrimSpace(item.Type); t != "" {
			types[t] = struct{}{}
		}
	}
	return Options{Cities: sortedKeys(cities), Types: sortedKeys(types)}
}

// Canonical returns a copy of the options with cities canonicalised and de-duplicated.
func (o Options) Canonical() Options {
	cities := make(map[string]struct{}, len(o.Cities))
	for _, c := range o.Cities {
		if city := CanonicalCity(c); city != "" {
			cities[city] = struct{}{}
		}
	}
	types := make(map[string]struct{}, len(o.Types))
	for _, t := range o.Types {
		if t = strings.TrimSpace(t); t != "" {
			types[t] = struct{}{}
		}
	}
	return Options{Cities: sortedKeys(cities), Types: sortedKeys(types)}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
