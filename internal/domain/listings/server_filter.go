package listings

import (
	"errors"
	"strings"
)

var ErrInvalidRange = errors.New("listings: invalid range")

// ServerFilter is evaluated by the estate backend rather than in memory.
// Zero values mean "not set" and are not sent.
type ServerFilter struct {
	Types    []string `json:"types,omitempty"`
	City     string   `json:"city,omitempty"`
	MinPrice int64    `json:"min_price,omitempty"`
	MaxPrice int64    `json:"max_price,omitempty"`
	MinArea  float64  `json:"min_area,omitempty"`
	MaxArea  float64  `json:"max_area,omitempty"`
	Sort     string   `json:"sort,omitempty"`
}

// Normalized trims strings, drops blank types and maps the city to its canonical label.
func (f ServerFilter) Normalized() ServerFilter {
	out := f
	out.Types = nil
	for _, t := range f.Types {
		if t = strings.TrimSpace(t); t != "" && !strings.EqualFold(t, All) {
			out.Types = append(out.Types, t)
		}
	}
	out.City = strings.TrimSpace(f.City)
	if strings.EqualFold(out.City, All) {
		out.City = ""
	}
	out.City = CanonicalCity(out.City)
	out.Sort = strings.TrimSpace(f.Sort)
	return out
}

// Validate rejects negative bounds and inverted ranges.
func (f ServerFilter) Validate() error {
	if f.MinPrice < 0 || f.MaxPrice < 0 || f.MinArea < 0 || f.MaxArea < 0 {
		return errors.Join(ErrInvalidRange, errors.New("bounds must not be negative"))
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return errors.Join(ErrInvalidRange, errors.New("min price exceeds max price"))
	}
	if f.MaxArea > 0 && f.MinArea > f.MaxArea {
		return errors.Join(ErrInvalidRange, errors.New("min area exceeds max area"))
	}
	return nil
}
