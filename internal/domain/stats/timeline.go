package stats

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimelineMode selects the granularity of the timeline charts.
type TimelineMode string

const (
	ModeLast7Days TimelineMode = "last7days"
	ModeWeeks     TimelineMode = "weeks"
	ModeYear      TimelineMode = "year"
)

const minYear = 2000

var (
	ErrUnknownMode  = errors.New("stats: unknown timeline mode")
	ErrInvalidYear  = errors.New("stats: invalid year")
	ErrInvalidMonth = errors.New("stats: invalid month")
)

// TimelineRange is the mode plus the year and month it needs.
// Year is used by weeks and year, Month only by weeks.
type TimelineRange struct {
	Mode  TimelineMode `json:"mode"`
	Year  int          `json:"year"`
	Month int          `json:"month"`
}

// DefaultTimelineRange is the last seven days, with year and month preset to now
// so switching mode has sensible values.
func DefaultTimelineRange(now time.Time) TimelineRange {
	return TimelineRange{Mode: ModeLast7Days, Year: now.Year(), Month: int(now.Month())}
}

// ParseTimelineMode accepts the three modes, case-insensitively. Blank means last7days.
func ParseTimelineMode(raw string) (TimelineMode, error) {
	switch mode := TimelineMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return ModeLast7Days, nil
	case ModeLast7Days, ModeWeeks, ModeYear:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

// Validate checks the fields the mode actually uses.
func (r TimelineRange) Validate() error {
	switch r.Mode {
	case ModeLast7Days:
		return nil
	case ModeWeeks:
		if r.Month < 1 || r.Month > 12 {
			return fmt.Errorf("%w: %d", ErrInvalidMonth, r.Month)
		}
		fallthrough
	case ModeYear:
		if r.Year < minYear || r.Year > 9999 {
			return fmt.Errorf("%w: %d", ErrInvalidYear, r.Year)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, r.Mode)
	}
}
