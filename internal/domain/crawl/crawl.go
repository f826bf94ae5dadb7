package crawl

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"estatedash/internal/domain/shared/events"
)

// Website is one crawler target of the scraper backend.
type Website struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// Ack is the scraper backend's answer to a control request.
type Ack struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

const maxScheduleHours = 24 * 30

var (
	ErrNoWebsites      = errors.New("crawl: at least one website is required")
	ErrInvalidSchedule = errors.New("crawl: schedule hours must be positive")
)

// NormalizeNames trims, drops blanks and de-duplicates website names keeping first-seen order.
func NormalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ValidateNames requires at least one non-blank name.
func ValidateNames(names []string) error {
	if len(NormalizeNames(names)) == 0 {
		return ErrNoWebsites
	}
	return nil
}

// ValidateSchedule accepts between one hour and thirty days.
func ValidateSchedule(hours int) error {
	if hours <= 0 || hours > maxScheduleHours {
		return fmt.Errorf("%w: %d", ErrInvalidSchedule, hours)
	}
	return nil
}

// EnabledNames lists the names of enabled websites, sorted.
func EnabledNames(sites []Website) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		if site.Enabled {
			out = append(out, site.Name)
		}
	}
	sort.Strings(out)
	return out
}

const aggregate = "crawler"

// WebsitesToggled is raised after websites were enabled or disabled.
type WebsitesToggled struct {
	events.BaseEvent
	Names   []string `json:"names"`
	Enabled bool     `json:"enabled"`
}

func NewWebsitesToggled(names []string, enabled bool, at time.Time) WebsitesToggled {
	name := "websites.disabled"
	if enabled {
		name = "websites.enabled"
	}
	return WebsitesToggled{
		BaseEvent: events.BaseEvent{Name: name, Aggregate: aggregate, Time: at},
		Names:     names,
		Enabled:   enabled,
	}
}

// Requested is raised after an immediate crawl was triggered.
type Requested struct {
	events.BaseEvent
	Websites []string `json:"websites"`
}

func NewRequested(websites []string, at time.Time) Requested {
	return Requested{
		BaseEvent: events.BaseEvent{Name: "crawl.requested", Aggregate: aggregate, Time: at},
		Websites:  websites,
	}
}

// Stopped is raised after the running crawl was stopped.
type Stopped struct {
	events.BaseEvent
}

func NewStopped(at time.Time) Stopped {
	return Stopped{BaseEvent: events.BaseEvent{Name: "crawl.stopped", Aggregate: aggregate, Time: at}}
}

// Scheduled is raised after the crawl interval changed.
type Scheduled struct {
	events.BaseEvent
	Hours int `json:"hours"`
}

func NewScheduled(hours int, at time.Time) Scheduled {
	return Scheduled{
		BaseEvent: events.BaseEvent{Name: "crawl.scheduled", Aggregate: aggregate, Time: at},
		Hours:     hours,
	}
}
