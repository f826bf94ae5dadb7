// Package format renders values for display the way the Vietnamese dashboard shows them.
package format

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// NotAvailable is shown for missing or unparseable dates.
	NotAvailable = "Chưa có"
	// UnknownLegal is shown for a blank legal status.
	UnknownLegal = "Chưa rõ"
	// Negotiable is shown instead of a zero price.
	Negotiable = "Giá thỏa thuận"

	currencySymbol = "₫"
)

var (
	viPrinter = message.NewPrinter(language.Vietnamese)
	// Local is the display time zone (UTC+7).
	Local = time.FixedZone("ICT", 7*60*60)
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTimestamp accepts the timestamp shapes the estate API emits.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Number groups digits with the vi-VN separator.
func Number(n int64) string {
	return viPrinter.Sprintf("%d", n)
}

// Price formats an amount of VND, e.g. "1.500.000.000 ₫".
func Price(amount int64) string {
	return Number(amount) + " " + currencySymbol
}

// PriceOrNegotiable formats a listing price; zero means the seller did not publish one.
func PriceOrNegotiable(amount int64) string {
	if amount <= 0 {
		return Negotiable
	}
	return Price(amount)
}

// UnitPrice formats a per-square-metre price, or "" when unknown.
func UnitPrice(amount *float64) string {
	if amount == nil || *amount <= 0 {
		return ""
	}
	return Price(int64(*amount+0.5)) + "/m²"
}

// Billions renders an amount in "tỷ" with one decimal, e.g. "2.5 tỷ".
func Billions(amount float64) string {
	return fmt.Sprintf("%.1f tỷ", amount/1_000_000_000)
}

// Area renders square metres without trailing zeros.
func Area(m2 float64) string {
	return strconv.FormatFloat(m2, 'f', -1, 64) + " m²"
}

// AreaRounded renders an average area with no decimals.
func AreaRounded(m2 float64) string {
	return fmt.Sprintf("%.0f m²", m2)
}

// Percent renders a share with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// DateTime renders dd/MM/yyyy HH:mm in local time.
func DateTime(raw string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return NotAvailable
	}
	return t.In(Local).Format("02/01/2006 15:04")
}

// Date renders dd/MM/yyyy in local time.
func Date(raw string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return NotAvailable
	}
	return t.In(Local).Format("02/01/2006")
}

// Legal returns the legal status or the unknown marker.
func Legal(legal string) string {
	if strings.TrimSpace(legal) == "" {
		return UnknownLegal
	}
	return legal
}

// Hostname extracts the source website host from a listing link.
func Hostname(link string) string {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
