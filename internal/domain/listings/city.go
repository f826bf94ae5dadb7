package listings

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HoChiMinhCity is the single display label every Ho Chi Minh City spelling maps to.
const HoChiMinhCity = "TP. Hồ Chí Minh"

var cityKeyStripper = strings.NewReplacer(" ", "", "\t", "", ".", "", "đ", "d")

// CanonicalCity maps the many spellings of Ho Chi Minh City ("HCM", "TP.HCM",
// "Hồ Chí Minh", "tp. hcm") to HoChiMinhCity and trims everything else.
func CanonicalCity(city string) string {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return ""
	}
	key := cityKey(trimmed)
	if strings.Contains(key, "hochiminh") || strings.Contains(key, "hcm") {
		return HoChiMinhCity
	}
	return trimmed
}

func cityKey(city string) string {
	return cityKeyStripper.Replace(foldDiacritics(strings.ToLower(city)))
}

// foldDiacritics drops combining marks, so "hồ chí minh" becomes "ho chi minh".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
