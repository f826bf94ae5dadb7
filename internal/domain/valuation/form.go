package valuation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrValidation marks a manual form that cannot be submitted.
var ErrValidation = errors.New("valuation: invalid form")

// ValidationError lists the required form fields that were left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("valuation: missing required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Message is the warning shown next to the form.
func (e *ValidationError) Message() string {
	return "Vui lòng nhập đầy đủ thông tin: " + strings.Join(e.Missing, ", ")
}

// Form is the manually entered valuation form. Numeric fields stay text so the
// raw user input can be echoed back.
type Form struct {
	City      string `json:"city" form:"city"`
	District  string `json:"district" form:"district"`
	Ward      string `json:"ward" form:"ward"`
	Street    string `json:"street" form:"street"`
	Area      string `json:"area" form:"area"`
	Type      string `json:"type" form:"type"`
	Bedrooms  string `json:"bedrooms" form:"bedrooms"`
	Bathrooms string `json:"bathrooms" form:"bathrooms"`
	Frontage  string `json:"frontage" form:"frontage"`
	Legal     string `json:"legal" form:"legal"`
}

// RequiredFields are the form fields that must be non-empty.
var RequiredFields = []string{"city", "district", "ward", "street", "area", "type"}

// Validate reports every empty required field at once.
func (f Form) Validate() error {
	values := map[string]string{
		"city":     f.City,
		"district": f.District,
		"ward":     f.Ward,
		"street":   f.Street,
		"area":     f.Area,
		"type":     f.Type,
	}
	var missing []string
	for _, name := range RequiredFields {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// FromForm validates the form and builds a payload. Numbers that do not parse
// fall back to 0.
func FromForm(f Form) (Payload, error) {
	if err := f.Validate(); err != nil {
		return Payload{}, err
	}
	return Payload{
		City:     strings.TrimSpace(f.City),
		District: strings.TrimSpace(f.District),
		Ward:     strings.TrimSpace(f.Ward),
		Street:   strings.TrimSpace(f.Street),
		Area:     parseFloat(f.Area),
		Type:     strings.TrimSpace(f.Type),
		Bedroom:  parseInt(f.Bedrooms),
		Bathroom: parseInt(f.Bathrooms),
		Frontage: parseFloat(f.Frontage),
		Legal:    legalOrUnknown(f.Legal),
	}, nil
}

func parseFloat(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseInt accepts counts up to math.MaxInt32; anything larger falls back to 0.
func parseInt(raw string) int {
	v := parseFloat(raw)
	if v > math.MaxInt32 {
		return 0
	}
	return int(v)
}
