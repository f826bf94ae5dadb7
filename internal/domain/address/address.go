package address

import "strings"

// Address is a free-text postal address split into its administrative parts.
// Segments follow the Vietnamese convention: most specific first.
type Address struct {
	Street   string `json:"street"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
}

// Parse splits a comma-delimited address by segment count.
//
//	1 segment  -> street
//	2 segments -> street, district
//	3 segments -> street, district, city (ward stays empty)
//	4+         -> street, ward, district, city; extra segments are ignored
func Parse(raw string) Address {
	if strings.TrimSpace(raw) == "" {
		return Address{}
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var out Address
	switch len(parts) {
	case 1:
		out.Street = parts[0]
	case 2:
		out.Street = parts[0]
		out.District = parts[1]
	case 3:
		out.Street = parts[0]
		out.District = parts[1]
		out.City = parts[2]
	default:
		out.Street = parts[0]
		out.Ward = parts[1]
		out.District = parts[2]
		out.City = parts[3]
	}
	return out
}
