package format

import "testing"

func TestPrice(t *testing.T) {
	if got := Price(1_500_000_000); got != "1.500.000.000 ₫" {
		t.Fatalf("Price = %q", got)
	}
	if got := PriceOrNegotiable(0); got != Negotiable {
		t.Fatalf("PriceOrNegotiable(0) = %q", got)
	}
	if got := PriceOrNegotiable(950); got != "950 ₫" {
		t.Fatalf("PriceOrNegotiable(950) = %q", got)
	}
}

func TestUnitPrice(t *testing.T) {
	if got := UnitPrice(nil); got != "" {
		t.Fatalf("UnitPrice(nil) = %q", got)
	}
	v := 45_000_000.0
	if got := UnitPrice(&v); got != "45.000.000 ₫/m²" {
		t.Fatalf("UnitPrice = %q", got)
	}
}

func TestBillionsAndArea(t *testing.T) {
	if got := Billions(2_450_000_000); got != "2.5 tỷ" {
		t.Fatalf("Billions = %q", got)
	}
	if got := Area(72.5); got != "72.5 m²" {
		t.Fatalf("Area = %q", got)
	}
	if got := AreaRounded(72.5); got != "72 m²" && got != "73 m²" {
		t.Fatalf("AreaRounded = %q", got)
	}
	if got := Percent(12.345); got != "12.3%" {
		t.Fatalf("Percent = %q", got)
	}
}

func TestDateTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: NotAvailable},
		{raw: "not a date", want: NotAvailable},
		{raw: "2025-09-14T03:30:00Z", want: "14/09/2025 10:30"},
		{raw: "2025-09-14 08:05:00", want: "14/09/2025 08:05"},
		{raw: "2025-09-14", want: "14/09/2025 00:00"},
	}
	for _, tt := range tests {
		if got := DateTime(tt.raw); got != tt.want {
			t.Errorf("DateTime(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
	if got := Date("2025-01-02T00:00:00+07:00"); got != "02/01/2025" {
		t.Errorf("Date = %q", got)
	}
}

func TestLegalAndHostname(t *testing.T) {
	if got := Legal("  "); got != UnknownLegal {
		t.Fatalf("Legal(blank) = %q", got)
	}
	if got := Legal("Sổ đỏ"); got != "Sổ đỏ" {
		t.Fatalf("Legal = %q", got)
	}
	if got := Hostname("https://www.batdongsan.com.vn/ban-nha/123"); got != "batdongsan.com.vn" {
		t.Fatalf("Hostname = %q", got)
	}
	if got := Hostname("::bad"); got != "" {
		t.Fatalf("Hostname(bad) = %q", got)
	}
}
