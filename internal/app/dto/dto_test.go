package dto

import (
	"testing"

	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/stats"
	"estatedash/internal/domain/valuation"
)

func TestMapListingRow(t *testing.T) {
	row := MapListingRow(listings.Listing{
		ID:         "7",
		City:       "tp.hcm",
		Price:      0,
		Area:       72.5,
		Link:       "https://www.batdongsan.com.vn/ban-nha/7",
		PostedDate: "2025-09-14T03:30:00Z",
	})
	if row.PriceText != "Giá thỏa thuận" {
		t.Fatalf("PriceText = %q", row.PriceText)
	}
	if row.City != listings.HoChiMinhCity {
		t.Fatalf("City = %q", row.City)
	}
	if row.Source != "batdongsan.com.vn" {
		t.Fatalf("Source = %q", row.Source)
	}
	if row.AreaText != "72.5 m²" || row.PostedAt != "14/09/2025 10:30" || row.Legal != "Chưa rõ" {
		t.Fatalf("row = %+v", row)
	}

	row = MapListingRow(listings.Listing{Website: "alonhadat", Link: "https://nhatot.com/1", Price: 1_500_000_000})
	if row.Source != "alonhadat" || row.PriceText != "1.500.000.000 ₫" {
		t.Fatalf("row = %+v", row)
	}
}

func TestMapPagination(t *testing.T) {
	p := MapPagination(listings.Paginate(13, 3, 6))
	if p.Page != 3 || p.TotalPages != 3 || p.StartIndex != 12 || p.HasNext || !p.HasPrev {
		t.Fatalf("pagination = %+v", p)
	}
	if p.RangeText != "Hiển thị 13 - 13 trong tổng số 13 kết quả" || p.PageText != "Trang 3 / 3" {
		t.Fatalf("captions = %q %q", p.RangeText, p.PageText)
	}
	if empty := MapPagination(listings.Paginate(0, 1, 6)); empty.Pages == nil || len(empty.Pages) != 0 {
		t.Fatalf("empty pages = %#v", empty.Pages)
	}
}

func TestMapFacetsOffersAllBucket(t *testing.T) {
	f := MapFacets(listings.Options{})
	if f.Cities == nil || f.Types == nil {
		t.Fatal("facets must encode as empty arrays")
	}
	if len(f.PriceBuckets) != len(listings.PriceBuckets)+1 || f.PriceBuckets[0].Key != listings.All {
		t.Fatalf("price buckets = %+v", f.PriceBuckets)
	}
}

func TestMapTypeShares(t *testing.T) {
	got := MapTypeShares([]stats.TypeShare{{Name: "Nhà phố", Value: 3}, {Name: "Chung cư", Value: 1}})
	if got[0].PercentText != "75.0%" || got[1].PercentText != "25.0%" {
		t.Fatalf("shares = %+v", got)
	}
	if zero := MapTypeShares([]stats.TypeShare{{Name: "x"}}); zero[0].PercentText != "0.0%" {
		t.Fatalf("zero total = %+v", zero)
	}
}

func TestMapStatsRows(t *testing.T) {
	trend := MapPriceTrend([]stats.PriceTrend{{Year: 2025, Month: 9, AveragePrice: 2_450_000_000, PostCount: 12}})
	if trend[0].Label != "09/2025" || trend[0].AveragePriceText != "2.5 tỷ" {
		t.Fatalf("trend = %+v", trend)
	}
	alloc := MapPriceAllocation([]stats.PriceAllocation{{Price: 1_500_000_000, Percent: 42.5}})
	if alloc[0].PriceText != "Dưới 1.5 tỷ" || alloc[0].PercentText != "42.5%" {
		t.Fatalf("allocation = %+v", alloc)
	}
	sellers := MapSellers([]stats.Seller{{Name: "a"}, {Name: "b"}})
	if sellers[1].Rank != 2 {
		t.Fatalf("sellers = %+v", sellers)
	}
}

func TestMapValuation(t *testing.T) {
	res := MapValuation(valuation.Record{ID: "r1", Source: valuation.SourceForm, PredictedPrice: 2_999_999_999.6})
	if res.PredictedPriceText != "3.000.000.000 ₫" || res.Source != "form" {
		t.Fatalf("valuation = %+v", res)
	}
}
