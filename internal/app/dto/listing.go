package dto

import (
	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/shared/format"
)

// ListingRow is a listing with its display strings precomputed.
type ListingRow struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	Seller        string  `json:"seller"`
	Phone         string  `json:"phone"`
	Price         int64   `json:"price"`
	PriceText     string  `json:"price_text"`
	Area          float64 `json:"area"`
	AreaText      string  `json:"area_text"`
	UnitPriceText string  `json:"unit_price_text,omitempty"`
	Type          string  `json:"type"`
	Bedroom       int     `json:"bedroom"`
	Bathroom      int     `json:"bathroom"`
	Legal         string  `json:"legal"`
	PostedAt      string  `json:"posted_at"`
	Link          string  `json:"link"`
	Source        string  `json:"source"`
}

func MapListingRow(l listings.Listing) ListingRow {
	source := l.Website
	if source == "" {
		source = format.Hostname(l.Link)
	}
	return ListingRow{
		ID:            l.ID,
		Title:         l.Title,
		Address:       l.Address,
		City:          listings.CanonicalCity(l.City),
		Seller:        l.Seller,
		Phone:         l.Phone,
		Price:         l.Price,
		PriceText:     format.PriceOrNegotiable(l.Price),
		Area:          l.Area,
		AreaText:      format.Area(l.Area),
		UnitPriceText: format.UnitPrice(l.UnitPrice),
		Type:          l.Type,
		Bedroom:       l.Bedroom,
		Bathroom:      l.Bathroom,
		Legal:         format.Legal(l.Legal),
		PostedAt:      format.DateTime(l.PostedDate),
		Link:          l.Link,
		Source:        source,
	}
}

func MapListingRows(items []listings.Listing) []ListingRow {
	out := make([]ListingRow, 0, len(items))
	for _, item := range items {
		out = append(out, MapListingRow(item))
	}
	return out
}

// Pagination is the page metadata plus the rendered page-button window.
type Pagination struct {
	Page             int    `json:"page"`
	PageSize         int    `json:"page_size"`
	TotalItems       int    `json:"total_items"`
	TotalPages       int    `json:"total_pages"`
	StartIndex       int    `json:"start_index"`
	Pages            []int  `json:"pages"`
	LeadingEllipsis  bool   `json:"leading_ellipsis"`
	TrailingEllipsis bool   `json:"trailing_ellipsis"`
	HasPrev          bool   `json:"has_prev"`
	HasNext          bool   `json:"has_next"`
	RangeText        string `json:"range_text"`
	PageText         string `json:"page_text"`
}

func MapPagination(p listings.Page) Pagination {
	w := listings.PageWindow(p.Number, p.TotalPages, listings.MaxPageButtons)
	return Pagination{
		Page:             p.Number,
		PageSize:         p.Size,
		TotalItems:       p.TotalItems,
		TotalPages:       p.TotalPages,
		StartIndex:       p.Start,
		Pages:            w.Pages,
		LeadingEllipsis:  w.LeadingEllipsis,
		TrailingEllipsis: w.TrailingEllipsis,
		HasPrev:          p.HasPrev(),
		HasNext:          p.HasNext(),
		RangeText:        p.RangeText(),
		PageText:         p.PageOfText(),
	}
}

// BucketOption is a selectable price or area range.
type BucketOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Facets are the choices offered by the filter bar.
type Facets struct {
	Cities       []string       `json:"cities"`
	Types        []string       `json:"types"`
	PriceBuckets []BucketOption `json:"price_buckets"`
	AreaBuckets  []BucketOption `json:"area_buckets"`
}

func MapFacets(opts listings.Options) Facets {
	return Facets{
		Cities:       nonNil(opts.Cities),
		Types:        nonNil(opts.Types),
		PriceBuckets: bucketOptions(listings.PriceBuckets),
		AreaBuckets:  bucketOptions(listings.AreaBuckets),
	}
}

func bucketOptions(buckets []listings.Bucket) []BucketOption {
	out := make([]BucketOption, 0, len(buckets)+1)
	out = append(out, BucketOption{Key: listings.All, Label: "Tất cả"})
	for _, b := range buckets {
		out = append(out, BucketOption{Key: b.Key, Label: b.Label})
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
