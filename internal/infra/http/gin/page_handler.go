package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"estatedash/internal/app/dto"
	"estatedash/internal/app/pages"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/listings"
)

// PageHandler renders every dashboard page as a JSON view.
type PageHandler struct {
	Queries queries.Bus
}

func askPage[Q queries.Query, V any](c *gin.Context, bus queries.Bus, q Q, parseErr error) {
	if bus == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "page queries unavailable"})
		return
	}
	if parseErr != nil {
		respondError(c, parseErr)
		return
	}
	view, err := queries.Ask[Q, V](c.Request.Context(), bus, q)
	respondView(c, view, err)
}

func (h PageHandler) Dashboard(c *gin.Context) {
	p := params{c: c}
	q := pages.DashboardQuery{
		Search:      p.str("search"),
		City:        p.str("city"),
		Type:        p.str("type"),
		PriceBucket: p.str("price"),
		AreaBucket:  p.str("area"),
		Sort:        p.str("sort"),
		Page:        p.intValue("page"),
	}
	askPage[pages.DashboardQuery, dto.DashboardView](c, h.Queries, q, p.err)
}

func (h PageHandler) Analytics(c *gin.Context) {
	askPage[pages.AnalyticsQuery, dto.AnalyticsView](c, h.Queries, pages.AnalyticsQuery{}, nil)
}

func (h PageHandler) Locations(c *gin.Context) {
	p := params{c: c}
	q := pages.LocationsQuery{Search: p.str("search"), Page: p.intValue("page")}
	askPage[pages.LocationsQuery, dto.LocationsView](c, h.Queries, q, p.err)
}

func (h PageHandler) Properties(c *gin.Context) {
	askPage[pages.PropertiesQuery, dto.PropertiesView](c, h.Queries, pages.PropertiesQuery{}, nil)
}

func (h PageHandler) Filter(c *gin.Context) {
	p := params{c: c}
	q := pages.FilterQuery{
		Filter: listings.ServerFilter{
			Types:    p.list("types"),
			City:     p.str("city"),
			MinPrice: p.int64Value("min_price"),
			MaxPrice: p.int64Value("max_price"),
			MinArea:  p.floatValue("min_area"),
			MaxArea:  p.floatValue("max_area"),
			Sort:     p.str("sort"),
		},
		Apply: p.boolValue("apply"),
		Page:  p.intValue("page"),
	}
	askPage[pages.FilterQuery, dto.FilterView](c, h.Queries, q, p.err)
}

func (h PageHandler) Timeline(c *gin.Context) {
	p := params{c: c}
	q := pages.TimelineQuery{
		Mode:  p.str("mode"),
		Year:  p.intValue("year"),
		Month: p.intValue("month"),
	}
	askPage[pages.TimelineQuery, dto.TimelineView](c, h.Queries, q, p.err)
}

func (h PageHandler) Valuation(c *gin.Context) {
	p := params{c: c}
	q := pages.ValuationQuery{HistoryLimit: p.intValue("history")}
	askPage[pages.ValuationQuery, dto.ValuationView](c, h.Queries, q, p.err)
}

func (h PageHandler) Settings(c *gin.Context) {
	askPage[pages.SettingsQuery, dto.SettingsView](c, h.Queries, pages.SettingsQuery{}, nil)
}

var _ PageHTTP = PageHandler{}
