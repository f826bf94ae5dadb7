package ginserver

import (
	"fmt"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/handlers/reports"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/listings"
)

// ReportHandler exports the dashboard selection as a workbook.
type ReportHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type selectionRequest struct {
	Search      string `json:"search"`
	City        string `json:"city"`
	Type        string `json:"type"`
	PriceBucket string `json:"price"`
	AreaBucket  string `json:"area"`
	Sort        string `json:"sort"`
}

func (r selectionRequest) selection() reports.Selection {
	return reports.Selection{
		Criteria: listings.FilterCriteria{
			Search:      r.Search,
			City:        r.City,
			Type:        r.Type,
			PriceBucket: r.PriceBucket,
			AreaBucket:  r.AreaBucket,
		},
		Sort: r.Sort,
	}
}

// Download streams the workbook, taking the same filter parameters as the dashboard page.
func (h ReportHandler) Download(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	p := params{c: c}
	req := selectionRequest{
		Search:      p.str("search"),
		City:        p.str("city"),
		Type:        p.str("type"),
		PriceBucket: p.str("price"),
		AreaBucket:  p.str("area"),
		Sort:        p.str("sort"),
	}
	q := reports.DownloadListingsQuery{Selection: req.selection()}
	file, err := queries.Ask[reports.DownloadListingsQuery, dto.ReportFile](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("X-Report-Rows", strconv.Itoa(file.Rows))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Export stores the workbook in report storage and returns its download link.
func (h ReportHandler) Export(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req selectionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd := reports.ExportListingsCommand{Selection: req.selection()}
	result, err := commands.Dispatch[reports.ExportListingsCommand, dto.ReportResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ ReportHTTP = ReportHandler{}
