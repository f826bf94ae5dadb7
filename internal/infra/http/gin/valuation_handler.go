package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	valuationapp "estatedash/internal/app/handlers/valuation"
	"estatedash/internal/app/pages"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/valuation"
)

type ValuationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Submit accepts the manual form as JSON or form fields and answers with the
// rendered valuation page: 422 when fields are missing, 502 when the
// prediction failed.
func (h ValuationHandler) Submit(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var form valuation.Form
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := params{c: c}
	cmd := pages.SubmitValuationCommand{Form: form, HistoryLimit: p.intValue("history")}
	if p.err != nil {
		respondError(c, p.err)
		return
	}
	view, err := commands.Dispatch[pages.SubmitValuationCommand, dto.ValuationView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	switch {
	case view.Warning != "":
		c.JSON(http.StatusUnprocessableEntity, view)
	case view.Error != "":
		c.JSON(http.StatusBadGateway, view)
	default:
		c.JSON(http.StatusOK, view)
	}
}

func (h ValuationHandler) PredictListing(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	cmd := valuationapp.PredictListingCommand{ListingID: id}
	result, err := commands.Dispatch[valuationapp.PredictListingCommand, dto.ValuationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ValuationHandler) History(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	p := params{c: c}
	q := valuationapp.ListHistoryQuery{Limit: p.intValue("limit")}
	if p.err != nil {
		respondError(c, p.err)
		return
	}
	items, err := queries.Ask[valuationapp.ListHistoryQuery, []dto.ValuationResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

var _ ValuationHTTP = ValuationHandler{}
