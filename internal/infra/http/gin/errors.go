package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/handlers/reports"
	valuationapp "estatedash/internal/app/handlers/valuation"
	"estatedash/internal/app/middleware"
	"estatedash/internal/app/pages"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/crawl"
	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/stats"
	"estatedash/internal/domain/valuation"
	"estatedash/internal/infra/estateapi"
	"estatedash/internal/infra/pricing"
)

var badRequest = []error{
	listings.ErrUnknownPriceBucket,
	listings.ErrUnknownAreaBucket,
	listings.ErrUnknownSort,
	listings.ErrInvalidRange,
	stats.ErrUnknownMode,
	stats.ErrInvalidYear,
	stats.ErrInvalidMonth,
	valuationapp.ErrInvalidLimit,
}

var unprocessable = []error{
	valuation.ErrValidation,
	valuationapp.ErrListingRequired,
	crawl.ErrNoWebsites,
	crawl.ErrInvalidSchedule,
}

var upstream = []error{
	pages.ErrPageUnavailable,
	pricing.ErrPredictionUnavailable,
	pricing.ErrPredictionRejected,
	pricing.ErrPredictionMalformed,
}

func statusFor(err error) int {
	var (
		apiErr   *estateapi.Error
		paramErr paramError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &paramErr), matchesAny(err, badRequest):
		return http.StatusBadRequest
	case matchesAny(err, unprocessable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, valuationapp.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, middleware.ErrKeyReused):
		return http.StatusConflict
	case errors.Is(err, reports.ErrStoreNotConfigured),
		errors.Is(err, commands.ErrHandlerNotFound),
		errors.Is(err, queries.ErrHandlerNotFound):
		return http.StatusServiceUnavailable
	case matchesAny(err, upstream), errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := gin.H{"error": err.Error()}
	if resource := estateapi.ResourceOf(err); resource != "" {
		body["resource"] = resource
	}
	var verr *valuation.ValidationError
	if errors.As(err, &verr) {
		body["missing"] = verr.Missing
		body["warning"] = verr.Message()
	}
	c.JSON(statusFor(err), body)
}

// respondView writes a rendered view. A page-level failure still carries the
// view, with widget messages, alongside the error status.
func respondView(c *gin.Context, view any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, view)
		return
	}
	if errors.Is(err, pages.ErrPageUnavailable) {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, view)
		return
	}
	respondError(c, err)
}
