package dto

import (
	"math"
	"time"

	"estatedash/internal/domain/shared/format"
	"estatedash/internal/domain/valuation"
)

// ValuationResult is a completed valuation as shown in the result popup and history.
type ValuationResult struct {
	ID                 string            `json:"id"`
	Source             string            `json:"source"`
	ListingID          string            `json:"listing_id,omitempty"`
	Payload            valuation.Payload `json:"payload"`
	PredictedPrice     float64           `json:"predicted_price"`
	PredictedPriceText string            `json:"predicted_price_text"`
	CreatedAt          time.Time         `json:"created_at"`
}

func MapValuation(rec valuation.Record) ValuationResult {
	return ValuationResult{
		ID:                 rec.ID,
		Source:             string(rec.Source),
		ListingID:          rec.ListingID,
		Payload:            rec.Payload,
		PredictedPrice:     rec.PredictedPrice,
		PredictedPriceText: format.Price(int64(math.Round(rec.PredictedPrice))),
		CreatedAt:          rec.CreatedAt,
	}
}

func MapValuations(recs []valuation.Record) []ValuationResult {
	out := make([]ValuationResult, 0, len(recs))
	for _, rec := range recs {
		out = append(out, MapValuation(rec))
	}
	return out
}

// ValuationView is the manual valuation page. Warning carries form validation
// problems, Error carries a failed prediction.
type ValuationView struct {
	Form    valuation.Form    `json:"form"`
	Result  *ValuationResult  `json:"result,omitempty"`
	Missing []string          `json:"missing,omitempty"`
	Warning string            `json:"warning,omitempty"`
	Error   string            `json:"error,omitempty"`
	History []ValuationResult `json:"history"`
	Errors  map[string]string `json:"errors,omitempty"`
}
