package valuation

import (
	"context"
	"errors"

	"estatedash/internal/app/dto"
	"estatedash/internal/app/queries"
	domainvaluation "estatedash/internal/domain/valuation"
)

const listHistoryKey = "valuation.history"

const maxHistoryLimit = 100

var ErrInvalidLimit = errors.New("valuation: limit must not be negative")

// ListHistoryQuery returns the most recent valuations, newest first.
type ListHistoryQuery struct {
	Limit int
}

func (q ListHistoryQuery) Key() string { return listHistoryKey }

func (q ListHistoryQuery) Validate() error {
	if q.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}

type ListHistoryHandler struct {
	History domainvaluation.HistoryRepository
}

func (h *ListHistoryHandler) Handle(ctx context.Context, q ListHistoryQuery) ([]dto.ValuationResult, error) {
	if h.History == nil {
		return []dto.ValuationResult{}, nil
	}
	limit := q.Limit
	if limit == 0 {
		limit = domainvaluation.DefaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)
	recs, err := h.History.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.MapValuations(recs), nil
}

var _ queries.Handler[ListHistoryQuery, []dto.ValuationResult] = (*ListHistoryHandler)(nil)
