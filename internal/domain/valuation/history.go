package valuation

import (
	"context"
	"errors"
	"time"
)

// Source tells which flow produced a valuation.
type Source string

const (
	SourceForm    Source = "form"
	SourceListing Source = "listing"
)

// Record is one completed valuation kept for the history view.
type Record struct {
	ID             string    `json:"id"`
	Source         Source    `json:"source"`
	ListingID      string    `json:"listing_id,omitempty"`
	Payload        Payload   `json:"payload"`
	PredictedPrice float64   `json:"predicted_price"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefaultHistoryLimit bounds history reads when the caller does not.
const DefaultHistoryLimit = 20

var ErrRecordInvalid = errors.New("valuation: record requires id")

// HistoryRepository stores completed valuations.
type HistoryRepository interface {
	Save(ctx context.Context, rec Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Completed is raised after the prediction service priced a property.
type Completed struct {
	RecordID       string    `json:"record_id"`
	Source         Source    `json:"source"`
	ListingID      string    `json:"listing_id,omitempty"`
	City           string    `json:"city"`
	District       string    `json:"district"`
	Type           string    `json:"type"`
	Area           float64   `json:"area"`
	PredictedPrice float64   `json:"predicted_price"`
	At             time.Time `json:"at"`
}

func (e Completed) EventName() string     { return "valuation.completed" }
func (e Completed) AggregateID() string   { return e.RecordID }
func (e Completed) OccurredAt() time.Time { return e.At }

// CompletedFrom derives the activity event of a stored record.
func CompletedFrom(rec Record) Completed {
	return Completed{
		RecordID:       rec.ID,
		Source:         rec.Source,
		ListingID:      rec.ListingID,
		City:           rec.Payload.City,
		District:       rec.Payload.District,
		Type:           rec.Payload.Type,
		Area:           rec.Payload.Area,
		PredictedPrice: rec.PredictedPrice,
		At:             rec.CreatedAt,
	}
}
