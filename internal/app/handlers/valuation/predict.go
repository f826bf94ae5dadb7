package valuation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"estatedash/internal/app/dto"
	"estatedash/internal/app/outbox"
	"estatedash/internal/app/policies"
	"estatedash/internal/domain/listings"
	domainvaluation "estatedash/internal/domain/valuation"
)

const (
	predictFormKey    = "valuation.predict_form"
	predictListingKey = "valuation.predict_listing"
)

var (
	ErrListingRequired = errors.New("valuation: listing id is required")
	ErrListingNotFound = errors.New("valuation: listing not found")
)

// PredictFormCommand prices a manually entered property.
type PredictFormCommand struct {
	Form domainvaluation.Form
	Now  time.Time
}

func (c PredictFormCommand) Key() string { return predictFormKey }

// Validate rejects a form with empty required fields before any prediction call.
func (c PredictFormCommand) Validate() error {
	_, err := domainvaluation.FromForm(c.Form)
	return err
}

// PredictListingCommand prices one scraped listing. Listing may carry the
// already loaded row; otherwise it is looked up by ListingID.
type PredictListingCommand struct {
	ListingID string
	Listing   *listings.Listing
	Now       time.Time
}

func (c PredictListingCommand) Key() string { return predictListingKey }

func (c PredictListingCommand) Validate() error {
	if c.Listing == nil && strings.TrimSpace(c.ListingID) == "" {
		return ErrListingRequired
	}
	return nil
}

// ListingSource loads the listing collection a listing valuation picks from.
type ListingSource interface {
	Properties(ctx context.Context) ([]listings.Listing, error)
}

// PredictHandler calls the prediction service, keeps the result in the history
// and records a valuation.completed activity.
type PredictHandler struct {
	Predictor policies.Predictor
	History   domainvaluation.HistoryRepository
	Listings  ListingSource
	Logger    *slog.Logger
}

func (h *PredictHandler) HandleForm(ctx context.Context, cmd PredictFormCommand) (dto.ValuationResult, error) {
	payload, err := domainvaluation.FromForm(cmd.Form)
	if err != nil {
		return dto.ValuationResult{}, err
	}
	return h.predict(ctx, domainvaluation.SourceForm, "", payload, cmd.Now)
}

func (h *PredictHandler) HandleListing(ctx context.Context, cmd PredictListingCommand) (dto.ValuationResult, error) {
	listing, err := h.resolveListing(ctx, cmd)
	if err != nil {
		return dto.ValuationResult{}, err
	}
	return h.predict(ctx, domainvaluation.SourceListing, listing.ID, domainvaluation.FromListing(listing), cmd.Now)
}

func (h *PredictHandler) resolveListing(ctx context.Context, cmd PredictListingCommand) (listings.Listing, error) {
	if cmd.Listing != nil {
		return *cmd.Listing, nil
	}
	if h.Listings == nil {
		return listings.Listing{}, ErrListingNotFound
	}
	items, err := h.Listings.Properties(ctx)
	if err != nil {
		return listings.Listing{}, err
	}
	listing, ok := listings.FindByID(items, cmd.ListingID)
	if !ok {
		return listings.Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, cmd.ListingID)
	}
	return listing, nil
}

func (h *PredictHandler) predict(ctx context.Context, source domainvaluation.Source, listingID string, payload domainvaluation.Payload, now time.Time) (dto.ValuationResult, error) {
	if h.Predictor == nil {
		return dto.ValuationResult{}, errors.New("valuation: predictor not configured")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	prediction, err := h.Predictor.Predict(ctx, payload)
	if err != nil {
		return dto.ValuationResult{}, err
	}

	rec := domainvaluation.Record{
		ID:             uuid.NewString(),
		Source:         source,
		ListingID:      listingID,
		Payload:        payload,
		PredictedPrice: prediction.PredictedPrice,
		CreatedAt:      now,
	}
	if h.History != nil {
		if err := h.History.Save(ctx, rec); err != nil {
			return dto.ValuationResult{}, err
		}
	}

	outbox.Raise(ctx, domainvaluation.CompletedFrom(rec))

	if h.Logger != nil {
		h.Logger.Info("valuation completed", "record_id", rec.ID, "source", source, "listing_id", listingID, "city", payload.City, "predicted_price", rec.PredictedPrice)
	}
	return dto.MapValuation(rec), nil
}
