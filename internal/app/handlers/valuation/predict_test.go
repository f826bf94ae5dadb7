package valuation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/middleware"
	"estatedash/internal/app/outbox"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/listings"
	domainvaluation "estatedash/internal/domain/valuation"
)

type stubPredictor struct {
	mu       sync.Mutex
	price    float64
	err      error
	payloads []domainvaluation.Payload
}

func (s *stubPredictor) Predict(_ context.Context, p domainvaluation.Payload) (domainvaluation.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
	if s.err != nil {
		return domainvaluation.Prediction{}, s.err
	}
	return domainvaluation.Prediction{PredictedPrice: s.price}, nil
}

type memoryHistory struct {
	recs []domainvaluation.Record
}

func (m *memoryHistory) Save(_ context.Context, rec domainvaluation.Record) error {
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memoryHistory) Recent(_ context.Context, limit int) ([]domainvaluation.Record, error) {
	out := make([]domainvaluation.Record, 0, limit)
	for i := len(m.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.recs[i])
	}
	return out, nil
}

type recordingOutbox struct {
	records []outbox.EventRecord
}

func (r *recordingOutbox) Add(_ context.Context, rec outbox.EventRecord) error {
	r.records = append(r.records, rec)
	return nil
}

type staticListings []listings.Listing

func (s staticListings) Properties(context.Context) ([]listings.Listing, error) { return s, nil }

func newBus(predict *PredictHandler, box *recordingOutbox) commands.Bus {
	if box == nil {
		box = &recordingOutbox{}
	}
	bus := commands.NewInMemoryBus()
	Register(bus, queries.NewInMemoryBus(), predict, &ListHistoryHandler{History: predict.History})
	return middleware.ChainCommands(bus,
		middleware.Validation(middleware.MessageValidator{}),
		middleware.ActivityRecording(box, nil),
	)
}

func completeForm() domainvaluation.Form {
	return domainvaluation.Form{
		City:      "Hà Nội",
		District:  "Thanh Xuân",
		Ward:      "Khương Trung",
		Street:    "Nguyễn Trãi",
		Area:      "65,5",
		Type:      "Nhà phố",
		Bedrooms:  "3",
		Bathrooms: "x",
	}
}

func TestPredictFormStoresHistoryAndActivity(t *testing.T) {
	predictor := &stubPredictor{price: 3_200_000_000}
	history := &memoryHistory{}
	box := &recordingOutbox{}
	bus := newBus(&PredictHandler{Predictor: predictor, History: history}, box)

	now := time.Date(2025, 9, 14, 8, 0, 0, 0, time.UTC)
	res, err := commands.Dispatch[PredictFormCommand, dto.ValuationResult](context.Background(), bus, PredictFormCommand{Form: completeForm(), Now: now})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.PredictedPrice != 3_200_000_000 || res.Source != "form" || res.ID == "" {
		t.Fatalf("result = %+v", res)
	}
	sent := predictor.payloads[0]
	if sent.Area != 65.5 || sent.Bedroom != 3 || sent.Bathroom != 0 || sent.Legal != domainvaluation.UnknownLegal {
		t.Fatalf("payload = %+v", sent)
	}
	if len(history.recs) != 1 || !history.recs[0].CreatedAt.Equal(now) {
		t.Fatalf("history = %+v", history.recs)
	}
	if len(box.records) != 1 || box.records[0].Name != "valuation.completed" || box.records[0].Aggregate != res.ID {
		t.Fatalf("activity = %+v", box.records)
	}
}

func TestPredictFormValidationBlocksPrediction(t *testing.T) {
	predictor := &stubPredictor{price: 1}
	bus := newBus(&PredictHandler{Predictor: predictor}, nil)

	form := completeForm()
	form.Ward = " "
	form.Type = ""
	_, err := commands.Dispatch[PredictFormCommand, dto.ValuationResult](context.Background(), bus, PredictFormCommand{Form: form})
	var verr *domainvaluation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Missing) != 2 || verr.Missing[0] != "ward" || verr.Missing[1] != "type" {
		t.Fatalf("missing = %v", verr.Missing)
	}
	if len(predictor.payloads) != 0 {
		t.Fatal("prediction service must not be called for an invalid form")
	}
}

func TestPredictListing(t *testing.T) {
	frontage := 4.5
	source := staticListings{
		{ID: "a", Address: "12 Lê Lợi, Bến Nghé, Quận 1, TP.HCM", City: "Hồ Chí Minh", Area: 40, Type: "Nhà phố", Frontage: &frontage},
	}
	predictor := &stubPredictor{price: 9_000_000_000}
	bus := newBus(&PredictHandler{Predictor: predictor, Listings: source}, nil)

	res, err := commands.Dispatch[PredictListingCommand, dto.ValuationResult](context.Background(), bus, PredictListingCommand{ListingID: "a"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.ListingID != "a" || res.Source != "listing" {
		t.Fatalf("result = %+v", res)
	}
	sent := predictor.payloads[0]
	if sent.Street != "12 Lê Lợi" || sent.Frontage != 4.5 || sent.Legal != domainvaluation.UnknownLegal {
		t.Fatalf("payload = %+v", sent)
	}

	_, err = commands.Dispatch[PredictListingCommand, dto.ValuationResult](context.Background(), bus, PredictListingCommand{ListingID: "missing"})
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
	_, err = commands.Dispatch[PredictListingCommand, dto.ValuationResult](context.Background(), bus, PredictListingCommand{})
	if !errors.Is(err, ErrListingRequired) {
		t.Fatalf("expected ErrListingRequired, got %v", err)
	}
}

func TestPredictFailureIsNotRecorded(t *testing.T) {
	boom := errors.New("prediction down")
	history := &memoryHistory{}
	box := &recordingOutbox{}
	bus := newBus(&PredictHandler{Predictor: &stubPredictor{err: boom}, History: history}, box)

	row := listings.Listing{ID: "z", City: "Đà Nẵng"}
	_, err := commands.Dispatch[PredictListingCommand, dto.ValuationResult](context.Background(), bus, PredictListingCommand{Listing: &row})
	if !errors.Is(err, boom) {
		t.Fatalf("expected prediction error, got %v", err)
	}
	if len(history.recs) != 0 || len(box.records) != 0 {
		t.Fatal("failed predictions must leave no trace")
	}
}

func TestListHistory(t *testing.T) {
	history := &memoryHistory{}
	for _, id := range []string{"1", "2", "3"} {
		_ = history.Save(context.Background(), domainvaluation.Record{ID: id})
	}
	h := &ListHistoryHandler{History: history}
	got, err := h.Handle(context.Background(), ListHistoryQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "2" {
		t.Fatalf("history = %+v", got)
	}
	if err := (ListHistoryQuery{Limit: -1}).Validate(); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}
