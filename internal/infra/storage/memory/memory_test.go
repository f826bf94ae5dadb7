package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"estatedash/internal/app/middleware"
	appoutbox "estatedash/internal/app/outbox"
	"estatedash/internal/domain/valuation"
	infraoutbox "estatedash/internal/infra/outbox"
)

func TestPredictorIsDeterministic(t *testing.T) {
	p := NewPredictor()
	payload := valuation.Payload{City: "TP.HCM", Area: 50, Type: "Chung cư", Legal: "Sổ hồng"}
	first, err := p.Predict(context.Background(), payload)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	second, _ := p.Predict(context.Background(), payload)
	if first != second || first.PredictedPrice <= 0 {
		t.Fatalf("predictions differ or empty: %v / %v", first, second)
	}
	// 50 m² * 110m * 0.8
	if first.PredictedPrice != 4_400_000_000 {
		t.Fatalf("PredictedPrice = %v", first.PredictedPrice)
	}
	unknown := payload
	unknown.Legal = valuation.UnknownLegal
	if got, _ := p.Predict(context.Background(), unknown); got.PredictedPrice >= first.PredictedPrice {
		t.Fatalf("unknown legal status should lower the price: %v", got)
	}
	if _, err := p.Predict(context.Background(), valuation.Payload{}); !errors.Is(err, ErrAreaRequired) {
		t.Fatalf("zero area = %v", err)
	}
}

func TestHistoryRecentNewestFirst(t *testing.T) {
	repo := NewHistoryRepository(2)
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Save(context.Background(), valuation.Record{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	got, _ := repo.Recent(context.Background(), 0)
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("Recent = %+v", got)
	}
	one, _ := repo.Recent(context.Background(), 1)
	if len(one) != 1 || one[0].ID != "c" {
		t.Fatalf("Recent(1) = %+v", one)
	}
	if err := repo.Save(context.Background(), valuation.Record{}); !errors.Is(err, valuation.ErrRecordInvalid) {
		t.Fatalf("Save without id = %v", err)
	}
}

func TestIdempotencyStoreExpires(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	store := NewIdempotencyStore(time.Hour)
	store.now = func() time.Time { return now }
	if err := store.Save(context.Background(), middleware.IdempotencyRecord{Key: "k", Command: "crawl.run"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "k"); !ok {
		t.Fatal("record should be found within ttl")
	}
	now = now.Add(2 * time.Hour)
	if _, ok, _ := store.Get(context.Background(), "k"); ok {
		t.Fatal("record should expire after ttl")
	}
}

func TestOutboxDeliveryLifecycle(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	box := NewOutbox()
	box.now = func() time.Time { return now }
	ctx := context.Background()
	for _, id := range []string{"e1", "e2"} {
		if err := box.Add(ctx, appoutbox.EventRecord{ID: id, Name: "crawl.requested", Payload: []byte(`{}`)}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	doc, _ := box.Claim(ctx, "w1")
	if doc == nil || doc.ID != "e1" || doc.State != infraoutbox.StateClaimed {
		t.Fatalf("Claim = %+v", doc)
	}
	if err := box.MarkFailed(ctx, "e1", now.Add(time.Minute), "down"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	doc, _ = box.Claim(ctx, "w1")
	if doc == nil || doc.ID != "e2" {
		t.Fatalf("failed record must wait for its retry time, got %+v", doc)
	}
	_ = box.MarkSent(ctx, "e2")
	if doc, _ := box.Claim(ctx, "w1"); doc != nil {
		t.Fatalf("nothing due, got %+v", doc)
	}

	now = now.Add(2 * time.Minute)
	doc, _ = box.Claim(ctx, "w1")
	if doc == nil || doc.ID != "e1" || doc.Attempts != 1 {
		t.Fatalf("retry = %+v", doc)
	}
	_ = box.MarkSent(ctx, "e1")
	if box.Pending() != 0 {
		t.Fatalf("pending = %d", box.Pending())
	}
}

func TestOutboxFeedsWorker(t *testing.T) {
	box := NewOutbox()
	ctx := context.Background()
	_ = box.Add(ctx, appoutbox.EventRecord{ID: "e1", Name: "valuation.completed", Payload: []byte(`{"record_id":"r"}`)})
	prod := &countingProducer{}
	w := &infraoutbox.Worker{Source: box, Producer: prod}
	if ok, err := w.ProcessOnce(ctx); !ok || err != nil {
		t.Fatalf("ProcessOnce = %v, %v", ok, err)
	}
	if prod.topics[0] != "valuation.events.v1" || box.Pending() != 0 {
		t.Fatalf("topics = %v pending = %d", prod.topics, box.Pending())
	}
}

type countingProducer struct {
	topics []string
}

func (p *countingProducer) Publish(_ context.Context, topic, _ string, _ []byte, _ map[string]string) error {
	p.topics = append(p.topics, topic)
	return nil
}
