package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"estatedash/internal/domain/shared/events"
)

type sampleEvent struct {
	events.BaseEvent
	Value int `json:"value"`
}

type recordingOutbox struct {
	records []EventRecord
}

func (o *recordingOutbox) Add(_ context.Context, rec EventRecord) error {
	o.records = append(o.records, rec)
	return nil
}

func TestRecordDomainEvents(t *testing.T) {
	at := time.Date(2025, 9, 14, 3, 0, 0, 0, time.UTC)
	ctx := WithHeaders(context.Background(), map[string]string{"x-request-id": "req-1"})
	box := &recordingOutbox{}
	enc := JSONEventEncoder{IDGenerator: func() string { return "evt-1" }}
	ev := sampleEvent{BaseEvent: events.BaseEvent{Name: "sample.done", Aggregate: "agg", Time: at}, Value: 7}

	if err := RecordDomainEvents(ctx, box, enc, []events.DomainEvent{ev}); err != nil {
		t.Fatalf("RecordDomainEvents: %v", err)
	}
	if len(box.records) != 1 {
		t.Fatalf("records = %d", len(box.records))
	}
	rec := box.records[0]
	if rec.ID != "evt-1" || rec.Name != "sample.done" || rec.Aggregate != "agg" || !rec.OccurredAt.Equal(at) {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Headers["x-request-id"] != "req-1" {
		t.Fatalf("headers = %v", rec.Headers)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["value"] != float64(7) || len(payload) != 1 {
		t.Fatalf("payload = %v", payload)
	}
}

func TestRecordDomainEventsNilOutbox(t *testing.T) {
	ev := sampleEvent{BaseEvent: events.BaseEvent{Name: "sample.done"}}
	if err := RecordDomainEvents(context.Background(), nil, nil, []events.DomainEvent{ev}); err != nil {
		t.Fatalf("nil outbox: %v", err)
	}
}

func TestRaiseCollectsOnContextRecorder(t *testing.T) {
	ev := sampleEvent{BaseEvent: events.BaseEvent{Name: "sample.done"}}
	Raise(context.Background(), ev)

	ctx, rec := WithRecorder(context.Background())
	Raise(ctx, ev, ev)
	if got := len(rec.PendingEvents()); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
	if same, ok := RecorderFromContext(ctx); !ok || same != rec {
		t.Fatal("recorder not reachable from context")
	}
}
