package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"estatedash/internal/domain/shared/events"
)

// EventRecord is an activity event serialized for later publication.
type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

// Outbox stores records until the worker publishes them.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

type EventEncoder interface {
	Encode(ctx context.Context, ev events.DomainEvent) (EventRecord, error)
}

type (
	headersKey  struct{}
	recorderKey struct{}
)

// WithRecorder attaches a fresh recorder. Events raised under the returned
// context collect there until the caller writes them out.
func WithRecorder(ctx context.Context) (context.Context, *events.Recorder) {
	rec := &events.Recorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

func RecorderFromContext(ctx context.Context) (*events.Recorder, bool) {
	rec, ok := ctx.Value(recorderKey{}).(*events.Recorder)
	return rec, ok
}

// Raise records evs on the recorder of ctx. Without a recorder they are dropped.
func Raise(ctx context.Context, evs ...events.DomainEvent) {
	rec, ok := RecorderFromContext(ctx)
	if !ok {
		return
	}
	for _, ev := range evs {
		rec.Record(ev)
	}
}

// WithHeaders attaches headers (request id) that every record encoded under ctx carries.
func WithHeaders(ctx context.Context, headers map[string]string) context.Context {
	merged := map[string]string{}
	for k, v := range HeadersFromContext(ctx) {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	return context.WithValue(ctx, headersKey{}, merged)
}

func HeadersFromContext(ctx context.Context) map[string]string {
	if v, ok := ctx.Value(headersKey{}).(map[string]string); ok {
		return v
	}
	return nil
}

// JSONEventEncoder marshals the event itself as the payload.
type JSONEventEncoder struct {
	IDGenerator func() string
}

func (e JSONEventEncoder) Encode(ctx context.Context, ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	headers := map[string]string{}
	for k, v := range HeadersFromContext(ctx) {
		headers[k] = v
	}
	occurred := ev.OccurredAt()
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: occurred,
		Aggregate:  ev.AggregateID(),
		Headers:    headers,
	}, nil
}

// RecordDomainEvents encodes and adds every event. A nil outbox drops them.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, evs []events.DomainEvent) error {
	if box == nil || len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		rec, err := encoder.Encode(ctx, ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
