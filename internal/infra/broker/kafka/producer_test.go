package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestPublishSendsKeyValueAndHeaders(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "valuation.events.v1" {
			return fmt.Errorf("topic = %s", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "rec-1" {
			return fmt.Errorf("key = %s", key)
		}
		if len(msg.Headers) != 2 || string(msg.Headers[0].Key) != "content-type" || string(msg.Headers[1].Value) != "req-9" {
			return fmt.Errorf("headers = %v", msg.Headers)
		}
		return nil
	})
	p := NewFromSync(mock)
	defer p.Close()

	err := p.Publish(context.Background(), "valuation.events.v1", "rec-1", []byte(`{}`), map[string]string{
		"request_id":   "req-9",
		"content-type": "application/cloudevents+json",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestPublishReturnsBrokerError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	boom := errors.New("not enough replicas")
	mock.ExpectSendMessageAndFail(boom)
	p := NewFromSync(mock)
	defer p.Close()

	if err := p.Publish(context.Background(), "crawl.events.v1", "crawler", nil, nil); !errors.Is(err, boom) {
		t.Fatalf("Publish = %v", err)
	}
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	p := NewFromSync(mock)
	defer p.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Publish(ctx, "t", "k", nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Publish = %v", err)
	}
}

func TestNewConfigValidates(t *testing.T) {
	if err := NewConfig("estatedash").Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}
}
