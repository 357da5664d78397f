package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/metrics"
)

func frozenEvent(t *testing.T, id string) *domain.Event {
	t.Helper()

	var liabilities domain.Balance
	var account domain.Account
	account.Deposit(&liabilities, domain.MustParseAmount("10"))
	account.Hold(domain.MustParseAmount("10"))
	account.Chargeback(&liabilities, domain.MustParseAmount("10"))

	return domain.NewAccountFrozenEvent(id, "run-1", domain.NewChargeback(7, 3), account)
}

func TestLogPublisherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	if err := p.Publish(context.Background(), frozenEvent(t, "evt-1")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["event_id"] != "evt-1" || line["event_type"] != domain.EventTypeAccountFrozen {
		t.Fatalf("unexpected log line: %v", line)
	}
	payload, ok := line["payload"].(map[string]any)
	if !ok {
		t.Fatalf("expected payload object, got %T", line["payload"])
	}
	if payload["client"] != float64(7) || payload["total"] != "0" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w)
	p.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := p.Publish(context.Background(), frozenEvent(t, "evt-1")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(w.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.messages))
	}

	msg := w.messages[0]
	if string(msg.Key) != "7" {
		t.Fatalf("expected key 7, got %q", msg.Key)
	}

	var decoded message
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("message is not JSON: %v", err)
	}
	if decoded.EventID != "evt-1" || decoded.RunID != "run-1" || decoded.EventType != domain.EventTypeAccountFrozen {
		t.Fatalf("unexpected message: %+v", decoded)
	}
	if !decoded.PublishedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected published_at: %v", decoded.PublishedAt)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("expected writer to be closed, err=%v", err)
	}
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := newKafkaPublisher(&fakeWriter{err: boom})

	err := p.Publish(context.Background(), frozenEvent(t, "evt-1"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

type stubPublisher struct {
	mu         sync.Mutex
	published  []*domain.Event
	errorsByID map[string]error
}

func (p *stubPublisher) Publish(_ context.Context, event *domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.errorsByID[event.ID]; err != nil {
		return err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func TestOutboxFlushPublishesInOrder(t *testing.T) {
	pub := &stubPublisher{}
	o := NewOutbox(Config{Publisher: pub, Logger: zerolog.Nop(), BatchSize: 2})

	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		if err := o.Publish(context.Background(), frozenEvent(t, id)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}
	if o.Pending() != 3 {
		t.Fatalf("expected 3 pending events, got %d", o.Pending())
	}

	o.Flush(context.Background())

	if o.Pending() != 0 {
		t.Fatalf("expected no pending events, got %d", o.Pending())
	}
	if len(pub.published) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(pub.published))
	}
	for i, id := range []string{"evt-1", "evt-2", "evt-3"} {
		if pub.published[i].ID != id {
			t.Fatalf("event %d: expected %s, got %s", i, id, pub.published[i].ID)
		}
	}
}

func TestOutboxContinuesOnPublishError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	pub := &stubPublisher{errorsByID: map[string]error{"evt-1": errors.New("fail")}}
	o := NewOutbox(Config{Publisher: pub, Logger: zerolog.Nop(), Metrics: m})

	_ = o.Publish(context.Background(), frozenEvent(t, "evt-1"))
	_ = o.Publish(context.Background(), frozenEvent(t, "evt-2"))
	o.Flush(context.Background())

	if len(pub.published) != 1 || pub.published[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 to be published, got %#v", pub.published)
	}
	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues(domain.EventTypeAccountFrozen, "failed")); got != 1 {
		t.Fatalf("expected 1 failed publish, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues(domain.EventTypeAccountFrozen, "published")); got != 1 {
		t.Fatalf("expected 1 successful publish, got %v", got)
	}
}

func TestOutboxWorkerDrainsAndStops(t *testing.T) {
	pub := &stubPublisher{}
	o := NewOutbox(Config{Publisher: pub, Logger: zerolog.Nop(), Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- o.Start(ctx)
	}()

	_ = o.Publish(context.Background(), frozenEvent(t, "evt-1"))

	deadline := time.After(time.Second)
	for pub.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker did not publish the event")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("outbox did not stop after cancel")
	}
}
