package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type fakeOutbox struct {
	pending   []*usecase.OutboxEvent
	processed []int64
}

func (f *fakeOutbox) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	event.ID = int64(len(f.pending) + 1)
	f.pending = append(f.pending, event)
	return event, nil
}

func (f *fakeOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	batch := f.pending[:limit]
	f.pending = f.pending[limit:]
	return batch, nil
}

func (f *fakeOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutbox) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeProducer struct {
	sent []*usecase.WriteRawMessageReq
	err  error
}

func (f *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req)
	return nil
}

func seedOutbox(t *testing.T, n int) *fakeOutbox {
	t.Helper()
	repo := &fakeOutbox{}
	for i := 0; i < n; i++ {
		event, err := usecase.NewOutboxEvent(usecase.AppointmentConfirmed, usecase.AggregateAppointment, "APT-0001", map[string]any{"n": i})
		if err != nil {
			t.Fatalf("NewOutboxEvent: %v", err)
		}
		if _, err := repo.Create(context.Background(), event); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestDrainPublishesAllPending(t *testing.T) {
	repo := seedOutbox(t, 25)
	producer := &fakeProducer{}
	w := NewOutboxWorker(repo, logger.Nop{}, producer, "", 0)

	w.drain(context.Background())

	if len(producer.sent) != 25 || len(repo.processed) != 25 {
		t.Fatalf("sent %d, processed %d, want 25", len(producer.sent), len(repo.processed))
	}
	msg := producer.sent[0]
	if msg.Key != "APT-0001" || msg.EventType != string(usecase.AppointmentConfirmed) || len(msg.Payload) == 0 {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestDrainStopsWhenBrokerDown(t *testing.T) {
	repo := seedOutbox(t, 25)
	producer := &fakeProducer{err: errors.New("dial tcp: connection refused")}
	w := NewOutboxWorker(repo, logger.Nop{}, producer, "", 0)

	w.drain(context.Background())

	if len(repo.processed) != 0 {
		t.Fatalf("processed %v, want none", repo.processed)
	}
	// одна пачка забрана, остальное ждет следующего прохода
	if len(repo.pending) != 15 {
		t.Fatalf("pending = %d, want 15", len(repo.pending))
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("read: i/o timeout"), true},
		{errors.New("Broker Not Available"), true},
		{errors.New("message too large"), false},
		{fmt.Errorf("write: %w", kafka.LeaderNotAvailable), true},
		{fmt.Errorf("write: %w", kafka.MessageSizeTooLarge), false},
	}

	for _, tt := range tests {
		if got := isRetryableError(tt.err); got != tt.want {
			t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestToMessageSetsHeaders(t *testing.T) {
	msg := toMessage(usecase.NewWriteRawMessageReq("42", "appointment.confirmed", []byte("x")))
	if string(msg.Key) != "42" || string(msg.Value) != "x" {
		t.Fatalf("unexpected message %+v", msg)
	}

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers[eventTypeHeader] != "appointment.confirmed" || headers[contentTypeHeader] != contentTypeJSON {
		t.Fatalf("headers = %v", headers)
	}

	bare := toMessage(usecase.NewWriteRawMessageReq("42", "", nil))
	for _, h := range bare.Headers {
		if h.Key == eventTypeHeader {
			t.Fatalf("event_type header set for empty type")
		}
	}
}
