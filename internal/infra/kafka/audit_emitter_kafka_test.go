// internal/infra/kafka/audit_emitter_kafka_test.go
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	skafka "github.com/segmentio/kafka-go"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/audit"
)

type mockWriter struct {
	messages   []skafka.Message
	shouldFail bool
	closed     bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if m.shouldFail {
		return errors.New("broker unreachable")
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestEmitWritesKeyedJSON(t *testing.T) {
	w := &mockWriter{}
	e := NewAuditEmitterWithWriter(w)

	event := audit.Event{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		ActorID:   uuid.New(),
		Action:    audit.ActionRecordPayment,
		TargetID:  uuid.New(),
		Metadata:  map[string]any{"amount": int64(40000)},
		CreatedAt: time.Now().UTC(),
	}

	if err := e.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(w.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.messages))
	}

	msg := w.messages[0]
	// Tenant key keeps one tenant's trail ordered within a partition.
	if string(msg.Key) != event.TenantID.String() {
		t.Errorf("expected tenant key %s, got %s", event.TenantID, msg.Key)
	}

	var decoded audit.Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("message is not valid JSON: %v", err)
	}
	if decoded.Action != audit.ActionRecordPayment || decoded.TargetID != event.TargetID {
		t.Errorf("event round-trip mismatch: %+v", decoded)
	}
}

func TestEmitPropagatesWriterFailure(t *testing.T) {
	e := NewAuditEmitterWithWriter(&mockWriter{shouldFail: true})
	err := e.Emit(context.Background(), audit.Event{ID: uuid.New()})
	if err == nil {
		t.Fatal("expected an error from a failing writer")
	}
}

func TestCloseClosesWriter(t *testing.T) {
	w := &mockWriter{}
	e := NewAuditEmitterWithWriter(w)
	if err := e.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !w.closed {
		t.Fatal("underlying writer was not closed")
	}
}
