// internal/infra/kafka/audit_emitter.kafka.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	skafka "github.com/segmentio/kafka-go"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/audit"
)

// Writer is the subset of the segmentio kafka.Writer we need. It makes the
// emitter testable without a broker.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// AuditEmitter publishes audit events as JSON messages keyed by tenant, so
// one tenant's trail stays ordered within a partition.
type AuditEmitter struct {
	writer Writer
}

// NewAuditEmitter creates an emitter writing to the given broker/topic.
func NewAuditEmitter(brokerURL, topic string) *AuditEmitter {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokerURL),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &AuditEmitter{writer: w}
}

// NewAuditEmitterWithWriter allows injecting a test writer.
func NewAuditEmitterWithWriter(w Writer) *AuditEmitter {
	return &AuditEmitter{writer: w}
}

func (e *AuditEmitter) Emit(ctx context.Context, event audit.Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	msg := skafka.Message{
		Key:   []byte(event.TenantID.String()),
		Value: b,
	}
	if err := e.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	return nil
}

func (e *AuditEmitter) Close() error {
	return e.writer.Close()
}
