// internal/infra/rabbitmq/audit_emitter.rabbitmq.go
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/audit"
)

// AuditEmitter publishes audit events to a durable queue. Alternative to the
// kafka emitter for deployments that already run RabbitMQ.
type AuditEmitter struct {
	conn  *amqp.Connection
	chn   *amqp.Channel
	queue string
}

func NewAuditEmitter(url, queue string) (*AuditEmitter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	// Durable queue: audit events should survive a broker restart.
	if _, err := chn.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		chn.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &AuditEmitter{conn: conn, chn: chn, queue: queue}, nil
}

func (e *AuditEmitter) Emit(ctx context.Context, event audit.Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	err = e.chn.PublishWithContext(ctx, "", e.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         b,
	})
	if err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}
	return nil
}

func (e *AuditEmitter) Close() error {
	if err := e.chn.Close(); err != nil {
		return err
	}
	return e.conn.Close()
}
