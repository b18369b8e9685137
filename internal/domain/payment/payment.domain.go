// internal/domain/payment/payment.domain.go
package payment

import (
	"time"

	"github.com/google/uuid"
)

// Method enumerates how the money arrived. Enum instead of free text so a
// typo ("Card" vs "card") cannot split reporting buckets.
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
	MethodOther    Method = "other"
)

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodOther:
		return true
	}
	return false
}

// Payment is an immutable record of one successful application of funds to
// one invoice. Nothing in this repo updates or deletes a payment after
// creation; corrections are new compensating records.
type Payment struct {
	ID        uuid.UUID
	TenantID  uuid.UUID // denormalized from the invoice for direct scoping on reads
	InvoiceID uuid.UUID
	Amount    int64 // positive, integer minor units
	Method    Method

	// ReferenceNumber is the caller-supplied idempotency / reconciliation
	// token. Optional, but it is what makes a retry after a client timeout
	// safe.
	ReferenceNumber string

	Notes      string
	ReceivedBy uuid.UUID // actor from the trusted tenant context
	RecordedAt time.Time // server timestamp, authoritative
}
