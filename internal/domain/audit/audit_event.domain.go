// internal/domain/audit/audit_event.domain.go
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Actions emitted by the ledger. Exactly one event per successful
// state-changing command; reads and validation failures are never audited.
const (
	ActionRecordPayment = "RECORD_PAYMENT"
	ActionVoidInvoice   = "VOID_INVOICE"
)

// Event is an immutable record of who did what, to which invoice, with what
// outcome. Emission is best-effort after commit: a lost event never rolls
// back the financial write.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  uuid.UUID      `json:"tenant_id"`
	ActorID   uuid.UUID      `json:"actor_id"`
	Action    string         `json:"action"`
	TargetID  uuid.UUID      `json:"target_id"` // the invoice acted upon
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
