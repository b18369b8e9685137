// internal/ports/emitter/audit_emitter.go
package emitter

import (
	"context"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/audit"
)

// AuditEmitter delivers audit events to the trail. Emit is "write only":
// the ledger never reads the trail back, and an emission failure is logged
// by the caller, never propagated to the payer.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Nop discards events. Used in local runs and as a safe default.
type Nop struct{}

func (Nop) Emit(ctx context.Context, event audit.Event) error { return nil }
