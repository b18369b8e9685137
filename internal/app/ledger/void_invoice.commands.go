// internal/app/ledger/void_invoice.commands.go
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/audit"
)

// VoidInvoice transitions an invoice to VOID. Allowed from DRAFT, SENT and
// PARTIAL; PAID is terminal. Once void, RecordPayment rejects with
// AlreadySettled regardless of the remaining balance. The store enforces the
// transition with a conditional update, so a concurrent payment and void on
// the same invoice serialize there.
func (s *Service) VoidInvoice(ctx context.Context, tenantID, invoiceID, actorID uuid.UUID) error {
	if err := s.store.VoidInvoice(ctx, tenantID, invoiceID); err != nil {
		return s.wrapStorage(tenantID, invoiceID, err)
	}
	s.emitAudit(ctx, audit.ActionVoidInvoice, tenantID, actorID, invoiceID, nil)
	return nil
}
