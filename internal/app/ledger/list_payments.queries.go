// internal/app/ledger/list_payments.queries.go
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
)

// ListPayments returns the invoice's payments ordered by recorded_at
// ascending. The tenant scope rule is the same as for RecordPayment: an
// invoice in another tenant is a not-found, never a distinguishable
// "forbidden". Read-only, no locking beyond the store's snapshot
// consistency: a reader sees either a committed payment together with its
// invoice update, or neither.
func (s *Service) ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]payment.Payment, error) {
	payments, err := s.store.ListPayments(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, s.wrapStorage(tenantID, invoiceID, err)
	}
	return payments, nil
}
