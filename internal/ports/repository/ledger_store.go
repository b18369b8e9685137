// internal/ports/repository/ledger_store.go
package repository

import (
	"context"
	"errors"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/invoice"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
	"github.com/google/uuid"
)

// ErrBalanceConflict is returned by ApplyPayment when another writer advanced
// the invoice balance between the read and the write. The recorder re-reads
// and re-validates; the conflict never reaches the caller directly.
var ErrBalanceConflict = errors.New("invoice balance changed concurrently")

// LedgerStore is the single narrow gateway to invoice and payment state.
// Every method takes the tenant ID as its first argument, so an unscoped
// query is a compile error rather than a runtime bug. A lookup that misses
// within the tenant scope returns ErrInvoiceNotFound whether the row is
// absent or owned by another tenant.
type LedgerStore interface {
	// CreateInvoice inserts a new invoice. Used by the invoicing workflow
	// and by seeding; the ledger itself never creates invoices. Fails with
	// errors.ErrInvoiceExists when the (tenant, id) pair is already present.
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error

	// GetInvoice fetches the invoice under the tenant scope.
	GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*invoice.Invoice, error)

	// ApplyPayment is the atomic unit of the ledger: insert the payment AND
	// advance the owning invoice to (expectedPaid + pay.Amount, newStatus),
	// but only if the invoice's amount_paid still equals expectedPaid.
	// A partial write (payment without invoice update, or the reverse) must
	// be structurally impossible.
	//
	// Returns ErrBalanceConflict on a compare-and-set miss,
	// errors.ErrDuplicateReference when (tenant, invoice, reference) already
	// exists, and errors.ErrInvoiceNotFound when the invoice vanished from
	// the tenant scope.
	ApplyPayment(ctx context.Context, pay *payment.Payment, expectedPaid int64, newStatus invoice.Status) error

	// FindPaymentByReference looks up a prior payment by its idempotency
	// token. Returns (nil, nil) when no such payment exists.
	FindPaymentByReference(ctx context.Context, tenantID, invoiceID uuid.UUID, reference string) (*payment.Payment, error)

	// ListPayments returns the invoice's payments ordered by recorded_at
	// ascending. Fails with ErrInvoiceNotFound when the invoice is not
	// visible under the tenant scope.
	ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]payment.Payment, error)

	// VoidInvoice transitions the invoice to VOID, only from DRAFT, SENT or
	// PARTIAL. PAID is terminal: voiding it returns errors.ErrAlreadySettled.
	VoidInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error
}
