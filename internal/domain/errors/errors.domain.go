// internal/domain/errors/errors.domain.go
package errors

import (
	"errors"
	"fmt"
)

// Standard Sentinel Errors
// These allow the transport layer to map ledger outcomes to status codes
// without inspecting error strings.

var (
	// ErrInvalidAmount rejects zero or negative amounts before any storage access.
	ErrInvalidAmount = errors.New("payment amount must be a positive integer")

	// ErrInvalidMethod rejects payment methods outside the known enum.
	ErrInvalidMethod = errors.New("unknown payment method")

	// ErrInvoiceNotFound covers both "does not exist" and "belongs to another
	// tenant". The two cases must stay indistinguishable to the caller.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvoiceExists rejects creating an invoice whose (tenant, id) pair is
	// already present.
	ErrInvoiceExists = errors.New("invoice already exists")

	// ErrNotPayable protects the state machine: DRAFT invoices cannot receive payments.
	ErrNotPayable = errors.New("invoice is not payable yet")

	// ErrAlreadySettled covers PAID and VOID invoices. Checked before the
	// balance check so a settled invoice never reports an overpayment.
	ErrAlreadySettled = errors.New("invoice is already settled")

	// ErrExceedsBalance is the sentinel matched by BalanceError via errors.Is.
	ErrExceedsBalance = errors.New("amount exceeds remaining balance")

	// ErrDuplicateReference means the reference number was already used on this
	// invoice by a payment with a different amount or method.
	ErrDuplicateReference = errors.New("duplicate reference number")

	// ErrStorageUnavailable is transient. The write is atomic, so a retry is
	// always safe: either nothing committed or the idempotency key replays.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// BalanceError carries the current amount due so the caller can retry with a
// corrected amount. It matches ErrExceedsBalance under errors.Is.
type BalanceError struct {
	AmountDue int64
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("amount exceeds remaining balance of %d", e.AmountDue)
}

func (e *BalanceError) Is(target error) bool {
	return target == ErrExceedsBalance
}
