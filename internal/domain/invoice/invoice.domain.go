// internal/domain/invoice/invoice.domain.go
package invoice

import (
	"time"

	domainErr "github.com/Ai-Whisperers/Vete-sub012/internal/domain/errors"
	"github.com/google/uuid"
)

// Status is the invoice lifecycle state.
// DRAFT -> SENT -> PARTIAL -> PAID, with VOID reachable from DRAFT, SENT and
// PARTIAL. PAID and VOID are terminal for the ledger: no payment may be
// recorded against them.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusVoid    Status = "void"
)

// Invoice is a billable document owned by exactly one tenant.
// Total is fixed at issuance; AmountPaid only ever grows, and only through
// the payment recorder. Amounts are integer minor currency units (whole
// Guaraní), never floats.
type Invoice struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Total      int64
	AmountPaid int64
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AmountDue is derived, never stored independently.
func (inv *Invoice) AmountDue() int64 {
	return inv.Total - inv.AmountPaid
}

// CanAcceptPayment is the state-machine gate, checked before any balance
// math. Settled (PAID/VOID, or due == 0) wins over the balance check so the
// caller gets the more specific error.
func (inv *Invoice) CanAcceptPayment() error {
	switch inv.Status {
	case StatusDraft:
		return domainErr.ErrNotPayable
	case StatusPaid, StatusVoid:
		return domainErr.ErrAlreadySettled
	}
	if inv.AmountDue() == 0 {
		return domainErr.ErrAlreadySettled
	}
	return nil
}

// ApplyPayment derives the post-payment balance and status from the
// atomically-read pre-state. It is pure: the caller commits the result with
// a compare-and-set on the pre-state AmountPaid, so no second writer can
// interleave between derivation and commit.
func (inv *Invoice) ApplyPayment(amount int64) (newPaid int64, newStatus Status, err error) {
	if amount <= 0 {
		return 0, "", domainErr.ErrInvalidAmount
	}
	if err := inv.CanAcceptPayment(); err != nil {
		return 0, "", err
	}
	if due := inv.AmountDue(); amount > due {
		return 0, "", &domainErr.BalanceError{AmountDue: due}
	}

	newPaid = inv.AmountPaid + amount
	if newPaid == inv.Total {
		newStatus = StatusPaid
	} else {
		newStatus = StatusPartial
	}
	return newPaid, newStatus, nil
}

// Voidable reports whether the void transition is allowed from the current
// state. PAID is terminal and cannot be voided.
func (inv *Invoice) Voidable() bool {
	switch inv.Status {
	case StatusDraft, StatusSent, StatusPartial:
		return true
	}
	return false
}
