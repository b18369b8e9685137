// internal/app/ledger/record_payment.commands.go
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/audit"
	domainErr "github.com/Ai-Whisperers/Vete-sub012/internal/domain/errors"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/invoice"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
	"github.com/Ai-Whisperers/Vete-sub012/internal/ports/emitter"
	"github.com/Ai-Whisperers/Vete-sub012/internal/ports/repository"
)

// RecordPaymentInput carries one payment request. TenantID and ActorID come
// from the trusted tenant context resolver, never from the request body.
type RecordPaymentInput struct {
	TenantID        uuid.UUID
	ActorID         uuid.UUID
	InvoiceID       uuid.UUID
	Amount          int64
	Method          payment.Method
	ReferenceNumber string
	Notes           string
}

// RecordPaymentResult is the created (or replayed) payment plus the invoice
// balance as of the commit that produced it.
type RecordPaymentResult struct {
	Payment    payment.Payment
	AmountPaid int64
	AmountDue  int64
	Status     invoice.Status

	// Replayed is true when the reference number matched a prior payment and
	// no new record was created.
	Replayed bool
}

// Service is the payment recorder. It owns the only write path to invoice
// balances; everything else in the system reads.
type Service struct {
	store repository.LedgerStore
	audit emitter.AuditEmitter
	log   zerolog.Logger

	// sf collapses concurrent in-flight calls that share an idempotency key.
	// If 50 retries for the same (tenant, invoice, reference) land in the
	// same instant, one of them runs the write; the rest wait and receive
	// the same result. The storage unique constraint remains the backstop
	// for duplicates arriving on different instances.
	sf singleflight.Group
}

func NewService(store repository.LedgerStore, auditEmitter emitter.AuditEmitter, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		audit: auditEmitter,
		log:   log,
	}
}

// RecordPayment validates, persists the payment and advances the invoice
// balance as one atomic unit. Concurrent calls on the same invoice are
// serialized by the store's compare-and-set; calls on different invoices
// never contend.
func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	// Fail fast before any storage access.
	if in.Amount <= 0 {
		return nil, domainErr.ErrInvalidAmount
	}
	if !in.Method.Valid() {
		return nil, domainErr.ErrInvalidMethod
	}

	if in.ReferenceNumber == "" {
		return s.recordOnce(ctx, in)
	}

	key := fmt.Sprintf("record_payment_%s_%s_%s", in.TenantID, in.InvoiceID, in.ReferenceNumber)
	var leader bool
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		leader = true
		return s.recordOnce(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	res := v.(*RecordPaymentResult)

	// A collapsed call may only share the winner's result when it described
	// the same logical payment. A same-reference call with a different amount
	// or method is a conflict here, exactly as on the sequential replay path.
	if res.Payment.Amount != in.Amount || res.Payment.Method != in.Method {
		return nil, domainErr.ErrDuplicateReference
	}
	if !leader && !res.Replayed {
		shared := *res
		shared.Replayed = true
		return &shared, nil
	}
	return res, nil
}

// recordOnce runs the read-validate-write cycle, retrying on balance
// conflicts. The status derivation is computed from the atomically-read
// pre-state; the store only commits if that pre-state is still current.
//
// The conflict loop needs no retry budget: a compare-and-set miss means
// another writer committed a payment on this invoice, so the system as a
// whole always makes progress, and each retry re-validates against a strictly
// larger balance until the invoice settles or the amount stops fitting.
func (s *Service) recordOnce(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inv, err := s.store.GetInvoice(ctx, in.TenantID, in.InvoiceID)
		if err != nil {
			return nil, s.wrapStorage(in.TenantID, in.InvoiceID, err)
		}

		// Idempotent replay: a retry after a client-observed timeout must
		// not create a second payment.
		if in.ReferenceNumber != "" {
			prior, err := s.store.FindPaymentByReference(ctx, in.TenantID, in.InvoiceID, in.ReferenceNumber)
			if err != nil {
				return nil, s.wrapStorage(in.TenantID, in.InvoiceID, err)
			}
			if prior != nil {
				return s.replay(inv, prior, in)
			}
		}

		newPaid, newStatus, err := inv.ApplyPayment(in.Amount)
		if err != nil {
			return nil, err
		}

		pay := &payment.Payment{
			ID:              uuid.New(),
			TenantID:        in.TenantID,
			InvoiceID:       in.InvoiceID,
			Amount:          in.Amount,
			Method:          in.Method,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			ReceivedBy:      in.ActorID,
			RecordedAt:      time.Now().UTC(),
		}

		err = s.store.ApplyPayment(ctx, pay, inv.AmountPaid, newStatus)
		switch {
		case err == nil:
			res := &RecordPaymentResult{
				Payment:    *pay,
				AmountPaid: newPaid,
				AmountDue:  inv.Total - newPaid,
				Status:     newStatus,
			}
			s.emitAudit(ctx, audit.ActionRecordPayment, in.TenantID, in.ActorID, in.InvoiceID, map[string]any{
				"payment_id": pay.ID.String(),
				"amount":     pay.Amount,
				"new_status": string(newStatus),
			})
			return res, nil

		case errors.Is(err, repository.ErrBalanceConflict):
			// Another writer advanced the balance first. Re-read and
			// re-validate against the new pre-state.
			continue

		case errors.Is(err, domainErr.ErrDuplicateReference):
			// The unique constraint caught a duplicate that slipped past the
			// pre-write lookup (a concurrent writer on another instance).
			return s.replayAfterConflict(ctx, in)

		default:
			return nil, s.wrapStorage(in.TenantID, in.InvoiceID, err)
		}
	}
}

// wrapStorage classifies an error coming back from the store: domain outcomes
// and caller cancellation pass through untouched, anything else is a transient
// infrastructure failure the caller may safely retry.
func (s *Service) wrapStorage(tenantID, invoiceID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, domainErr.ErrInvoiceNotFound),
		errors.Is(err, domainErr.ErrAlreadySettled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	s.log.Error().Err(err).
		Str("tenant_id", tenantID.String()).
		Str("invoice_id", invoiceID.String()).
		Msg("storage access failed")
	return fmt.Errorf("%w: %v", domainErr.ErrStorageUnavailable, err)
}

// replay returns the original payment unchanged for a repeated reference
// number. A same-reference call carrying a different amount or method is not
// a retry of the same logical payment, so it fails instead of acknowledging
// an amount that was never applied.
func (s *Service) replay(inv *invoice.Invoice, prior *payment.Payment, in RecordPaymentInput) (*RecordPaymentResult, error) {
	if prior.Amount != in.Amount || prior.Method != in.Method {
		return nil, domainErr.ErrDuplicateReference
	}
	return &RecordPaymentResult{
		Payment:    *prior,
		AmountPaid: inv.AmountPaid,
		AmountDue:  inv.AmountDue(),
		Status:     inv.Status,
		Replayed:   true,
	}, nil
}

// replayAfterConflict re-reads invoice and payment after the storage layer
// rejected our insert as a duplicate; the winning writer's state is the one
// to report.
func (s *Service) replayAfterConflict(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	inv, err := s.store.GetInvoice(ctx, in.TenantID, in.InvoiceID)
	if err != nil {
		return nil, s.wrapStorage(in.TenantID, in.InvoiceID, err)
	}
	prior, err := s.store.FindPaymentByReference(ctx, in.TenantID, in.InvoiceID, in.ReferenceNumber)
	if err != nil {
		return nil, s.wrapStorage(in.TenantID, in.InvoiceID, err)
	}
	if prior == nil {
		return nil, domainErr.ErrDuplicateReference
	}
	return s.replay(inv, prior, in)
}

// emitAudit is best-effort and runs after the commit, outside any lock.
// A failed emission is an operational problem, never the payer's.
func (s *Service) emitAudit(ctx context.Context, action string, tenantID, actorID, targetID uuid.UUID, metadata map[string]any) {
	event := audit.Event{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ActorID:   actorID,
		Action:    action,
		TargetID:  targetID,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	// The request context may already be cancelled now that the caller has
	// its answer; the trail write should still be attempted.
	if err := s.audit.Emit(context.WithoutCancel(ctx), event); err != nil {
		s.log.Warn().Err(err).
			Str("action", action).
			Str("invoice_id", targetID.String()).
			Msg("audit emission failed")
	}
}
