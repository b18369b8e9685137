// internal/infra/memory/ledger_store.memory.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErr "github.com/Ai-Whisperers/Vete-sub012/internal/domain/errors"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/invoice"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
	"github.com/Ai-Whisperers/Vete-sub012/internal/ports/repository"
)

// invoiceKey scopes every lookup by tenant first. A cross-tenant probe
// simply misses the map.
type invoiceKey struct {
	tenantID  uuid.UUID
	invoiceID uuid.UUID
}

// LedgerStore is the in-memory implementation, used by tests and local runs.
// It honors the same contract as postgres: ApplyPayment is atomic under the
// mutex and commits only when amount_paid still equals the expected
// pre-state, so the recorder's compare-and-set loop behaves identically.
type LedgerStore struct {
	mu       sync.RWMutex
	invoices map[invoiceKey]invoice.Invoice
	payments map[invoiceKey][]payment.Payment
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		invoices: make(map[invoiceKey]invoice.Invoice),
		payments: make(map[invoiceKey][]payment.Payment),
	}
}

var _ repository.LedgerStore = (*LedgerStore)(nil)

func (s *LedgerStore) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := invoiceKey{tenantID: inv.TenantID, invoiceID: inv.ID}
	if _, ok := s.invoices[key]; ok {
		return domainErr.ErrInvoiceExists
	}
	now := time.Now().UTC()
	stored := *inv
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.invoices[key] = stored
	return nil
}

func (s *LedgerStore) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*invoice.Invoice, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[invoiceKey{tenantID: tenantID, invoiceID: invoiceID}]
	if !ok {
		return nil, domainErr.ErrInvoiceNotFound
	}
	copied := inv
	return &copied, nil
}

func (s *LedgerStore) ApplyPayment(ctx context.Context, pay *payment.Payment, expectedPaid int64, newStatus invoice.Status) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := invoiceKey{tenantID: pay.TenantID, invoiceID: pay.InvoiceID}
	inv, ok := s.invoices[key]
	if !ok {
		return domainErr.ErrInvoiceNotFound
	}

	// Reference uniqueness backstop, same as the postgres partial index.
	if pay.ReferenceNumber != "" {
		for _, existing := range s.payments[key] {
			if existing.ReferenceNumber == pay.ReferenceNumber {
				return domainErr.ErrDuplicateReference
			}
		}
	}

	// Compare-and-set on the balance the caller read.
	if inv.AmountPaid != expectedPaid {
		return repository.ErrBalanceConflict
	}

	inv.AmountPaid = expectedPaid + pay.Amount
	inv.Status = newStatus
	inv.UpdatedAt = time.Now().UTC()
	s.invoices[key] = inv
	s.payments[key] = append(s.payments[key], *pay)
	return nil
}

func (s *LedgerStore) FindPaymentByReference(ctx context.Context, tenantID, invoiceID uuid.UUID, reference string) (*payment.Payment, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.payments[invoiceKey{tenantID: tenantID, invoiceID: invoiceID}] {
		if existing.ReferenceNumber == reference {
			copied := existing
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *LedgerStore) ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]payment.Payment, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := invoiceKey{tenantID: tenantID, invoiceID: invoiceID}
	if _, ok := s.invoices[key]; !ok {
		return nil, domainErr.ErrInvoiceNotFound
	}

	result := make([]payment.Payment, len(s.payments[key]))
	copy(result, s.payments[key])
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordedAt.Before(result[j].RecordedAt)
	})
	return result, nil
}

func (s *LedgerStore) VoidInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := invoiceKey{tenantID: tenantID, invoiceID: invoiceID}
	inv, ok := s.invoices[key]
	if !ok {
		return domainErr.ErrInvoiceNotFound
	}
	if !inv.Voidable() {
		return domainErr.ErrAlreadySettled
	}
	inv.Status = invoice.StatusVoid
	inv.UpdatedAt = time.Now().UTC()
	s.invoices[key] = inv
	return nil
}
