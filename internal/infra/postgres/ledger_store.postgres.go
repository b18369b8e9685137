// internal/infra/postgres/ledger_store.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	domainErr "github.com/Ai-Whisperers/Vete-sub012/internal/domain/errors"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/invoice"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
	"github.com/Ai-Whisperers/Vete-sub012/internal/ports/repository"
)

// uniqueViolation is the postgres error code raised by the partial unique
// index on (tenant_id, invoice_id, reference_number). The constraint is the
// single source of truth for idempotency; this layer merely interprets it.
const uniqueViolation = "23505"

type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Open connects and verifies the database is reachable.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

var _ repository.LedgerStore = (*LedgerStore)(nil)

func (s *LedgerStore) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (tenant_id, id, total, amount_paid, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, err := s.db.ExecContext(ctx, query,
		inv.TenantID,
		inv.ID,
		inv.Total,
		inv.AmountPaid,
		inv.Status,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domainErr.ErrInvoiceExists
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

func (s *LedgerStore) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*invoice.Invoice, error) {
	query := `
		SELECT tenant_id, id, total, amount_paid, status, created_at, updated_at
		FROM invoices
		WHERE tenant_id = $1 AND id = $2`

	var inv invoice.Invoice
	err := s.db.QueryRowContext(ctx, query, tenantID, invoiceID).Scan(
		&inv.TenantID,
		&inv.ID,
		&inv.Total,
		&inv.AmountPaid,
		&inv.Status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent and cross-tenant look identical from here on.
			return nil, domainErr.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	return &inv, nil
}

// ApplyPayment runs the combined write as one transaction: advance the
// invoice balance with a compare-and-set on amount_paid, then insert the
// payment row. Either both commit or neither does, so "payment inserted but
// invoice not updated" cannot exist even across a crash.
func (s *LedgerStore) ApplyPayment(ctx context.Context, pay *payment.Payment, expectedPaid int64, newStatus invoice.Status) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The WHERE amount_paid = $expected predicate is what serializes two
	// concurrent writers on the same invoice: the loser updates 0 rows.
	updateQuery := `
		UPDATE invoices
		SET amount_paid = $4, status = $5, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND amount_paid = $3`

	res, err := tx.ExecContext(ctx, updateQuery,
		pay.TenantID,
		pay.InvoiceID,
		expectedPaid,
		expectedPaid+pay.Amount,
		newStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to advance invoice balance: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		// 0 rows means either the invoice is gone from this tenant's scope
		// or another writer advanced the balance first.
		existsQuery := `SELECT 1 FROM invoices WHERE tenant_id = $1 AND id = $2`
		var one int
		scanErr := tx.QueryRowContext(ctx, existsQuery, pay.TenantID, pay.InvoiceID).Scan(&one)
		if errors.Is(scanErr, sql.ErrNoRows) {
			err = domainErr.ErrInvoiceNotFound
			return err
		}
		if scanErr != nil {
			err = fmt.Errorf("failed to check invoice existence: %w", scanErr)
			return err
		}
		err = repository.ErrBalanceConflict
		return err
	}

	insertQuery := `
		INSERT INTO payments (tenant_id, id, invoice_id, amount, method, reference_number, notes, received_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var ref sql.NullString
	if pay.ReferenceNumber != "" {
		ref = sql.NullString{String: pay.ReferenceNumber, Valid: true}
	}

	_, err = tx.ExecContext(ctx, insertQuery,
		pay.TenantID,
		pay.ID,
		pay.InvoiceID,
		pay.Amount,
		pay.Method,
		ref,
		pay.Notes,
		pay.ReceivedBy,
		pay.RecordedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			err = domainErr.ErrDuplicateReference
			return err
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment transaction: %w", err)
	}
	return nil
}

func (s *LedgerStore) FindPaymentByReference(ctx context.Context, tenantID, invoiceID uuid.UUID, reference string) (*payment.Payment, error) {
	query := `
		SELECT tenant_id, id, invoice_id, amount, method, reference_number, notes, received_by, recorded_at
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2 AND reference_number = $3`

	pay, err := s.scanPayment(s.db.QueryRowContext(ctx, query, tenantID, invoiceID, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch payment by reference: %w", err)
	}
	return pay, nil
}

func (s *LedgerStore) ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]payment.Payment, error) {
	// The invoice existence probe keeps cross-tenant reads indistinguishable
	// from missing invoices, same as the write path.
	if _, err := s.GetInvoice(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}

	query := `
		SELECT tenant_id, id, invoice_id, amount, method, reference_number, notes, received_by, recorded_at
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY recorded_at ASC`

	rows, err := s.db.QueryContext(ctx, query, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	defer rows.Close()

	var payments []payment.Payment
	for rows.Next() {
		pay, err := s.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *pay)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// VoidInvoice only succeeds from DRAFT, SENT or PARTIAL. The status list in
// the WHERE clause enforces the transition at the database level, same
// pattern as the balance compare-and-set.
func (s *LedgerStore) VoidInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	query := `
		UPDATE invoices
		SET status = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status IN ('draft', 'sent', 'partial')`

	res, err := s.db.ExecContext(ctx, query, tenantID, invoiceID, invoice.StatusVoid)
	if err != nil {
		return fmt.Errorf("failed to void invoice: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		existsQuery := `SELECT 1 FROM invoices WHERE tenant_id = $1 AND id = $2`
		var one int
		if scanErr := s.db.QueryRowContext(ctx, existsQuery, tenantID, invoiceID).Scan(&one); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return domainErr.ErrInvoiceNotFound
			}
			return fmt.Errorf("failed to check invoice existence: %w", scanErr)
		}
		// Exists but was PAID or already VOID.
		return domainErr.ErrAlreadySettled
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *LedgerStore) scanPayment(row rowScanner) (*payment.Payment, error) {
	var pay payment.Payment
	var ref sql.NullString
	var notes sql.NullString
	if err := row.Scan(
		&pay.TenantID,
		&pay.ID,
		&pay.InvoiceID,
		&pay.Amount,
		&pay.Method,
		&ref,
		&notes,
		&pay.ReceivedBy,
		&pay.RecordedAt,
	); err != nil {
		return nil, err
	}
	pay.ReferenceNumber = ref.String
	pay.Notes = notes.String
	return &pay, nil
}
