// internal/app/ledger/list_payments_test.go
package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/invoice"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
)

func TestListPaymentsOrderedByRecordedAt(t *testing.T) {
	svc, store, _ := newTestService(t)
	tenantID := uuid.New()
	invoiceID := seedInvoice(t, store, tenantID, 100000, 0, invoice.StatusSent)

	amounts := []int64{10000, 20000, 30000}
	for _, amount := range amounts {
		if _, err := svc.RecordPayment(context.Background(), basePayment(tenantID, invoiceID, amount)); err != nil {
			t.Fatalf("payment of %d failed: %v", amount, err)
		}
	}

	payments, err := svc.ListPayments(context.Background(), tenantID, invoiceID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(payments) != len(amounts) {
		t.Fatalf("expected %d payments, got %d", len(amounts), len(payments))
	}
	for i := 1; i < len(payments); i++ {
		if payments[i].RecordedAt.Before(payments[i-1].RecordedAt) {
			t.Fatalf("payments out of order at index %d", i)
		}
	}
	// Sequential recording preserves the amounts in order here.
	for i, pay := range payments {
		if pay.Amount != amounts[i] {
			t.Errorf("index %d: expected amount %d, got %d", i, amounts[i], pay.Amount)
		}
	}
}

func TestListPaymentsEmptyInvoice(t *testing.T) {
	svc, store, _ := newTestService(t)
	tenantID := uuid.New()
	invoiceID := seedInvoice(t, store, tenantID, 100000, 0, invoice.StatusSent)

	payments, err := svc.ListPayments(context.Background(), tenantID, invoiceID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(payments) != 0 {
		t.Fatalf("expected no payments, got %d", len(payments))
	}
}

func TestListPaymentsDoesNotLeakAcrossInvoices(t *testing.T) {
	svc, store, _ := newTestService(t)
	tenantID := uuid.New()
	first := seedInvoice(t, store, tenantID, 100000, 0, invoice.StatusSent)
	second := seedInvoice(t, store, tenantID, 100000, 0, invoice.StatusSent)

	if _, err := svc.RecordPayment(context.Background(), basePayment(tenantID, first, 5000)); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	payments, err := svc.ListPayments(context.Background(), tenantID, second)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(payments) != 0 {
		t.Fatalf("payments leaked across invoices: %d", len(payments))
	}
}

func TestListPaymentsRecordsAreDenormalized(t *testing.T) {
	svc, store, _ := newTestService(t)
	tenantID := uuid.New()
	invoiceID := seedInvoice(t, store, tenantID, 100000, 0, invoice.StatusSent)

	in := basePayment(tenantID, invoiceID, 5000)
	in.Method = payment.MethodTransfer
	if _, err := svc.RecordPayment(context.Background(), in); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	payments, err := svc.ListPayments(context.Background(), tenantID, invoiceID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	pay := payments[0]
	if pay.TenantID != tenantID || pay.InvoiceID != invoiceID {
		t.Errorf("payment scoping fields wrong: %+v", pay)
	}
	if pay.Method != payment.MethodTransfer {
		t.Errorf("expected method transfer, got %s", pay.Method)
	}
}
