// internal/app/ledger/error_mapper_test.go
package ledger

import (
	"errors"
	"net/http"
	"testing"

	domainErr "github.com/Ai-Whisperers/Vete-sub012/internal/domain/errors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid amount", domainErr.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{"invalid method", domainErr.ErrInvalidMethod, http.StatusBadRequest, "invalid_method"},
		{"not found", domainErr.ErrInvoiceNotFound, http.StatusNotFound, "not_found"},
		{"not payable", domainErr.ErrNotPayable, http.StatusConflict, "not_payable"},
		{"already settled", domainErr.ErrAlreadySettled, http.StatusConflict, "already_settled"},
		{"duplicate reference", domainErr.ErrDuplicateReference, http.StatusConflict, "duplicate_reference"},
		{"storage unavailable", domainErr.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
		{"wrapped storage unavailable", errors.Join(domainErr.ErrStorageUnavailable, errors.New("dial tcp refused")), http.StatusServiceUnavailable, "storage_unavailable"},
		{"unknown error never leaks", errors.New("pq: relation payments does not exist"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			if mapped.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, mapped.Status)
			}
			if mapped.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, mapped.Code)
			}
			if mapped.AmountDue != nil {
				t.Errorf("unexpected amount_due payload for %v", tt.err)
			}
		})
	}
}

func TestMapErrorExceedsBalancePayload(t *testing.T) {
	mapped := MapError(&domainErr.BalanceError{AmountDue: 50000})
	if mapped.Status != http.StatusUnprocessableEntity || mapped.Code != "exceeds_balance" {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
	if mapped.AmountDue == nil || *mapped.AmountDue != 50000 {
		t.Fatalf("expected amount_due 50000 in payload, got %v", mapped.AmountDue)
	}
}

func TestMapErrorInternalFallbackHidesDetails(t *testing.T) {
	mapped := MapError(errors.New("tenant 3f2a... owns this invoice"))
	if mapped.Message != "internal error" {
		t.Fatalf("internal error text leaked: %q", mapped.Message)
	}
}
