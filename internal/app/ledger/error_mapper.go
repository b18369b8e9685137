// internal/app/ledger/error_mapper.go
package ledger

import (
	stdErrors "errors"
	"net/http"

	domainErr "github.com/Ai-Whisperers/Vete-sub012/internal/domain/errors"
)

// HTTPError is the transport-safe projection of a domain error: an HTTP
// status, a machine-readable code for the caller-facing layer to localize,
// and for balance rejections the current amount due so the caller can retry
// with a corrected amount.
//
// The application layer owns this translation so the domain stays free of
// HTTP and the transport free of business rules. One deliberate flattening:
// "invoice does not exist" and "invoice belongs to another tenant" both map
// to the same not_found, otherwise error text differences would leak
// cross-tenant existence.
type HTTPError struct {
	Status    int
	Code      string
	Message   string
	AmountDue *int64
}

func MapError(err error) HTTPError {
	var balanceErr *domainErr.BalanceError
	if stdErrors.As(err, &balanceErr) {
		due := balanceErr.AmountDue
		return HTTPError{
			Status:    http.StatusUnprocessableEntity,
			Code:      "exceeds_balance",
			Message:   balanceErr.Error(),
			AmountDue: &due,
		}
	}

	switch {
	case stdErrors.Is(err, domainErr.ErrInvalidAmount):
		return HTTPError{Status: http.StatusBadRequest, Code: "invalid_amount", Message: domainErr.ErrInvalidAmount.Error()}
	case stdErrors.Is(err, domainErr.ErrInvalidMethod):
		return HTTPError{Status: http.StatusBadRequest, Code: "invalid_method", Message: domainErr.ErrInvalidMethod.Error()}
	case stdErrors.Is(err, domainErr.ErrInvoiceNotFound):
		return HTTPError{Status: http.StatusNotFound, Code: "not_found", Message: domainErr.ErrInvoiceNotFound.Error()}
	case stdErrors.Is(err, domainErr.ErrNotPayable):
		return HTTPError{Status: http.StatusConflict, Code: "not_payable", Message: domainErr.ErrNotPayable.Error()}
	case stdErrors.Is(err, domainErr.ErrAlreadySettled):
		return HTTPError{Status: http.StatusConflict, Code: "already_settled", Message: domainErr.ErrAlreadySettled.Error()}
	case stdErrors.Is(err, domainErr.ErrDuplicateReference):
		return HTTPError{Status: http.StatusConflict, Code: "duplicate_reference", Message: domainErr.ErrDuplicateReference.Error()}
	case stdErrors.Is(err, domainErr.ErrStorageUnavailable):
		return HTTPError{Status: http.StatusServiceUnavailable, Code: "storage_unavailable", Message: domainErr.ErrStorageUnavailable.Error()}
	}

	// Fallback: never leak internals.
	return HTTPError{Status: http.StatusInternalServerError, Code: "internal", Message: "internal error"}
}
