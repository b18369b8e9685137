// internal/web/payment.handler.go
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ai-Whisperers/Vete-sub012/internal/app/ledger"
	domainErr "github.com/Ai-Whisperers/Vete-sub012/internal/domain/errors"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
)

// recordPaymentRequest deliberately has no tenant or actor field; identity
// comes only from the trusted context middleware.
type recordPaymentRequest struct {
	Amount          int64  `json:"amount"`
	Method          string `json:"method"`
	ReferenceNumber string `json:"reference_number"`
	Notes           string `json:"notes"`
}

type paymentResponse struct {
	ID              string    `json:"id"`
	InvoiceID       string    `json:"invoice_id"`
	Amount          int64     `json:"amount"`
	Method          string    `json:"method"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ReceivedBy      string    `json:"received_by"`
	RecordedAt      time.Time `json:"recorded_at"`
}

type recordPaymentResponse struct {
	Payment    paymentResponse `json:"payment"`
	AmountPaid int64           `json:"amount_paid"`
	AmountDue  int64           `json:"amount_due"`
	Status     string          `json:"status"`
	Replayed   bool            `json:"replayed"`
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	AmountDue *int64 `json:"amount_due,omitempty"`
}

func (s *Server) handleRecordPayment(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// A malformed ID cannot match any invoice; same outcome as a miss.
		s.writeError(c, domainErr.ErrInvoiceNotFound)
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "invalid_body", Message: "malformed request body"})
		return
	}

	result, err := s.ledger.RecordPayment(c.Request.Context(), ledger.RecordPaymentInput{
		TenantID:        tenantFrom(c),
		ActorID:         actorFrom(c),
		InvoiceID:       invoiceID,
		Amount:          req.Amount,
		Method:          payment.Method(req.Method),
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, recordPaymentResponse{
		Payment:    toPaymentResponse(result.Payment),
		AmountPaid: result.AmountPaid,
		AmountDue:  result.AmountDue,
		Status:     string(result.Status),
		Replayed:   result.Replayed,
	})
}

func (s *Server) handleListPayments(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.writeError(c, domainErr.ErrInvoiceNotFound)
		return
	}

	payments, err := s.ledger.ListPayments(c.Request.Context(), tenantFrom(c), invoiceID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]paymentResponse, len(payments))
	for i, pay := range payments {
		out[i] = toPaymentResponse(pay)
	}
	c.JSON(http.StatusOK, gin.H{"payments": out})
}

func (s *Server) handleVoidInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.writeError(c, domainErr.ErrInvoiceNotFound)
		return
	}

	if err := s.ledger.VoidInvoice(c.Request.Context(), tenantFrom(c), invoiceID, actorFrom(c)); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "void"})
}

func (s *Server) writeError(c *gin.Context, err error) {
	mapped := ledger.MapError(err)
	if mapped.Status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(mapped.Status, errorResponse{
		Code:      mapped.Code,
		Message:   mapped.Message,
		AmountDue: mapped.AmountDue,
	})
}

func toPaymentResponse(pay payment.Payment) paymentResponse {
	return paymentResponse{
		ID:              pay.ID.String(),
		InvoiceID:       pay.InvoiceID.String(),
		Amount:          pay.Amount,
		Method:          string(pay.Method),
		ReferenceNumber: pay.ReferenceNumber,
		Notes:           pay.Notes,
		ReceivedBy:      pay.ReceivedBy.String(),
		RecordedAt:      pay.RecordedAt,
	}
}
