// internal/web/server.go
package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ai-Whisperers/Vete-sub012/internal/app/ledger"
	"github.com/Ai-Whisperers/Vete-sub012/internal/domain/payment"
)

// LedgerAPI is the slice of the application service the handlers use.
// Defined here so handler tests can mock it.
type LedgerAPI interface {
	RecordPayment(ctx context.Context, in ledger.RecordPaymentInput) (*ledger.RecordPaymentResult, error)
	ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]payment.Payment, error)
	VoidInvoice(ctx context.Context, tenantID, invoiceID, actorID uuid.UUID) error
}

// Server is the HTTP surface of the payment ledger.
type Server struct {
	ledger LedgerAPI
	router *gin.Engine
	log    zerolog.Logger
}

func NewServer(ledgerSvc LedgerAPI, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		ledger: ledgerSvc,
		router: router,
		log:    log,
	}

	router.GET("/healthz", s.handleHealth)

	// Everything under /api requires the identity headers set by the
	// upstream gateway after authentication.
	api := router.Group("/api", TenantContext())
	{
		api.POST("/invoices/:id/payments", s.handleRecordPayment)
		api.GET("/invoices/:id/payments", s.handleListPayments)
		api.POST("/invoices/:id/void", s.handleVoidInvoice)
	}

	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
