// internal/web/middleware.go
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity headers set by the upstream gateway once it has authenticated the
// caller and resolved their tenant. The ledger trusts these values and never
// accepts a tenant or actor ID from a request body.
const (
	headerTenantID = "X-Tenant-ID"
	headerActorID  = "X-Actor-ID"
)

const (
	ctxTenantID = "tenant_id"
	ctxActorID  = "actor_id"
)

// TenantContext extracts the trusted identity headers into the request
// context. Requests without a valid tenant identity never reach a handler.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := uuid.Parse(c.GetHeader(headerTenantID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Code:    "unauthenticated",
				Message: "missing tenant context",
			})
			return
		}
		actorID, err := uuid.Parse(c.GetHeader(headerActorID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Code:    "unauthenticated",
				Message: "missing actor context",
			})
			return
		}
		c.Set(ctxTenantID, tenantID)
		c.Set(ctxActorID, actorID)
		c.Next()
	}
}

func tenantFrom(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxTenantID).(uuid.UUID)
}

func actorFrom(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxActorID).(uuid.UUID)
}
