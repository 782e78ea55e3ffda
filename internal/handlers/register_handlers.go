package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openclerk/ledger/internal/apperrors"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/middleware"
	"github.com/openclerk/ledger/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerHomeRoutes(r)

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Every API route requires a resolved actor identity for posted_by and
	// audit stamping; authn/authz happen upstream of this service.
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	// All ledger resources are tenant-scoped
	tenant := v1.Group("/tenants/:tenant_id")

	registerAccountRoutes(tenant, services.Account)
	registerTaxRateRoutes(tenant, services.TaxRate)
	registerJournalRoutes(tenant, services.Journal)
	registerInvoiceRoutes(tenant, services.Invoice)
	registerExpenseRoutes(tenant, services.Expense)
}

// tenantID extracts the tenant scope from the route.
func tenantID(c *gin.Context) string {
	return c.Param("tenant_id")
}

// respondError maps the error taxonomy onto HTTP statuses. Handlers call this
// after logging; the mapping is uniform across every resource.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyPosted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrImbalancedEntry):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientAuthority):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
