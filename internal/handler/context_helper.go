package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/favouruzodinma/academixsuite-sub000/internal/middleware"
	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
)

func tenantFromContext(c *gin.Context) *models.TenantClaims {
	value, exists := c.Get(middleware.ContextTenantKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.TenantClaims)
	if !ok {
		return nil
	}
	return claims
}
