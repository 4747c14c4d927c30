package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hrd-platform/hr-admin-api/internal/middleware"
	"github.com/hrd-platform/hr-admin-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
