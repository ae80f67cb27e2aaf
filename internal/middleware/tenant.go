package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/response"
)

// ContextTenantKey is the gin context key storing resolved tenant claims.
const ContextTenantKey = "currentTenant"

// Tenant resolves the acting school from the bearer token the admin panel
// issued. Every timetable operation is scoped by the school id carried here;
// there is no ambient tenant state.
func Tenant(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims := &models.TenantClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token"))
			c.Abort()
			return
		}
		if claims.SchoolID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no school scope"))
			c.Abort()
			return
		}

		c.Set(ContextTenantKey, claims)
		c.Next()
	}
}
