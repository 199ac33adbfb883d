package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"movingmatch/pkg/models"
)

// Authentication lives in the upstream gateway; it forwards the
// verified principal in these headers. The service itself never sees
// credentials.
const (
	headerPrincipalID   = "X-Principal-Id"
	headerPrincipalRole = "X-Principal-Role"

	ctxPrincipalID   = "principal_id"
	ctxPrincipalRole = "principal_role"
)

func principal(c *gin.Context) (int64, models.Role) {
	return c.GetInt64(ctxPrincipalID), models.Role(c.GetString(ctxPrincipalRole))
}

func requirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := cast.ToInt64E(c.GetHeader(headerPrincipalID))
		if err != nil || id <= 0 {
			Error(c, http.StatusUnauthorized, "missing principal")
			c.Abort()
			return
		}
		role := c.GetHeader(headerPrincipalRole)
		if !models.ValidRole(role) {
			Error(c, http.StatusUnauthorized, "missing principal role")
			c.Abort()
			return
		}
		c.Set(ctxPrincipalID, id)
		c.Set(ctxPrincipalRole, role)
		c.Next()
	}
}

func requireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role := principal(c)
		for _, r := range roles {
			if role == r || role == models.RoleAdmin {
				c.Next()
				return
			}
		}
		Error(c, http.StatusForbidden, "forbidden for this role")
		c.Abort()
	}
}
