package middleware

import (
	"go-leavesync/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextUserID ContextKey = "user_id"
	ContextRole   ContextKey = "role"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(ContextRole))
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Can reports whether the caller's role may perform action on resource.
// Errors count as a denial.
func Can(c *gin.Context, service RBACService, resource, action string) bool {
	role := c.GetString(string(ContextRole))
	if role == "" || service == nil {
		return false
	}
	allowed, err := service.Enforce(domain.EnforceRequest{Role: role, Resource: resource, Action: action})
	return err == nil && allowed
}
