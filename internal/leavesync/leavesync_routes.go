package leavesync

import (
	"go-leavesync/internal/middleware"
	"go-leavesync/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		// manual sync talks to the remote synchronously
		leaves.POST("/:id/sync",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave", "sync"),
			handler.Sync,
		)
		leaves.GET("/:id/remote-url", middleware.RBACAuthorize(rbacService, "leave", "sync"), handler.RemoteURL)
	}
}
