package leave

import (
	"go-leavesync/internal/middleware"
	"go-leavesync/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)

		create := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "leave", "create")}
		if rdb != nil {
			create = append(create, middleware.Idempotency(rdb))
		}
		leaves.POST("", append(create, handler.Create)...)

		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.Update)
		leaves.POST("/:id/confirm", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Confirm)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/refuse", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Refuse)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Cancel)
		leaves.POST("/:id/reset", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ResetToDraft)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)
	}
}
