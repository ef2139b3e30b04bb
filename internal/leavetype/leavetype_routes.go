package leavetype

import (
	"go-leavesync/internal/middleware"
	"go-leavesync/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetAll)
		types.GET("/remote",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "leave_type", "manage"),
			handler.FetchRemote,
		)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetById)
		types.POST("", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.Create)
		types.PUT("/:id/remote-mapping", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.SetRemoteMapping)
	}
}
