package syncconfig

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
	configs := r.Group("/sync-configs")
	configs.Use(middleware.AuthMiddleware())
	configs.Use(middleware.RBACAuthorize(rbacService, "sync_config", "manage"))
	{
		configs.GET("", handler.GetAll)
		configs.GET("/:id", handler.GetById)
		configs.POST("", handler.Create)
		configs.PUT("/:id", handler.Update)
		configs.DELETE("/:id", handler.Delete)
		configs.POST("/:id/activate", handler.Activate)
		configs.POST("/:id/deactivate", handler.Deactivate)
		configs.POST("/:id/test-connection", middleware.RateLimitByIP(1, 3), handler.TestConnection)
	}
}
