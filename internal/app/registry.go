package app

import (
	"database/sql"

	"go-leavesync/internal/employee"
	"go-leavesync/internal/leave"
	"go-leavesync/internal/leavesync"
	"go-leavesync/internal/leavetype"
	"go-leavesync/internal/messaging/kafka"
	"go-leavesync/internal/rbac"
	"go-leavesync/internal/rbac/infra"
	"go-leavesync/internal/remote"
	"go-leavesync/internal/syncconfig"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	syncConfigRepo := syncconfig.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath, cfg.RBACPolicyPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	dialer := remote.NewDialer(remote.WithLogger(logger))
	syncConfigService := syncconfig.NewService(db, syncConfigRepo, dialer, logger)
	employeeService := employee.NewService(db, employeeRepo, rdb, logger)
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo, syncConfigService, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, logger)

	syncEngine := leavesync.NewEngine(
		syncConfigService,
		leaveService,
		leavesync.WithOutbox(outboxRepo),
		leavesync.WithLogger(logger),
	)
	leaveService.Subscribe(syncEngine)

	// --- Handlers ---
	syncConfigHandler := syncconfig.NewHandler(syncConfigService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, logger)
	leaveHandler := leave.NewHandler(leaveService, rbacService, rdb, logger)
	leaveSyncHandler := leavesync.NewHandler(syncEngine, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		syncconfig.RegisterRoutes(api, syncConfigHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, logger)
		leavesync.RegisterRoutes(api, leaveSyncHandler, rbacService, logger)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
