package app

import (
	"go-leavesync/internal/employee"
	"go-leavesync/internal/leave"
	"go-leavesync/internal/leavetype"
	"go-leavesync/internal/messaging/kafka"
	"go-leavesync/internal/shared/connection"
	"go-leavesync/internal/syncconfig"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the stores, migrates the schema and registers every
// module on router.
func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")
	cfg := LoadConfig()

	gormDB, err := connectDB(cfg)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	return registerModules(router, cfg, sqlDB, gormDB, redisClient, zap.L())
}

func connectDB(cfg Config) (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		connectRetries,
	)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&syncconfig.SyncConfig{},
		&employee.Employee{},
		&leavetype.LeaveType{},
		&leave.Leave{},
		&kafka.OutboxRecord{},
	)
}
