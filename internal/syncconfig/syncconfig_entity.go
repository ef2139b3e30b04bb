package syncconfig

import (
	"time"

	"go-leavesync/internal/remote"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncConfig holds the remote credentials and the sync toggles.
// At most one row may have IsActive set; the service enforces it on every write.
type SyncConfig struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(120);not null"`
	IsActive bool      `gorm:"not null;index:idx_leave_sync_configs_active"`

	Host     string `gorm:"type:varchar(255);not null"`
	Port     int    `gorm:"not null"`
	Protocol string `gorm:"type:varchar(20);not null"`
	Database string `gorm:"type:varchar(120);not null"`
	Username string `gorm:"type:varchar(120);not null"`
	Password string `gorm:"type:text;not null"`

	SyncOnCreate      bool `gorm:"not null"`
	SyncOnApprove     bool `gorm:"not null"`
	SyncOnRefuse      bool `gorm:"not null"`
	AutoApproveRemote bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SyncConfig) TableName() string {
	return "leave_sync_configs"
}

func (c SyncConfig) Credentials() remote.Credentials {
	return remote.Credentials{
		Host:     c.Host,
		Port:     c.Port,
		Protocol: c.Protocol,
		Database: c.Database,
		Login:    c.Username,
		Password: c.Password,
	}
}
