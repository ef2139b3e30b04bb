package leave

import (
	"time"

	"go-leavesync/internal/employee"
	"go-leavesync/internal/leavetype"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StateDraft     = "draft"
	StateConfirmed = "confirmed"
	StateValidated = "validated"
	StateRefused   = "refused"
	StateCancelled = "cancelled"
)

const (
	SyncStatusNotSynced = "not_synced"
	SyncStatusSyncing   = "syncing"
	SyncStatusSynced    = "synced"
	SyncStatusFailed    = "failed"
)

type Leave struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID            `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`
	Employee    *employee.Employee   `gorm:"foreignKey:EmployeeID"`
	LeaveTypeID uuid.UUID            `gorm:"type:uuid;not null"`
	LeaveType   *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID"`

	Name            string     `gorm:"type:varchar(255)"`
	DateFrom        time.Time  `gorm:"not null;index:idx_leaves_employee_dates"`
	DateTo          time.Time  `gorm:"not null;index:idx_leaves_employee_dates"`
	NumberOfDays    float64    `gorm:"not null"`
	RequestDateFrom *time.Time `gorm:"type:date"`
	RequestDateTo   *time.Time `gorm:"type:date"`

	State      string     `gorm:"type:varchar(20);not null;index:idx_leaves_state"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	// sync bookkeeping, written only by the sync engine
	RemoteLeaveID    *int64  `gorm:"index:idx_leaves_remote_id"`
	SyncStatus       string  `gorm:"type:varchar(20);not null;index:idx_leaves_sync_status"`
	SyncErrorMessage *string `gorm:"type:text"`
	LastSyncAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

func (l Leave) HasRemoteSync() bool {
	return l.RemoteLeaveID != nil
}

// EmployeeName and LeaveTypeName fall back to the ids when the
// associations were not preloaded.
func (l Leave) EmployeeName() string {
	if l.Employee != nil {
		return l.Employee.FullName
	}
	return l.EmployeeID.String()
}

func (l Leave) LeaveTypeName() string {
	if l.LeaveType != nil {
		return l.LeaveType.Name
	}
	return l.LeaveTypeID.String()
}
