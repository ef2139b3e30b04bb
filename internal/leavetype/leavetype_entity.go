package leavetype

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType is a local time-off category. RemoteLeaveTypeID maps it to the
// remote hr.leave.type record, unique when set.
type LeaveType struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"type:varchar(120);not null"`
	Code              string    `gorm:"type:varchar(40);uniqueIndex:uq_leave_type_code"`
	RemoteLeaveTypeID *int64    `gorm:"uniqueIndex:uq_leave_type_remote_id"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
