package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the local mirror of an HR employee. RemoteEmployeeID is the
// matching record on the remote system, unique when set.
type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName         string    `gorm:"type:varchar(150);not null"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex:uq_employee_email"`
	RemoteEmployeeID *int64    `gorm:"uniqueIndex:uq_employee_remote_id"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
