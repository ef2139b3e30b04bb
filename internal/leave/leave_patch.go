package leave

import (
	"time"

	"github.com/google/uuid"
)

// Patch is a partial write to a leave. Nil fields are left alone.
// A pointer to "" for SyncErrorMessage clears the stored message.
type Patch struct {
	Name            *string
	DateFrom        *time.Time
	DateTo          *time.Time
	NumberOfDays    *float64
	RequestDateFrom *time.Time
	RequestDateTo   *time.Time
	State           *string
	ApprovedBy      *uuid.UUID

	RemoteLeaveID    *int64
	SyncStatus       *string
	SyncErrorMessage *string
	LastSyncAt       *time.Time
}

func (p Patch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// TouchesSchedule reports whether the patch changes the fields mirrored by a remote update.
func (p Patch) TouchesSchedule() bool {
	return p.DateFrom != nil || p.DateTo != nil || p.NumberOfDays != nil
}

// Columns maps the patch onto column names for a gorm Updates call.
func (p Patch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.DateFrom != nil {
		cols["date_from"] = *p.DateFrom
	}
	if p.DateTo != nil {
		cols["date_to"] = *p.DateTo
	}
	if p.NumberOfDays != nil {
		cols["number_of_days"] = *p.NumberOfDays
	}
	if p.RequestDateFrom != nil {
		cols["request_date_from"] = *p.RequestDateFrom
	}
	if p.RequestDateTo != nil {
		cols["request_date_to"] = *p.RequestDateTo
	}
	if p.State != nil {
		cols["state"] = *p.State
	}
	if p.ApprovedBy != nil {
		cols["approved_by"] = *p.ApprovedBy
	}
	if p.RemoteLeaveID != nil {
		cols["remote_leave_id"] = *p.RemoteLeaveID
	}
	if p.SyncStatus != nil {
		cols["sync_status"] = *p.SyncStatus
	}
	if p.SyncErrorMessage != nil {
		if *p.SyncErrorMessage == "" {
			cols["sync_error_message"] = nil
		} else {
			cols["sync_error_message"] = *p.SyncErrorMessage
		}
	}
	if p.LastSyncAt != nil {
		cols["last_sync_at"] = *p.LastSyncAt
	}
	return cols
}

// Apply copies the patch onto l in memory.
func (p Patch) Apply(l *Leave) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.DateFrom != nil {
		l.DateFrom = *p.DateFrom
	}
	if p.DateTo != nil {
		l.DateTo = *p.DateTo
	}
	if p.NumberOfDays != nil {
		l.NumberOfDays = *p.NumberOfDays
	}
	if p.RequestDateFrom != nil {
		v := *p.RequestDateFrom
		l.RequestDateFrom = &v
	}
	if p.RequestDateTo != nil {
		v := *p.RequestDateTo
		l.RequestDateTo = &v
	}
	if p.State != nil {
		l.State = *p.State
	}
	if p.ApprovedBy != nil {
		v := *p.ApprovedBy
		l.ApprovedBy = &v
	}
	if p.RemoteLeaveID != nil {
		v := *p.RemoteLeaveID
		l.RemoteLeaveID = &v
	}
	if p.SyncStatus != nil {
		l.SyncStatus = *p.SyncStatus
	}
	if p.SyncErrorMessage != nil {
		if *p.SyncErrorMessage == "" {
			l.SyncErrorMessage = nil
		} else {
			v := *p.SyncErrorMessage
			l.SyncErrorMessage = &v
		}
	}
	if p.LastSyncAt != nil {
		v := *p.LastSyncAt
		l.LastSyncAt = &v
	}
}
