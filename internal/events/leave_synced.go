package events

import "time"

const (
	LeaveSyncedTopic = "hr.leave.sync.v1"

	LeaveSyncSucceededEventType = "leave_sync_succeeded"
	LeaveSyncFailedEventType    = "leave_sync_failed"
)

// LeaveSyncedEvent records the outcome of one push of a leave to the remote.
type LeaveSyncedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	LeaveID       string    `json:"leave_id"`
	SyncType      string    `json:"sync_type"`
	SyncStatus    string    `json:"sync_status"`
	RemoteLeaveID *int64    `json:"remote_leave_id,omitempty"`
	Error         string    `json:"error,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
