package leavesync

import (
	"errors"
	"fmt"

	"go-leavesync/internal/remote"
	"go-leavesync/internal/syncconfig"
)

type MappingKind int

const (
	MappingEmployee MappingKind = iota + 1
	MappingLeaveType
)

// MappingError reports a local record that has no remote counterpart id.
type MappingError struct {
	Kind MappingKind
	Name string
	ID   string
}

func (e *MappingError) Error() string {
	if e.Kind == MappingLeaveType {
		return fmt.Sprintf("Leave type '%s' (ID: %s) is missing remote_leave_type_id. Configure in Time Off Types.", e.Name, e.ID)
	}
	return fmt.Sprintf("Employee '%s' (ID: %s) is missing remote_employee_id. Set this in employee form.", e.Name, e.ID)
}

var ErrRemoteLeaveNotFound = errors.New("remote leave not found")

// RemoteLeaveNotFoundError matches ErrRemoteLeaveNotFound.
type RemoteLeaveNotFoundError struct {
	RemoteID int64
}

func (e *RemoteLeaveNotFoundError) Error() string {
	return fmt.Sprintf("Remote leave %d not found", e.RemoteID)
}

func (e *RemoteLeaveNotFoundError) Is(target error) bool {
	return target == ErrRemoteLeaveNotFound
}

// failureMessage is the text stored on a leave after a failed attempt.
// Errors raised by remote calls carry an "RPC Error: " prefix; connection
// failures already describe themselves.
func failureMessage(err error) string {
	var connErr *syncconfig.ConnectionError
	var rpcErr *remote.RPCError
	if !errors.As(err, &connErr) && errors.As(err, &rpcErr) {
		return "RPC Error: " + err.Error()
	}
	return err.Error()
}
