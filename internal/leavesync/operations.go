package leavesync

import (
	"context"
	"fmt"

	"go-leavesync/internal/leave"
	"go-leavesync/internal/remote"
	"go-leavesync/internal/syncconfig"

	"go.uber.org/zap"
)

const defaultLeaveName = "Leave Request"

// operation carries the state of one sync attempt across the remote calls.
type operation struct {
	engine  *Engine
	cfg     *syncconfig.SyncConfig
	leave   *leave.Leave
	session remote.Session

	remoteEmployeeID  int64
	remoteLeaveTypeID int64
}

type syncHandler func(ctx context.Context, op *operation) error

// handlerFor is the single dispatch point from SyncType to its remote operation.
func handlerFor(t SyncType) syncHandler {
	switch t {
	case SyncCreate:
		return remoteCreate
	case SyncUpdate:
		return remoteUpdate
	case SyncApprove:
		return remoteApprove
	case SyncRefuse:
		return remoteRefuse
	case SyncDelete:
		return remoteDelete
	default:
		return nil
	}
}

func (op *operation) resolveMappings() error {
	l := op.leave
	if l.Employee == nil || l.Employee.RemoteEmployeeID == nil {
		return &MappingError{Kind: MappingEmployee, Name: l.EmployeeName(), ID: l.EmployeeID.String()}
	}
	if l.LeaveType == nil || l.LeaveType.RemoteLeaveTypeID == nil {
		return &MappingError{Kind: MappingLeaveType, Name: l.LeaveTypeName(), ID: l.LeaveTypeID.String()}
	}
	op.remoteEmployeeID = *l.Employee.RemoteEmployeeID
	op.remoteLeaveTypeID = *l.LeaveType.RemoteLeaveTypeID
	return nil
}

func (op *operation) log() *zap.Logger {
	return op.engine.logger.With(zap.String("leave_id", op.leave.ID.String()))
}

// scheduleValues is the field set shared by remote create and update.
func scheduleValues(l *leave.Leave) remote.Values {
	name := l.Name
	if name == "" {
		name = defaultLeaveName
	}
	vals := remote.Values{
		"date_from":      l.DateFrom.UTC().Format(remote.DatetimeLayout),
		"date_to":        l.DateTo.UTC().Format(remote.DatetimeLayout),
		"number_of_days": l.NumberOfDays,
		"name":           name,
	}
	if l.RequestDateFrom != nil {
		vals["request_date_from"] = l.RequestDateFrom.Format(remote.DateLayout)
	}
	if l.RequestDateTo != nil {
		vals["request_date_to"] = l.RequestDateTo.Format(remote.DateLayout)
	}
	return vals
}

func idDomain(id int64) remote.Domain {
	return remote.Domain{remote.Cond("id", "=", id)}
}

func (op *operation) remoteExists(ctx context.Context, id int64) (bool, error) {
	ids, err := op.session.Search(ctx, remote.ModelLeave, idDomain(id))
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (op *operation) remoteState(ctx context.Context, id int64) (string, error) {
	rows, err := op.session.SearchRead(ctx, remote.ModelLeave, idDomain(id), []string{"state"})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", &RemoteLeaveNotFoundError{RemoteID: id}
	}
	return rows[0].String("state"), nil
}

func remoteCreate(ctx context.Context, op *operation) error {
	vals := scheduleValues(op.leave)
	vals["employee_id"] = op.remoteEmployeeID
	vals["holiday_status_id"] = op.remoteLeaveTypeID

	remoteID, err := op.session.Create(ctx, remote.ModelLeave, vals)
	if err != nil {
		return err
	}
	op.log().Info("created remote leave", zap.Int64("remote_leave_id", remoteID))

	if err := op.engine.leaves.Write(ctx, op.leave.ID.String(), leave.Patch{RemoteLeaveID: &remoteID}); err != nil {
		return err
	}
	op.leave.RemoteLeaveID = &remoteID

	if op.cfg.AutoApproveRemote && op.leave.State == leave.StateValidated {
		if err := op.session.Call(ctx, remote.ModelLeave, remote.ActionApprove, []int64{remoteID}); err != nil {
			return err
		}
		op.log().Info("auto-approved remote leave", zap.Int64("remote_leave_id", remoteID))
	}
	return nil
}

func remoteUpdate(ctx context.Context, op *operation) error {
	if op.leave.RemoteLeaveID == nil {
		op.log().Warn("leave has no remote id, cannot update")
		return nil
	}
	remoteID := *op.leave.RemoteLeaveID

	exists, err := op.remoteExists(ctx, remoteID)
	if err != nil {
		return err
	}
	if !exists {
		return &RemoteLeaveNotFoundError{RemoteID: remoteID}
	}

	if err := op.session.Write(ctx, remote.ModelLeave, []int64{remoteID}, scheduleValues(op.leave)); err != nil {
		return err
	}
	op.log().Info("updated remote leave", zap.Int64("remote_leave_id", remoteID))
	return nil
}

func remoteApprove(ctx context.Context, op *operation) error {
	return op.transition(ctx, "approve", remote.LeaveStateValidate, remote.ActionApprove)
}

func remoteRefuse(ctx context.Context, op *operation) error {
	return op.transition(ctx, "refuse", remote.LeaveStateRefuse, remote.ActionRefuse)
}

// transition runs action on the remote leave unless it already is in state.
func (op *operation) transition(ctx context.Context, verb, state, action string) error {
	if op.leave.RemoteLeaveID == nil {
		return fmt.Errorf("Cannot %s leave %s on remote: missing remote_leave_id", verb, op.leave.ID)
	}
	remoteID := *op.leave.RemoteLeaveID

	current, err := op.remoteState(ctx, remoteID)
	if err != nil {
		return err
	}
	if current == state {
		op.log().Info("remote leave already in target state",
			zap.Int64("remote_leave_id", remoteID),
			zap.String("state", state),
		)
		return nil
	}

	if err := op.session.Call(ctx, remote.ModelLeave, action, []int64{remoteID}); err != nil {
		return err
	}
	op.log().Info("remote leave state changed",
		zap.Int64("remote_leave_id", remoteID),
		zap.String("action", action),
	)
	return nil
}

func remoteDelete(ctx context.Context, op *operation) error {
	if op.leave.RemoteLeaveID == nil {
		op.log().Warn("leave has no remote id, cannot delete")
		return nil
	}
	remoteID := *op.leave.RemoteLeaveID

	exists, err := op.remoteExists(ctx, remoteID)
	if err != nil {
		return err
	}
	if !exists {
		op.log().Warn("remote leave already deleted", zap.Int64("remote_leave_id", remoteID))
		return nil
	}

	if err := op.session.Unlink(ctx, remote.ModelLeave, []int64{remoteID}); err != nil {
		return err
	}
	op.log().Info("deleted remote leave", zap.Int64("remote_leave_id", remoteID))
	return nil
}
