package leavesync

import (
	"context"
	"fmt"

	leavesyncerrors "go-leavesync/internal/leavesync/errors"
	"go-leavesync/internal/remote"
	syncconfigerrors "go-leavesync/internal/syncconfig/errors"
)

// RemoteURL returns the web form address of the leave on the remote.
func (e *Engine) RemoteURL(ctx context.Context, leaveID string) (string, error) {
	l, err := e.leaves.Record(ctx, leaveID)
	if err != nil {
		return "", err
	}
	if l.RemoteLeaveID == nil {
		return "", leavesyncerrors.ErrLeaveNotSynced
	}

	cfg, err := e.configs.GetActive(ctx)
	if err != nil {
		return "", err
	}
	if cfg == nil {
		return "", syncconfigerrors.ErrNoActiveConfig
	}

	base, err := cfg.Credentials().BaseURL()
	if err != nil {
		return "", syncconfigerrors.ErrConfigIncomplete.With(err)
	}
	return fmt.Sprintf("%s/web#id=%d&model=%s&view_type=form", base, *l.RemoteLeaveID, remote.ModelLeave), nil
}
