package syncconfig

import (
	"context"
	"errors"
	"fmt"

	"go-leavesync/internal/remote"
	syncconfigerrors "go-leavesync/internal/syncconfig/errors"

	"go.uber.org/zap"
)

// ConnectionError reports that a remote session could not be opened.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	var rpcErr *remote.RPCError
	if errors.As(e.Err, &rpcErr) || errors.Is(e.Err, remote.ErrAuthenticationFailed) {
		return fmt.Sprintf("Remote connection failed: %v", e.Err)
	}
	return fmt.Sprintf("Unable to connect to remote database: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (s *service) OpenConnection(ctx context.Context, cfg *SyncConfig) (remote.Session, error) {
	if cfg == nil {
		return nil, syncconfigerrors.ErrNoActiveConfig
	}

	creds := cfg.Credentials()
	if !creds.Complete() {
		return nil, syncconfigerrors.ErrConfigIncomplete
	}

	session, err := s.connector.Connect(ctx, creds)
	if err != nil {
		s.logger.Error("open remote connection failed",
			zap.String("config_id", cfg.ID.String()),
			zap.String("host", cfg.Host),
			zap.Error(err),
		)
		return nil, &ConnectionError{Err: err}
	}
	return session, nil
}

func (s *service) TestConnection(ctx context.Context, id string) (TestConnectionResult, error) {
	cfg, err := s.find(ctx, s.repo, id)
	if err != nil {
		return TestConnectionResult{}, err
	}

	if !cfg.Credentials().Complete() {
		return warning("Configuration Incomplete", "Please fill in all Remote DB fields before testing."), nil
	}

	session, err := s.OpenConnection(ctx, cfg)
	if err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return warning("Connection Failed", err.Error()), nil
		}
		return warning("Unexpected Error", fmt.Sprintf("Error: %v", err)), nil
	}

	users, err := session.Read(ctx, remote.ModelUser, []int64{session.UserID()}, []string{"name"})
	if err != nil || len(users) == 0 {
		if err == nil {
			err = fmt.Errorf("user %d not readable", session.UserID())
		}
		s.logger.Error("test connection read user failed", zap.String("config_id", id), zap.Error(err))
		return warning("Unexpected Error", fmt.Sprintf("Error: %v", err)), nil
	}
	userName := users[0].String("name")

	count, err := session.SearchCount(ctx, remote.ModelLeave, nil)
	if err != nil {
		return warning("Module Missing", fmt.Sprintf(
			"Connection OK, but '%s' model not found. Install Time Off module on remote.\n\nError: %v",
			remote.ModelLeave, err,
		)), nil
	}

	s.logger.Info("test connection success",
		zap.String("config_id", id),
		zap.Int64("remote_uid", session.UserID()),
		zap.Int64("leave_count", count),
	)
	return TestConnectionResult{
		Status: ResultSuccess,
		Title:  "Connection Successful",
		Message: fmt.Sprintf(
			"✓ Connected successfully\n✓ User: %s (ID: %d)\n✓ Database: %s\n✓ Leave module available\n✓ Found %d leave records",
			userName, session.UserID(), cfg.Database, count,
		),
		UserID:     session.UserID(),
		UserName:   userName,
		Database:   cfg.Database,
		LeaveCount: count,
	}, nil
}

func warning(title, message string) TestConnectionResult {
	return TestConnectionResult{Status: ResultWarning, Title: title, Message: message}
}
