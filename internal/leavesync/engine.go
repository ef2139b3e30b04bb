package leavesync

import (
	"context"
	"encoding/json"
	"time"

	"go-leavesync/internal/events"
	"go-leavesync/internal/leave"
	leavesyncerrors "go-leavesync/internal/leavesync/errors"
	"go-leavesync/internal/messaging/kafka"
	"go-leavesync/internal/remote"
	"go-leavesync/internal/shared/contextutil"
	"go-leavesync/internal/syncconfig"
	syncconfigerrors "go-leavesync/internal/syncconfig/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfigSource resolves the active configuration and opens sessions on it.
type ConfigSource interface {
	GetActive(ctx context.Context) (*syncconfig.SyncConfig, error)
	OpenConnection(ctx context.Context, cfg *syncconfig.SyncConfig) (remote.Session, error)
}

// LeaveStore is the leave subsystem's read and field-write interface.
type LeaveStore interface {
	Record(ctx context.Context, id string) (*leave.Leave, error)
	Write(ctx context.Context, id string, p leave.Patch) error
}

// Result is the outcome of one sync attempt.
type Result struct {
	LeaveID       string `json:"leave_id"`
	SyncType      string `json:"sync_type"`
	SyncStatus    string `json:"sync_status"`
	RemoteLeaveID *int64 `json:"remote_leave_id,omitempty"`
	Error         string `json:"error,omitempty"`
	Skipped       bool   `json:"skipped,omitempty"`
}

// Engine pushes local leave lifecycle events to the remote, one remote
// operation per event, and records the outcome on the leave.
type Engine struct {
	configs ConfigSource
	leaves  LeaveStore
	outbox  kafka.OutboxRepository
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Engine)

// WithOutbox records every attempt as an outbox event.
func WithOutbox(repo kafka.OutboxRepository) Option {
	return func(e *Engine) { e.outbox = repo }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.Named("leavesync.engine")
		}
	}
}

func NewEngine(configs ConfigSource, leaves LeaveStore, opts ...Option) *Engine {
	e := &Engine{
		configs: configs,
		leaves:  leaves,
		now:     time.Now,
		logger:  zap.L().Named("leavesync.engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ leave.LifecycleHook = (*Engine)(nil)

func (e *Engine) LeaveCreated(ctx context.Context, l leave.Leave) {
	cfg := e.hookConfig(ctx)
	if cfg == nil || !cfg.SyncOnCreate {
		return
	}
	e.syncSingle(ctx, cfg, l.ID.String(), SyncCreate)
}

func (e *Engine) LeaveWritten(ctx context.Context, l leave.Leave, p leave.Patch) {
	cfg := e.hookConfig(ctx)
	if cfg == nil {
		return
	}

	if p.State != nil {
		switch *p.State {
		case leave.StateValidated:
			if cfg.SyncOnApprove {
				e.syncSingle(ctx, cfg, l.ID.String(), SyncApprove)
			}
		case leave.StateRefused:
			if cfg.SyncOnRefuse {
				e.syncSingle(ctx, cfg, l.ID.String(), SyncRefuse)
			}
		}
	}

	if p.TouchesSchedule() && l.RemoteLeaveID != nil {
		e.syncSingle(ctx, cfg, l.ID.String(), SyncUpdate)
	}
}

func (e *Engine) LeaveDeleting(ctx context.Context, l leave.Leave) {
	cfg := e.hookConfig(ctx)
	if cfg == nil {
		return
	}
	e.syncSingle(ctx, cfg, l.ID.String(), SyncDelete)
}

// hookConfig returns the config automatic syncs run against, or nil when
// they should not run at all.
func (e *Engine) hookConfig(ctx context.Context) *syncconfig.SyncConfig {
	if contextutil.SkipSync(ctx) {
		return nil
	}
	cfg, err := e.configs.GetActive(ctx)
	if err != nil {
		e.logger.Error("load active sync config failed", zap.Error(err))
		return nil
	}
	if cfg == nil {
		e.logger.Debug("no active leave sync config, skipping sync")
		return nil
	}
	if !cfg.Credentials().Complete() {
		e.logger.Warn("active leave sync config is incomplete, skipping sync",
			zap.String("config_id", cfg.ID.String()),
		)
		return nil
	}
	return cfg
}

// manualConfig is hookConfig for user-invoked actions: problems are errors.
func (e *Engine) manualConfig(ctx context.Context) (*syncconfig.SyncConfig, error) {
	cfg, err := e.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, syncconfigerrors.ErrNoActiveConfig
	}
	if !cfg.Credentials().Complete() {
		return nil, syncconfigerrors.ErrConfigIncomplete
	}
	return cfg, nil
}

// Sync runs one attempt of syncType for the leave. A failed attempt is
// reported in the Result, not as an error. Delete only runs from the
// LeaveDeleting hook.
func (e *Engine) Sync(ctx context.Context, leaveID string, syncType SyncType) (Result, error) {
	if _, ok := syncTypeNames[syncType]; !ok {
		return Result{}, leavesyncerrors.ErrUnknownSyncType
	}
	if syncType == SyncDelete {
		return Result{}, leavesyncerrors.ErrManualDelete
	}
	if _, err := e.leaves.Record(ctx, leaveID); err != nil {
		return Result{}, err
	}
	cfg, err := e.manualConfig(ctx)
	if err != nil {
		return Result{}, err
	}
	return e.syncSingle(ctx, cfg, leaveID, syncType), nil
}

// SyncNow updates the remote leave when one exists, otherwise creates it.
func (e *Engine) SyncNow(ctx context.Context, leaveID string) (Result, error) {
	l, err := e.leaves.Record(ctx, leaveID)
	if err != nil {
		return Result{}, err
	}
	syncType := SyncCreate
	if l.RemoteLeaveID != nil {
		syncType = SyncUpdate
	}
	return e.Sync(ctx, leaveID, syncType)
}

func (e *Engine) syncSingle(ctx context.Context, cfg *syncconfig.SyncConfig, leaveID string, syncType SyncType) Result {
	res := Result{LeaveID: leaveID, SyncType: syncType.String()}
	bookkeeping := contextutil.WithSkipSync(ctx)
	meta := contextutil.ExtractMetadata(ctx).Fields()

	l, err := e.leaves.Record(ctx, leaveID)
	if err != nil {
		e.logger.Error("load leave for sync failed",
			zap.String("leave_id", leaveID),
			zap.String("sync_type", syncType.String()),
			zap.Error(err),
		)
		res.SyncStatus = leave.SyncStatusFailed
		res.Error = err.Error()
		return res
	}

	if syncType == SyncDelete && l.RemoteLeaveID == nil {
		e.logger.Debug("leave never synced, nothing to delete on remote", zap.String("leave_id", leaveID))
		res.SyncStatus = l.SyncStatus
		res.Skipped = true
		return res
	}

	syncing := leave.SyncStatusSyncing
	if err := e.leaves.Write(bookkeeping, leaveID, leave.Patch{SyncStatus: &syncing}); err != nil {
		e.logger.Error("mark leave syncing failed", zap.String("leave_id", leaveID), zap.Error(err))
	}

	op := &operation{engine: e, cfg: cfg, leave: l}
	if err := e.push(bookkeeping, op, syncType); err != nil {
		msg := failureMessage(err)
		failed := leave.SyncStatusFailed
		if werr := e.leaves.Write(bookkeeping, leaveID, leave.Patch{SyncStatus: &failed, SyncErrorMessage: &msg}); werr != nil {
			e.logger.Error("record sync failure failed", zap.String("leave_id", leaveID), zap.Error(werr))
		}
		e.logger.Error("leave sync failed", append(meta,
			zap.String("leave_id", leaveID),
			zap.String("sync_type", syncType.String()),
			zap.Any("remote_leave_id", op.leave.RemoteLeaveID),
			zap.String("employee", op.leave.EmployeeName()),
			zap.String("error", msg),
		)...)
		res.SyncStatus = failed
		res.Error = msg
		res.RemoteLeaveID = op.leave.RemoteLeaveID
		e.emit(ctx, res)
		return res
	}

	synced := leave.SyncStatusSynced
	cleared := ""
	now := e.now().UTC()
	if err := e.leaves.Write(bookkeeping, leaveID, leave.Patch{
		SyncStatus:       &synced,
		SyncErrorMessage: &cleared,
		LastSyncAt:       &now,
	}); err != nil {
		e.logger.Error("record sync success failed", zap.String("leave_id", leaveID), zap.Error(err))
	}
	e.logger.Info("leave sync ok", append(meta,
		zap.String("leave_id", leaveID),
		zap.String("sync_type", syncType.String()),
		zap.Any("remote_leave_id", op.leave.RemoteLeaveID),
		zap.String("employee", op.leave.EmployeeName()),
	)...)
	res.SyncStatus = synced
	res.RemoteLeaveID = op.leave.RemoteLeaveID
	e.emit(ctx, res)
	return res
}

// push resolves mappings, opens the session and runs the operation.
func (e *Engine) push(ctx context.Context, op *operation, syncType SyncType) error {
	if err := op.resolveMappings(); err != nil {
		return err
	}

	session, err := e.configs.OpenConnection(ctx, op.cfg)
	if err != nil {
		return err
	}
	op.session = session

	if syncType.requiresRemote() && op.leave.RemoteLeaveID == nil {
		e.logger.Warn("leave has no remote id, creating it on remote first",
			zap.String("leave_id", op.leave.ID.String()),
			zap.String("sync_type", syncType.String()),
		)
		if err := remoteCreate(ctx, op); err != nil {
			return err
		}
	}

	handle := handlerFor(syncType)
	if handle == nil {
		return leavesyncerrors.ErrUnknownSyncType
	}
	return handle(ctx, op)
}

func (e *Engine) emit(ctx context.Context, res Result) {
	if e.outbox == nil {
		return
	}

	eventType := events.LeaveSyncSucceededEventType
	if res.SyncStatus == leave.SyncStatusFailed {
		eventType = events.LeaveSyncFailedEventType
	}
	requestID := contextutil.GetRequestID(ctx)
	payload, err := json.Marshal(events.LeaveSyncedEvent{
		EventType:     eventType,
		RequestID:     requestID,
		LeaveID:       res.LeaveID,
		SyncType:      res.SyncType,
		SyncStatus:    res.SyncStatus,
		RemoteLeaveID: res.RemoteLeaveID,
		Error:         res.Error,
		OccurredAt:    e.now().UTC(),
	})
	if err != nil {
		e.logger.Error("encode leave sync event failed", zap.Error(err))
		return
	}

	if err := e.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: "leave",
		AggregateID:   res.LeaveID,
		EventType:     eventType,
		Topic:         events.LeaveSyncedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		e.logger.Error("write leave sync event to outbox failed",
			zap.String("leave_id", res.LeaveID),
			zap.Error(err),
		)
	}
}
