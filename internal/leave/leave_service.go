package leave

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	leaveerrors "go-leavesync/internal/leave/errors"
	"go-leavesync/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Confirm(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Refuse(ctx context.Context, id string) (LeaveResponse, error)
	Cancel(ctx context.Context, id string) (LeaveResponse, error)
	ResetToDraft(ctx context.Context, id string) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error

	// Write is the field-write interface used by collaborators such as the sync engine.
	Write(ctx context.Context, id string, p Patch) error
	// Record loads a leave with its employee and leave type.
	Record(ctx context.Context, id string) (*Leave, error)
	Subscribe(h LifecycleHook)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger

	mu    sync.RWMutex
	hooks []LifecycleHook
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Subscribe(h LifecycleHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

func (s *service) subscribers(ctx context.Context) []LifecycleHook {
	if contextutil.SkipSync(ctx) {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]LifecycleHook(nil), s.hooks...)
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
	)

	l, err := buildLeave(actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}
	exists, err = qtx.LeaveTypeExists(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, req.EmployeeID, l.DateFrom, l.DateTo, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	// reload so hooks see the employee and leave type
	created, err := qtx.FindByID(ctx, l.ID.String())
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success", zap.String("leave_id", l.ID.String()))

	for _, h := range s.subscribers(ctx) {
		h.LeaveCreated(ctx, *created)
	}

	// hooks write sync bookkeeping, report what is stored now
	return s.GetByID(ctx, l.ID.String())
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, leaveerrors.ErrInvalidEmployeeID
		}
	}

	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.Record(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Record(ctx context.Context, id string) (*Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	l, err := s.Record(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.State != StateDraft && l.State != StateConfirmed {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotEditable
	}

	p, err := buildUpdatePatch(*l, req)
	if err != nil {
		return LeaveResponse{}, err
	}

	next := *l
	p.Apply(&next)
	if p.TouchesSchedule() {
		overlap, err := s.repo.HasOverlappingPeriod(ctx, l.EmployeeID.String(), next.DateFrom, next.DateTo, &id)
		if err != nil {
			return LeaveResponse{}, err
		}
		if overlap {
			return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	if err := s.Write(ctx, id, p); err != nil {
		return LeaveResponse{}, err
	}
	return s.GetByID(ctx, id)
}

func (s *service) Write(ctx context.Context, id string, p Patch) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}
	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("write leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if err := qtx.ApplyPatch(ctx, id, cols); err != nil {
		s.logger.Error("write leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("write leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return err
	}

	p.Apply(l)
	for _, h := range s.subscribers(ctx) {
		h.LeaveWritten(ctx, *l, p)
	}
	return nil
}

// allowedTransitions lists the states each state may move to.
var allowedTransitions = map[string][]string{
	StateDraft:     {StateConfirmed, StateCancelled},
	StateConfirmed: {StateValidated, StateRefused, StateCancelled},
	StateValidated: {StateRefused, StateCancelled},
	StateRefused:   {StateDraft},
	StateCancelled: {StateDraft},
}

func isAllowedStateTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *service) Confirm(ctx context.Context, id string) (LeaveResponse, error) {
	return s.transition(ctx, id, StateConfirmed, nil)
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	return s.transition(ctx, id, StateValidated, &actor)
}

func (s *service) Refuse(ctx context.Context, id string) (LeaveResponse, error) {
	return s.transition(ctx, id, StateRefused, nil)
}

func (s *service) Cancel(ctx context.Context, id string) (LeaveResponse, error) {
	return s.transition(ctx, id, StateCancelled, nil)
}

func (s *service) ResetToDraft(ctx context.Context, id string) (LeaveResponse, error) {
	return s.transition(ctx, id, StateDraft, nil)
}

func (s *service) transition(ctx context.Context, id, target string, approvedBy *uuid.UUID) (LeaveResponse, error) {
	l, err := s.Record(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !isAllowedStateTransition(l.State, target) {
		s.logger.Warn("leave state transition invalid",
			zap.String("leave_id", id),
			zap.String("from_state", l.State),
			zap.String("to_state", target),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStateTransition
	}

	p := Patch{State: &target, ApprovedBy: approvedBy}
	if err := s.Write(ctx, id, p); err != nil {
		return LeaveResponse{}, err
	}
	s.logger.Info("leave state changed",
		zap.String("leave_id", id),
		zap.String("from_state", l.State),
		zap.String("to_state", target),
	)
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	l, err := s.Record(ctx, id)
	if err != nil {
		return err
	}

	for _, h := range s.subscribers(ctx) {
		h.LeaveDeleting(ctx, *l)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func buildLeave(actorID string, req CreateLeaveRequest) (*Leave, error) {
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveTypeID
	}
	dateFrom, err := parseDateTime(req.DateFrom)
	if err != nil {
		return nil, err
	}
	dateTo, err := parseDateTime(req.DateTo)
	if err != nil {
		return nil, err
	}
	if dateFrom.After(dateTo) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	days := calendarDays(dateFrom, dateTo)
	if req.NumberOfDays != nil {
		days = *req.NumberOfDays
	}
	if days <= 0 {
		return nil, leaveerrors.ErrInvalidNumberOfDays
	}

	requestFrom, err := parseOptionalDate(req.RequestDateFrom)
	if err != nil {
		return nil, err
	}
	requestTo, err := parseOptionalDate(req.RequestDateTo)
	if err != nil {
		return nil, err
	}

	return &Leave{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		LeaveTypeID:     leaveTypeID,
		Name:            strings.TrimSpace(req.Name),
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		NumberOfDays:    days,
		RequestDateFrom: requestFrom,
		RequestDateTo:   requestTo,
		State:           StateDraft,
		CreatedBy:       createdBy,
		SyncStatus:      SyncStatusNotSynced,
	}, nil
}

func buildUpdatePatch(current Leave, req UpdateLeaveRequest) (Patch, error) {
	var p Patch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		p.Name = &name
	}
	if req.DateFrom != nil {
		v, err := parseDateTime(*req.DateFrom)
		if err != nil {
			return Patch{}, err
		}
		p.DateFrom = &v
	}
	if req.DateTo != nil {
		v, err := parseDateTime(*req.DateTo)
		if err != nil {
			return Patch{}, err
		}
		p.DateTo = &v
	}
	if req.NumberOfDays != nil {
		v := *req.NumberOfDays
		p.NumberOfDays = &v
	}

	var err error
	if p.RequestDateFrom, err = parseOptionalDate(req.RequestDateFrom); err != nil {
		return Patch{}, err
	}
	if p.RequestDateTo, err = parseOptionalDate(req.RequestDateTo); err != nil {
		return Patch{}, err
	}

	next := current
	p.Apply(&next)
	if next.DateFrom.After(next.DateTo) {
		return Patch{}, leaveerrors.ErrInvalidDateRange
	}
	// a new range without an explicit day count recomputes it
	if (p.DateFrom != nil || p.DateTo != nil) && p.NumberOfDays == nil {
		days := calendarDays(next.DateFrom, next.DateTo)
		p.NumberOfDays = &days
	}
	return p, nil
}

// calendarDays counts the days touched by [from, to], both ends included.
func calendarDays(from, to time.Time) float64 {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return math.Round(end.Sub(start).Hours()/24) + 1
}

func parseDateTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{datetimeLayout, dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, leaveerrors.ErrInvalidDateFormat
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*v))
	if err != nil {
		return nil, leaveerrors.ErrInvalidDateFormat
	}
	return &t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		Name:          l.Name,
		DateFrom:      l.DateFrom.Format(datetimeLayout),
		DateTo:        l.DateTo.Format(datetimeLayout),
		NumberOfDays:  l.NumberOfDays,
		State:         l.State,
		CreatedBy:     l.CreatedBy.String(),
		SyncStatus:    l.SyncStatus,
		HasRemoteSync: l.HasRemoteSync(),
		RemoteLeaveID: l.RemoteLeaveID,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.LeaveType != nil {
		resp.LeaveTypeName = l.LeaveType.Name
	}
	if l.RequestDateFrom != nil {
		v := l.RequestDateFrom.Format(dateLayout)
		resp.RequestDateFrom = &v
	}
	if l.RequestDateTo != nil {
		v := l.RequestDateTo.Format(dateLayout)
		resp.RequestDateTo = &v
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.SyncErrorMessage != nil {
		v := *l.SyncErrorMessage
		resp.SyncErrorMessage = &v
	}
	if l.LastSyncAt != nil {
		v := l.LastSyncAt.Format(time.RFC3339)
		resp.LastSyncAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
