package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "go-leavesync/internal/employee/errors"
	"go-leavesync/internal/events"
	"go-leavesync/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	CreateFromEvent(ctx context.Context, event events.EmployeeCreatedEvent) error
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	SetRemoteID(ctx context.Context, id string, remoteID *int64) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	empl := &Employee{
		ID:               uuid.New(),
		FullName:         strings.TrimSpace(req.FullName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		RemoteEmployeeID: req.RemoteEmployeeID,
	}
	if err := s.create(ctx, empl); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

// CreateFromEvent mirrors an upstream employee under its upstream id.
func (s *service) CreateFromEvent(ctx context.Context, event events.EmployeeCreatedEvent) error {
	id, err := uuid.Parse(event.EmployeeID)
	if err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	empl := &Employee{
		ID:       id,
		FullName: strings.TrimSpace(event.FullName),
		Email:    strings.ToLower(strings.TrimSpace(event.Email)),
	}
	return s.create(ctx, empl)
}

func (s *service) create(ctx context.Context, empl *Employee) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if empl.RemoteEmployeeID != nil {
		if err := s.ensureRemoteIDFree(ctx, qtx, empl.ID, *empl.RemoteEmployeeID); err != nil {
			return err
		}
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return mapRepositoryError(err, empl.RemoteEmployeeID)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)
	return nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err, nil)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		empls, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err, nil)
		}

		resp := mapToListResponse(empls)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeOptionsKey, jsonData, time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err, nil)
	}

	return mapToResponse(*empl), nil
}

// SetRemoteID maps the employee to a remote employee; nil clears the mapping.
func (s *service) SetRemoteID(ctx context.Context, id string, remoteID *int64) (EmployeeResponse, error) {
	s.logger.Debug("set remote employee id requested",
		zap.String("employee_id", id),
		zap.Any("remote_employee_id", remoteID),
	)

	emplID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if remoteID != nil && *remoteID <= 0 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRemoteID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set remote employee id begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err, nil)
	}

	if remoteID != nil {
		if err := s.ensureRemoteIDFree(ctx, qtx, emplID, *remoteID); err != nil {
			return EmployeeResponse{}, err
		}
	}

	if err := qtx.UpdateRemoteID(ctx, id, remoteID); err != nil {
		s.logger.Error("set remote employee id persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err, remoteID)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("set remote employee id commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)

	empl.RemoteEmployeeID = remoteID
	s.logger.Info("set remote employee id success",
		zap.String("employee_id", id),
		zap.Any("remote_employee_id", remoteID),
	)
	return mapToResponse(*empl), nil
}

func (s *service) ensureRemoteIDFree(ctx context.Context, repo Repository, self uuid.UUID, remoteID int64) error {
	holder, err := repo.FindByRemoteID(ctx, remoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if holder.ID != self {
		s.logger.Warn("remote employee id already assigned",
			zap.Int64("remote_employee_id", remoteID),
			zap.String("holder_id", holder.ID.String()),
		)
		return employeeerrors.RemoteIDTaken(remoteID, holder.FullName)
	}
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               empl.ID.String(),
		FullName:         empl.FullName,
		Email:            empl.Email,
		RemoteEmployeeID: empl.RemoteEmployeeID,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
