package leavetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	leavetypeerrors "go-leavesync/internal/leavetype/errors"
	"go-leavesync/internal/remote"
	"go-leavesync/internal/syncconfig"
	syncconfigerrors "go-leavesync/internal/syncconfig/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	RemoteLeaveTypesKeyPrefix = "leave_types:remote:"
	RemoteLeaveTypesTTL       = 10 * time.Minute
)

func GetRemoteLeaveTypesKey(configID string) string {
	return RemoteLeaveTypesKeyPrefix + configID
}

// RemoteSource resolves the active configuration and opens sessions on it.
type RemoteSource interface {
	GetActive(ctx context.Context) (*syncconfig.SyncConfig, error)
	OpenConnection(ctx context.Context, cfg *syncconfig.SyncConfig) (remote.Session, error)
}

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	SetRemoteID(ctx context.Context, id string, remoteID *int64) (LeaveTypeResponse, error)
	FetchRemoteLeaveTypes(ctx context.Context) ([]RemoteLeaveTypeResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	remotes RemoteSource
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, remotes RemoteSource, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		remotes: remotes,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("create leave type requested", zap.String("code", req.Code))

	lt := &LeaveType{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(req.Name),
		Code:              strings.ToUpper(strings.TrimSpace(req.Code)),
		RemoteLeaveTypeID: req.RemoteLeaveTypeID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if lt.RemoteLeaveTypeID != nil {
		if err := ensureRemoteIDFree(ctx, qtx, lt.ID, *lt.RemoteLeaveTypeID); err != nil {
			return LeaveTypeResponse{}, err
		}
	}

	if err := qtx.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err, lt.RemoteLeaveTypeID)
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("create leave type success", zap.String("leave_type_id", lt.ID.String()))
	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	lts, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all leave types failed", zap.Error(err))
		return nil, mapRepositoryError(err, nil)
	}

	resp := make([]LeaveTypeResponse, len(lts))
	for i, lt := range lts {
		resp[i] = mapToResponse(lt)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err, nil)
	}
	return mapToResponse(*lt), nil
}

func (s *service) SetRemoteID(ctx context.Context, id string, remoteID *int64) (LeaveTypeResponse, error) {
	ltID, err := uuid.Parse(id)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	if remoteID != nil && *remoteID <= 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidRemoteID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err, nil)
	}

	if remoteID != nil {
		if err := ensureRemoteIDFree(ctx, qtx, ltID, *remoteID); err != nil {
			s.logger.Warn("remote leave type id already assigned", zap.Int64("remote_leave_type_id", *remoteID))
			return LeaveTypeResponse{}, err
		}
	}

	if err := qtx.UpdateRemoteID(ctx, id, remoteID); err != nil {
		s.logger.Error("set remote leave type id persist failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err, remoteID)
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}

	lt.RemoteLeaveTypeID = remoteID
	s.logger.Info("set remote leave type id success",
		zap.String("leave_type_id", id),
		zap.Any("remote_leave_type_id", remoteID),
	)
	return mapToResponse(*lt), nil
}

// FetchRemoteLeaveTypes lists the remote's leave types so an administrator
// can fill in RemoteLeaveTypeID.
func (s *service) FetchRemoteLeaveTypes(ctx context.Context) ([]RemoteLeaveTypeResponse, error) {
	cfg, err := s.remotes.GetActive(ctx)
	if err != nil {
		return nil, leavetypeerrors.ErrFetchRemoteFailed.With(err)
	}
	if cfg == nil {
		return nil, syncconfigerrors.ErrNoActiveConfig
	}

	cacheKey := GetRemoteLeaveTypesKey(cfg.ID.String())
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []RemoteLeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		session, err := s.remotes.OpenConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}

		records, err := session.SearchRead(ctx, remote.ModelLeaveType, nil, []string{"name", "allocation_validation_type"})
		if err != nil {
			return nil, err
		}

		resp := make([]RemoteLeaveTypeResponse, 0, len(records))
		for _, rec := range records {
			id, _ := rec.Int("id")
			resp = append(resp, RemoteLeaveTypeResponse{
				ID:                       id,
				Name:                     rec.String("name"),
				AllocationValidationType: rec.String("allocation_validation_type"),
			})
		}
		sort.Slice(resp, func(i, j int) bool { return resp[i].ID < resp[j].ID })

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, RemoteLeaveTypesTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("fetch remote leave types failed",
			zap.String("config_id", cfg.ID.String()),
			zap.Error(err),
		)
		return nil, leavetypeerrors.ErrFetchRemoteFailed.With(err)
	}

	return v.([]RemoteLeaveTypeResponse), nil
}

func ensureRemoteIDFree(ctx context.Context, repo Repository, self uuid.UUID, remoteID int64) error {
	holder, err := repo.FindByRemoteID(ctx, remoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if holder.ID != self {
		return leavetypeerrors.RemoteIDTaken(remoteID, holder.Name)
	}
	return nil
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                lt.ID.String(),
		Name:              lt.Name,
		Code:              lt.Code,
		RemoteLeaveTypeID: lt.RemoteLeaveTypeID,
	}
}
