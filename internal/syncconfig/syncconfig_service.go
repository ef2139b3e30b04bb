package syncconfig

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-leavesync/internal/remote"
	syncconfigerrors "go-leavesync/internal/syncconfig/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=syncconfig_service.go -destination=mock/syncconfig_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateSyncConfigRequest) (SyncConfigResponse, error)
	GetAll(ctx context.Context) ([]SyncConfigResponse, error)
	GetByID(ctx context.Context, id string) (SyncConfigResponse, error)
	Update(ctx context.Context, id string, req UpdateSyncConfigRequest) (SyncConfigResponse, error)
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) (SyncConfigResponse, error)
	Deactivate(ctx context.Context, id string) (SyncConfigResponse, error)

	// GetActive returns the active configuration, or nil when sync is disabled.
	GetActive(ctx context.Context) (*SyncConfig, error)
	OpenConnection(ctx context.Context, cfg *SyncConfig) (remote.Session, error)
	TestConnection(ctx context.Context, id string) (TestConnectionResult, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	connector remote.Connector
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, connector remote.Connector, logger ...*zap.Logger) Service {
	l := zap.L().Named("syncconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("syncconfig.service")
	}
	return &service{db: db, repo: repo, connector: connector, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateSyncConfigRequest) (SyncConfigResponse, error) {
	s.logger.Debug("create sync config requested",
		zap.String("name", req.Name),
		zap.String("host", req.Host),
		zap.Bool("is_active", req.IsActive),
	)

	protocol := req.Protocol
	if protocol == "" {
		protocol = remote.DefaultProtocol
	}
	port := req.Port
	if port == 0 {
		port = remote.DefaultPort
	}

	cfg := &SyncConfig{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(req.Name),
		IsActive:          req.IsActive,
		Host:              remote.NormalizeHost(req.Host),
		Port:              port,
		Protocol:          protocol,
		Database:          strings.TrimSpace(req.Database),
		Username:          strings.TrimSpace(req.Username),
		Password:          req.Password,
		SyncOnCreate:      boolOr(req.SyncOnCreate, true),
		SyncOnApprove:     boolOr(req.SyncOnApprove, true),
		SyncOnRefuse:      boolOr(req.SyncOnRefuse, true),
		AutoApproveRemote: req.AutoApproveRemote,
	}

	if err := s.save(ctx, cfg, true); err != nil {
		return SyncConfigResponse{}, err
	}

	s.logger.Info("create sync config success",
		zap.String("config_id", cfg.ID.String()),
		zap.Bool("is_active", cfg.IsActive),
	)
	return mapToResponse(*cfg), nil
}

func (s *service) GetAll(ctx context.Context) ([]SyncConfigResponse, error) {
	cfgs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all sync configs failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(cfgs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SyncConfigResponse, error) {
	cfg, err := s.find(ctx, s.repo, id)
	if err != nil {
		return SyncConfigResponse{}, err
	}
	return mapToResponse(*cfg), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateSyncConfigRequest) (SyncConfigResponse, error) {
	s.logger.Debug("update sync config requested", zap.String("config_id", id))

	cfg, err := s.find(ctx, s.repo, id)
	if err != nil {
		return SyncConfigResponse{}, err
	}

	applyUpdate(cfg, req)
	if err := s.save(ctx, cfg, false); err != nil {
		return SyncConfigResponse{}, err
	}

	s.logger.Info("update sync config success",
		zap.String("config_id", id),
		zap.Bool("is_active", cfg.IsActive),
	)
	return mapToResponse(*cfg), nil
}

func (s *service) Activate(ctx context.Context, id string) (SyncConfigResponse, error) {
	active := true
	return s.Update(ctx, id, UpdateSyncConfigRequest{IsActive: &active})
}

func (s *service) Deactivate(ctx context.Context, id string) (SyncConfigResponse, error) {
	active := false
	return s.Update(ctx, id, UpdateSyncConfigRequest{IsActive: &active})
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return syncconfigerrors.ErrInvalidSyncConfigID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := s.find(ctx, qtx, id); err != nil {
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete sync config failed", zap.String("config_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete sync config success", zap.String("config_id", id))
	return nil
}

func (s *service) GetActive(ctx context.Context) (*SyncConfig, error) {
	cfg, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("get active sync config failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

// save runs the single-active check and the write in one transaction.
// Two concurrent activations can still both pass the check.
func (s *service) save(ctx context.Context, cfg *SyncConfig, isNew bool) error {
	if cfg.Protocol != remote.ProtocolJSONRPC && cfg.Protocol != remote.ProtocolJSONRPCSSL {
		return syncconfigerrors.ErrInvalidProtocol
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("save sync config begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if cfg.IsActive {
		excludeID := ""
		if !isNew {
			excludeID = cfg.ID.String()
		}
		n, err := qtx.CountActiveExcluding(ctx, excludeID)
		if err != nil {
			s.logger.Error("save sync config active check failed", zap.Error(err))
			return err
		}
		if n > 0 {
			s.logger.Warn("save sync config rejected, another config is active",
				zap.String("config_id", cfg.ID.String()),
			)
			return syncconfigerrors.ErrMultipleActiveConfigs
		}
	}

	if isNew {
		err = qtx.Create(ctx, cfg)
	} else {
		err = qtx.Update(ctx, cfg)
	}
	if err != nil {
		s.logger.Error("save sync config persist failed",
			zap.String("config_id", cfg.ID.String()),
			zap.Error(err),
		)
		return err
	}

	return tx.Commit()
}

func (s *service) find(ctx context.Context, repo Repository, id string) (*SyncConfig, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, syncconfigerrors.ErrInvalidSyncConfigID
	}
	cfg, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncconfigerrors.ErrSyncConfigNotFound
		}
		return nil, err
	}
	return cfg, nil
}

func applyUpdate(cfg *SyncConfig, req UpdateSyncConfigRequest) {
	if req.Name != nil {
		cfg.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	if req.Host != nil {
		cfg.Host = remote.NormalizeHost(*req.Host)
	}
	if req.Port != nil {
		cfg.Port = *req.Port
	}
	if req.Protocol != nil {
		cfg.Protocol = *req.Protocol
	}
	if req.Database != nil {
		cfg.Database = strings.TrimSpace(*req.Database)
	}
	if req.Username != nil {
		cfg.Username = strings.TrimSpace(*req.Username)
	}
	if req.Password != nil {
		cfg.Password = *req.Password
	}
	if req.SyncOnCreate != nil {
		cfg.SyncOnCreate = *req.SyncOnCreate
	}
	if req.SyncOnApprove != nil {
		cfg.SyncOnApprove = *req.SyncOnApprove
	}
	if req.SyncOnRefuse != nil {
		cfg.SyncOnRefuse = *req.SyncOnRefuse
	}
	if req.AutoApproveRemote != nil {
		cfg.AutoApproveRemote = *req.AutoApproveRemote
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func mapToResponse(c SyncConfig) SyncConfigResponse {
	return SyncConfigResponse{
		ID:                c.ID.String(),
		Name:              c.Name,
		IsActive:          c.IsActive,
		Host:              c.Host,
		Port:              c.Port,
		Protocol:          c.Protocol,
		Database:          c.Database,
		Username:          c.Username,
		HasPassword:       c.Password != "",
		SyncOnCreate:      c.SyncOnCreate,
		SyncOnApprove:     c.SyncOnApprove,
		SyncOnRefuse:      c.SyncOnRefuse,
		AutoApproveRemote: c.AutoApproveRemote,
		Complete:          c.Credentials().Complete(),
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         c.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(cfgs []SyncConfig) []SyncConfigResponse {
	resp := make([]SyncConfigResponse, len(cfgs))
	for i, c := range cfgs {
		resp[i] = mapToResponse(c)
	}
	return resp
}
