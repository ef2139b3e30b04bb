package syncconfig

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=syncconfig_repo.go -destination=mock/syncconfig_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cfg *SyncConfig) error
	Update(ctx context.Context, cfg *SyncConfig) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]SyncConfig, error)
	FindByID(ctx context.Context, id string) (*SyncConfig, error)
	FindActive(ctx context.Context) (*SyncConfig, error)
	CountActiveExcluding(ctx context.Context, excludeID string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes statements through the bound transaction when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, cfg *SyncConfig) error {
	return r.conn(ctx).Create(cfg).Error
}

func (r *repository) Update(ctx context.Context, cfg *SyncConfig) error {
	return r.conn(ctx).Save(cfg).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&SyncConfig{}, "id = ?", id).Error
}

func (r *repository) FindAll(ctx context.Context) ([]SyncConfig, error) {
	var cfgs []SyncConfig
	err := r.conn(ctx).
		Order("is_active DESC, name ASC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*SyncConfig, error) {
	var cfg SyncConfig
	err := r.conn(ctx).First(&cfg, "id = ?", id).Error
	return &cfg, err
}

func (r *repository) FindActive(ctx context.Context) (*SyncConfig, error) {
	var cfg SyncConfig
	err := r.conn(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&cfg).Error
	return &cfg, err
}

func (r *repository) CountActiveExcluding(ctx context.Context, excludeID string) (int64, error) {
	db := r.conn(ctx).
		Model(&SyncConfig{}).
		Where("is_active = ?", true)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count, err
}
