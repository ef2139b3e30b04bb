package leavetype

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lt *LeaveType) error
	FindAll(ctx context.Context) ([]LeaveType, error)
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	FindByRemoteID(ctx context.Context, remoteID int64) (*LeaveType, error)
	UpdateRemoteID(ctx context.Context, id string, remoteID *int64) error
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.conn(ctx).Create(lt).Error
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveType, error) {
	var lts []LeaveType
	err := r.conn(ctx).Order("name ASC").Find(&lts).Error
	return lts, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.conn(ctx).First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) FindByRemoteID(ctx context.Context, remoteID int64) (*LeaveType, error) {
	var lt LeaveType
	err := r.conn(ctx).First(&lt, "remote_leave_type_id = ?", remoteID).Error
	return &lt, err
}

func (r *repository) UpdateRemoteID(ctx context.Context, id string, remoteID *int64) error {
	return r.conn(ctx).
		Model(&LeaveType{}).
		Where("id = ?", id).
		Update("remote_leave_type_id", remoteID).Error
}
