package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows FindAll. Empty fields are ignored.
type ListFilter struct {
	EmployeeID string
	State      string
	SyncStatus string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context, filter ListFilter) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	ApplyPatch(ctx context.Context, id string, cols map[string]any) error
	Delete(ctx context.Context, id string) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	LeaveTypeExists(ctx context.Context, leaveTypeID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, dateFrom, dateTo time.Time, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Omit("Employee", "LeaveType").Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Leave, error) {
	db := r.conn(ctx).Preload("Employee").Preload("LeaveType")
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.State != "" {
		db = db.Where("state = ?", filter.State)
	}
	if filter.SyncStatus != "" {
		db = db.Where("sync_status = ?", filter.SyncStatus)
	}

	var leaves []Leave
	err := db.Order("date_from DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Preload("Employee").
		Preload("LeaveType").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) ApplyPatch(ctx context.Context, id string, cols map[string]any) error {
	res := r.conn(ctx).Model(&Leave{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Leave{}, "id = ?", id).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LeaveTypeExists(ctx context.Context, leaveTypeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("leave_types").
		Where("id = ?", leaveTypeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, dateFrom, dateTo time.Time, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("state NOT IN ?", []string{StateRefused, StateCancelled}).
		Where("NOT (date_to < ? OR date_from > ?)", dateFrom, dateTo)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
