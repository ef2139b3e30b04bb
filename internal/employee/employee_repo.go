package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByRemoteID(ctx context.Context, remoteID int64) (*Employee, error)
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
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindByRemoteID(ctx context.Context, remoteID int64) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "remote_employee_id = ?", remoteID).Error
	return &empl, err
}

func (r *repository) UpdateRemoteID(ctx context.Context, id string, remoteID *int64) error {
	return r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("remote_employee_id", remoteID).Error
}
