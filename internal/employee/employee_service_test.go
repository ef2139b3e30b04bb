package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leavesync/internal/employee"
	employeeerrors "go-leavesync/internal/employee/errors"
	employeeMock "go-leavesync/internal/employee/mock"
	"go-leavesync/internal/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   employee.NewService(db, repo, dbRedis),
		repo:      repo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Jane Doe", e.FullName)
				assert.Equal(t, "jane@example.com", e.Email)
				assert.Nil(t, e.RemoteEmployeeID)
				return nil
			})
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName: " Jane Doe ",
			Email:    "Jane@Example.com",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", resp.FullName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})

	t.Run("remote id already held", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByRemoteID(ctx, int64(42)).
			Return(&employee.Employee{ID: uuid.New(), FullName: "Budi"}, nil)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:         "Jane Doe",
			Email:            "jane@example.com",
			RemoteEmployeeID: int64Ptr(42),
		})

		assert.EqualError(t, err, "Remote Employee ID 42 is already assigned to employee: Budi")
	})
}

func TestEmployeeService_CreateFromEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("mirrors the upstream id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, id, e.ID)
				return nil
			})
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		err := deps.service.CreateFromEvent(ctx, events.EmployeeCreatedEvent{
			EventType:  events.EmployeeCreatedEventType,
			EmployeeID: id.String(),
			FullName:   "Jane Doe",
			Email:      "jane@example.com",
		})

		assert.NoError(t, err)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		err := deps.service.CreateFromEvent(ctx, events.EmployeeCreatedEvent{EmployeeID: "x"})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_SetRemoteID(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns a free remote id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		empl := &employee.Employee{ID: uuid.New(), FullName: "Jane Doe"}
		id := empl.ID.String()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(empl, nil)
		deps.repo.EXPECT().FindByRemoteID(ctx, int64(42)).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().UpdateRemoteID(ctx, id, int64Ptr(42)).Return(nil)
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.SetRemoteID(ctx, id, int64Ptr(42))

		assert.NoError(t, err)
		assert.Equal(t, int64(42), *resp.RemoteEmployeeID)
	})

	t.Run("re-saving the same mapping is allowed", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		empl := &employee.Employee{ID: uuid.New(), FullName: "Jane Doe", RemoteEmployeeID: int64Ptr(42)}
		id := empl.ID.String()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(empl, nil)
		deps.repo.EXPECT().FindByRemoteID(ctx, int64(42)).Return(empl, nil)
		deps.repo.EXPECT().UpdateRemoteID(ctx, id, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		_, err := deps.service.SetRemoteID(ctx, id, int64Ptr(42))

		assert.NoError(t, err)
	})

	t.Run("rejects a remote id held by another employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		empl := &employee.Employee{ID: uuid.New(), FullName: "Jane Doe"}
		id := empl.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(empl, nil)
		deps.repo.EXPECT().
			FindByRemoteID(ctx, int64(42)).
			Return(&employee.Employee{ID: uuid.New(), FullName: "Budi"}, nil)

		_, err := deps.service.SetRemoteID(ctx, id, int64Ptr(42))

		assert.EqualError(t, err, "Remote Employee ID 42 is already assigned to employee: Budi")
	})

	t.Run("clears the mapping", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		empl := &employee.Employee{ID: uuid.New(), FullName: "Jane Doe", RemoteEmployeeID: int64Ptr(42)}
		id := empl.ID.String()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(empl, nil)
		deps.repo.EXPECT().UpdateRemoteID(ctx, id, (*int64)(nil)).Return(nil)
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.SetRemoteID(ctx, id, nil)

		assert.NoError(t, err)
		assert.Nil(t, resp.RemoteEmployeeID)
	})

	t.Run("unique index race maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		empl := &employee.Employee{ID: uuid.New(), FullName: "Jane Doe"}
		id := empl.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(empl, nil)
		deps.repo.EXPECT().FindByRemoteID(ctx, int64(7)).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().
			UpdateRemoteID(ctx, id, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_remote_id"})

		_, err := deps.service.SetRemoteID(ctx, id, int64Ptr(7))

		assert.EqualError(t, err, "Remote Employee ID 7 is already assigned to employee: another employee")
	})

	t.Run("negative remote id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.SetRemoteID(ctx, uuid.NewString(), int64Ptr(-1))

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRemoteID)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached := []employee.EmployeeResponse{{ID: uuid.NewString(), FullName: "Jane Doe"}}
		raw, _ := json.Marshal(cached)
		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(raw))

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		empls := []employee.Employee{{ID: uuid.New(), FullName: "Jane Doe", Email: "jane@example.com"}}
		raw, _ := json.Marshal([]employee.EmployeeResponse{{
			ID:       empls[0].ID.String(),
			FullName: "Jane Doe",
			Email:    "jane@example.com",
		}})

		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(empls, nil)
		deps.redismock.ExpectSet(employee.EmployeeOptionsKey, raw, time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("repository failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("db down"))

		_, err := deps.service.GetOptions(ctx)

		assert.Error(t, err)
	})
}
