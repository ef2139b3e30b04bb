package leavetype_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-leavesync/internal/leavetype"
	leavetypeerrors "go-leavesync/internal/leavetype/errors"
	leavetypeMock "go-leavesync/internal/leavetype/mock"
	"go-leavesync/internal/remote"
	remoteMock "go-leavesync/internal/remote/mock"
	"go-leavesync/internal/syncconfig"
	syncconfigerrors "go-leavesync/internal/syncconfig/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeRemoteSource struct {
	GetActiveFn      func(ctx context.Context) (*syncconfig.SyncConfig, error)
	OpenConnectionFn func(ctx context.Context, cfg *syncconfig.SyncConfig) (remote.Session, error)
}

func (f *fakeRemoteSource) GetActive(ctx context.Context) (*syncconfig.SyncConfig, error) {
	return f.GetActiveFn(ctx)
}

func (f *fakeRemoteSource) OpenConnection(ctx context.Context, cfg *syncconfig.SyncConfig) (remote.Session, error) {
	return f.OpenConnectionFn(ctx, cfg)
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	repo      *leavetypeMock.MockRepository
	session   *remoteMock.MockSession
	remotes   *fakeRemoteSource
	redismock redismock.ClientMock
	service   leavetype.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := leavetypeMock.NewMockRepository(ctrl)
	remotes := &fakeRemoteSource{}

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      repo,
		session:   remoteMock.NewMockSession(ctrl),
		remotes:   remotes,
		redismock: redisMock,
		service:   leavetype.NewService(db, repo, remotes, dbRedis),
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestLeaveTypeService_SetRemoteID(t *testing.T) {
	ctx := context.Background()

	t.Run("conflict names the holder", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		lt := &leavetype.LeaveType{ID: uuid.New(), Name: "Annual"}
		id := lt.ID.String()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(lt, nil)
		deps.repo.EXPECT().
			FindByRemoteID(ctx, int64(7)).
			Return(&leavetype.LeaveType{ID: uuid.New(), Name: "Sick"}, nil)

		_, err := deps.service.SetRemoteID(ctx, id, int64Ptr(7))

		assert.EqualError(t, err, "Remote Leave Type ID 7 is already assigned to leave type: Sick")
	})

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		lt := &leavetype.LeaveType{ID: uuid.New(), Name: "Annual"}
		id := lt.ID.String()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(lt, nil)
		deps.repo.EXPECT().FindByRemoteID(ctx, int64(7)).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().UpdateRemoteID(ctx, id, int64Ptr(7)).Return(nil)

		resp, err := deps.service.SetRemoteID(ctx, id, int64Ptr(7))

		assert.NoError(t, err)
		assert.Equal(t, int64(7), *resp.RemoteLeaveTypeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown leave type", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.NewString()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.SetRemoteID(ctx, id, int64Ptr(7))

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})
}

func TestLeaveTypeService_FetchRemoteLeaveTypes(t *testing.T) {
	ctx := context.Background()
	cfg := &syncconfig.SyncConfig{ID: uuid.New(), IsActive: true}
	cacheKey := leavetype.GetRemoteLeaveTypesKey(cfg.ID.String())

	t.Run("no active config", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.remotes.GetActiveFn = func(ctx context.Context) (*syncconfig.SyncConfig, error) { return nil, nil }

		_, err := deps.service.FetchRemoteLeaveTypes(ctx)

		assert.ErrorIs(t, err, syncconfigerrors.ErrNoActiveConfig)
	})

	t.Run("reads remote and caches", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.remotes.GetActiveFn = func(ctx context.Context) (*syncconfig.SyncConfig, error) { return cfg, nil }
		deps.remotes.OpenConnectionFn = func(ctx context.Context, got *syncconfig.SyncConfig) (remote.Session, error) {
			assert.Equal(t, cfg, got)
			return deps.session, nil
		}

		deps.redismock.ExpectGet(cacheKey).RedisNil()
		deps.session.EXPECT().
			SearchRead(ctx, remote.ModelLeaveType, gomock.Any(), []string{"name", "allocation_validation_type"}).
			Return([]remote.Record{
				{"id": float64(5), "name": "Sick Time Off", "allocation_validation_type": false},
				{"id": float64(1), "name": "Paid Time Off", "allocation_validation_type": "officer"},
			}, nil)

		want := []leavetype.RemoteLeaveTypeResponse{
			{ID: 1, Name: "Paid Time Off", AllocationValidationType: "officer"},
			{ID: 5, Name: "Sick Time Off"},
		}
		raw, _ := json.Marshal(want)
		deps.redismock.ExpectSet(cacheKey, raw, leavetype.RemoteLeaveTypesTTL).SetVal("OK")

		resp, err := deps.service.FetchRemoteLeaveTypes(ctx)

		assert.NoError(t, err)
		assert.Equal(t, want, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache hit skips remote", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.remotes.GetActiveFn = func(ctx context.Context) (*syncconfig.SyncConfig, error) { return cfg, nil }
		cached := []leavetype.RemoteLeaveTypeResponse{{ID: 1, Name: "Paid Time Off"}}
		raw, _ := json.Marshal(cached)
		deps.redismock.ExpectGet(cacheKey).SetVal(string(raw))

		resp, err := deps.service.FetchRemoteLeaveTypes(ctx)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
	})

	t.Run("remote failure is wrapped", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.remotes.GetActiveFn = func(ctx context.Context) (*syncconfig.SyncConfig, error) { return cfg, nil }
		deps.remotes.OpenConnectionFn = func(ctx context.Context, cfg *syncconfig.SyncConfig) (remote.Session, error) {
			return nil, errors.New("connection refused")
		}
		deps.redismock.ExpectGet(cacheKey).RedisNil()

		_, err := deps.service.FetchRemoteLeaveTypes(ctx)

		assert.ErrorIs(t, err, leavetypeerrors.ErrFetchRemoteFailed)
		assert.EqualError(t, err, "failed to fetch remote leave types: connection refused")
	})
}
