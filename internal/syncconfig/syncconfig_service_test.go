package syncconfig_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leavesync/internal/remote"
	remoteMock "go-leavesync/internal/remote/mock"
	"go-leavesync/internal/syncconfig"
	syncconfigerrors "go-leavesync/internal/syncconfig/errors"
	syncconfigMock "go-leavesync/internal/syncconfig/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   syncconfig.Service
	repo      *syncconfigMock.MockRepository
	connector *remoteMock.MockConnector
	session   *remoteMock.MockSession
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	repo := syncconfigMock.NewMockRepository(ctrl)
	connector := remoteMock.NewMockConnector(ctrl)
	session := remoteMock.NewMockSession(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   syncconfig.NewService(db, repo, connector),
		repo:      repo,
		connector: connector,
		session:   session,
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

func completeConfig() *syncconfig.SyncConfig {
	return &syncconfig.SyncConfig{
		ID:            uuid.New(),
		Name:          "Production",
		IsActive:      true,
		Host:          "hr.example.com",
		Port:          443,
		Protocol:      remote.ProtocolJSONRPCSSL,
		Database:      "prod",
		Username:      "sync@example.com",
		Password:      "secret",
		SyncOnCreate:  true,
		SyncOnApprove: true,
		SyncOnRefuse:  true,
	}
}

func TestSyncConfigService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - applies defaults", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := syncconfig.CreateSyncConfigRequest{
			Name:     "Production",
			IsActive: true,
			Host:     "https://hr.example.com/",
			Database: "prod",
			Username: "sync@example.com",
			Password: "secret",
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountActiveExcluding(ctx, "").Return(int64(0), nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, cfg *syncconfig.SyncConfig) error {
				assert.Equal(t, "hr.example.com", cfg.Host)
				assert.Equal(t, remote.DefaultPort, cfg.Port)
				assert.Equal(t, remote.ProtocolJSONRPCSSL, cfg.Protocol)
				assert.True(t, cfg.SyncOnCreate)
				assert.True(t, cfg.SyncOnApprove)
				assert.True(t, cfg.SyncOnRefuse)
				assert.False(t, cfg.AutoApproveRemote)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.HasPassword)
		assert.True(t, resp.Complete)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("error - another config already active", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		off := false
		req := syncconfig.CreateSyncConfigRequest{
			Name:         "Second",
			IsActive:     true,
			Host:         "hr2.example.com",
			Database:     "prod",
			Username:     "sync",
			Password:     "secret",
			SyncOnCreate: &off,
		}

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountActiveExcluding(ctx, "").Return(int64(1), nil)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, syncconfigerrors.ErrMultipleActiveConfigs)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success - inactive config skips the active check", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, syncconfig.CreateSyncConfigRequest{
			Name:     "Staging",
			Host:     "staging.example.com",
			Database: "staging",
			Username: "sync",
			Password: "secret",
		})

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("error - unknown protocol", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, syncconfig.CreateSyncConfigRequest{
			Name:     "Bad",
			Host:     "hr.example.com",
			Protocol: "xmlrpc",
			Database: "prod",
			Username: "sync",
			Password: "secret",
		})

		assert.ErrorIs(t, err, syncconfigerrors.ErrInvalidProtocol)
	})
}

func TestSyncConfigService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success - reactivating the active config excludes itself", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		id := cfg.ID.String()
		name := "Renamed"

		deps.repo.EXPECT().FindByID(ctx, id).Return(cfg, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountActiveExcluding(ctx, id).Return(int64(0), nil)
		deps.repo.EXPECT().Update(ctx, cfg).Return(nil)

		resp, err := deps.service.Update(ctx, id, syncconfig.UpdateSyncConfigRequest{Name: &name})

		assert.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Name)
	})

	t.Run("error - not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id, syncconfig.UpdateSyncConfigRequest{})

		assert.ErrorIs(t, err, syncconfigerrors.ErrSyncConfigNotFound)
	})

	t.Run("error - invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Update(ctx, "nope", syncconfig.UpdateSyncConfigRequest{})

		assert.ErrorIs(t, err, syncconfigerrors.ErrInvalidSyncConfigID)
	})
}

func TestSyncConfigService_Activate(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	defer deps.db.Close()

	cfg := completeConfig()
	cfg.IsActive = false
	id := cfg.ID.String()

	deps.repo.EXPECT().FindByID(ctx, id).Return(cfg, nil)
	expectTx(t, deps.sqlMock, false)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().CountActiveExcluding(ctx, id).Return(int64(1), nil)

	_, err := deps.service.Activate(ctx, id)

	assert.ErrorIs(t, err, syncconfigerrors.ErrMultipleActiveConfigs)
}

func TestSyncConfigService_Delete(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	defer deps.db.Close()

	cfg := completeConfig()
	id := cfg.ID.String()

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().FindByID(ctx, id).Return(cfg, nil)
	deps.repo.EXPECT().Delete(ctx, id).Return(nil)

	err := deps.service.Delete(ctx, id)

	assert.NoError(t, err)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestSyncConfigService_GetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("none active", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().FindActive(ctx).Return(nil, gorm.ErrRecordNotFound)

		cfg, err := deps.service.GetActive(ctx)

		assert.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("repository failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().FindActive(ctx).Return(nil, errors.New("db down"))

		cfg, err := deps.service.GetActive(ctx)

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestSyncConfigService_OpenConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("no active config", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.OpenConnection(ctx, nil)

		assert.ErrorIs(t, err, syncconfigerrors.ErrNoActiveConfig)
	})

	t.Run("incomplete credentials never dial", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		cfg.Password = ""

		_, err := deps.service.OpenConnection(ctx, cfg)

		assert.ErrorIs(t, err, syncconfigerrors.ErrConfigIncomplete)
	})

	t.Run("remote rejects login", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		deps.connector.EXPECT().
			Connect(ctx, cfg.Credentials()).
			Return(nil, remote.ErrAuthenticationFailed)

		_, err := deps.service.OpenConnection(ctx, cfg)

		var connErr *syncconfig.ConnectionError
		assert.ErrorAs(t, err, &connErr)
		assert.ErrorIs(t, err, remote.ErrAuthenticationFailed)
		assert.Contains(t, err.Error(), "Remote connection failed")
	})

	t.Run("transport failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		deps.connector.EXPECT().
			Connect(ctx, gomock.Any()).
			Return(nil, errors.New("dial tcp: connection refused"))

		_, err := deps.service.OpenConnection(ctx, cfg)

		assert.EqualError(t, err, "Unable to connect to remote database: dial tcp: connection refused")
	})
}

func TestSyncConfigService_TestConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		id := cfg.ID.String()

		deps.repo.EXPECT().FindByID(ctx, id).Return(cfg, nil)
		deps.connector.EXPECT().Connect(ctx, cfg.Credentials()).Return(deps.session, nil)
		deps.session.EXPECT().UserID().Return(int64(2)).AnyTimes()
		deps.session.EXPECT().
			Read(ctx, remote.ModelUser, []int64{2}, []string{"name"}).
			Return([]remote.Record{{"id": float64(2), "name": "Sync Bot"}}, nil)
		deps.session.EXPECT().
			SearchCount(ctx, remote.ModelLeave, gomock.Any()).
			Return(int64(17), nil)

		res, err := deps.service.TestConnection(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, syncconfig.ResultSuccess, res.Status)
		assert.Equal(t, "Connection Successful", res.Title)
		assert.Contains(t, res.Message, "✓ User: Sync Bot (ID: 2)")
		assert.Contains(t, res.Message, "✓ Database: prod")
		assert.Contains(t, res.Message, "✓ Found 17 leave records")
		assert.Equal(t, int64(17), res.LeaveCount)
	})

	t.Run("incomplete configuration", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		cfg.Host = ""
		deps.repo.EXPECT().FindByID(ctx, cfg.ID.String()).Return(cfg, nil)

		res, err := deps.service.TestConnection(ctx, cfg.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, syncconfig.ResultWarning, res.Status)
		assert.Equal(t, "Configuration Incomplete", res.Title)
	})

	t.Run("connection failed", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		deps.repo.EXPECT().FindByID(ctx, cfg.ID.String()).Return(cfg, nil)
		deps.connector.EXPECT().Connect(ctx, gomock.Any()).Return(nil, errors.New("timeout"))

		res, err := deps.service.TestConnection(ctx, cfg.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "Connection Failed", res.Title)
		assert.Equal(t, "Unable to connect to remote database: timeout", res.Message)
	})

	t.Run("leave module missing", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cfg := completeConfig()
		deps.repo.EXPECT().FindByID(ctx, cfg.ID.String()).Return(cfg, nil)
		deps.connector.EXPECT().Connect(ctx, gomock.Any()).Return(deps.session, nil)
		deps.session.EXPECT().UserID().Return(int64(2)).AnyTimes()
		deps.session.EXPECT().
			Read(ctx, remote.ModelUser, gomock.Any(), gomock.Any()).
			Return([]remote.Record{{"name": "Sync Bot"}}, nil)
		deps.session.EXPECT().
			SearchCount(ctx, remote.ModelLeave, gomock.Any()).
			Return(int64(0), &remote.RPCError{Message: "Object hr.leave doesn't exist"})

		res, err := deps.service.TestConnection(ctx, cfg.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, syncconfig.ResultWarning, res.Status)
		assert.Equal(t, "Module Missing", res.Title)
		assert.Contains(t, res.Message, "Install Time Off module on remote.")
	})

	t.Run("unknown config", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.TestConnection(ctx, id)

		assert.ErrorIs(t, err, syncconfigerrors.ErrSyncConfigNotFound)
	})
}
