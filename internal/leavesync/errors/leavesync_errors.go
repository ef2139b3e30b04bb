package leavesyncerrors

import (
	"net/http"

	"go-leavesync/internal/shared/apperror"
)

var (
	ErrUnknownSyncType = apperror.New(
		apperror.CodeInvalidInput,
		"sync_type must be one of create, update, approve, refuse",
		http.StatusBadRequest,
	)
	ErrManualDelete = apperror.New(
		apperror.CodeInvalidInput,
		"Remote leaves are only deleted when the local leave is deleted.",
		http.StatusBadRequest,
	)
	ErrLeaveNotSynced = apperror.New(
		apperror.CodeInvalidState,
		"This leave has not been synced to remote database yet.",
		http.StatusBadRequest,
	)
)
