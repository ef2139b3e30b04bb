package syncconfigerrors

import (
	"net/http"

	"go-leavesync/internal/shared/apperror"
)

var (
	ErrSyncConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"sync configuration not found",
		http.StatusNotFound,
	)
	ErrInvalidSyncConfigID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid sync configuration id",
		http.StatusBadRequest,
	)
	ErrMultipleActiveConfigs = apperror.New(
		apperror.CodeInvalidState,
		"Only one configuration can be active at a time.",
		http.StatusBadRequest,
	)
	ErrNoActiveConfig = apperror.New(
		apperror.CodeConfigError,
		"No active sync configuration found.",
		http.StatusBadRequest,
	)
	ErrConfigIncomplete = apperror.New(
		apperror.CodeConfigError,
		"Please fill in all Remote DB fields before connecting.",
		http.StatusBadRequest,
	)
	ErrInvalidProtocol = apperror.New(
		apperror.CodeInvalidInput,
		"protocol must be jsonrpc or jsonrpc+ssl",
		http.StatusBadRequest,
	)
)
