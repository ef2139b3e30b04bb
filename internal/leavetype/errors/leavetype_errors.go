package leavetypeerrors

import (
	"fmt"
	"go-leavesync/internal/shared/apperror"
	"net/http"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeCodeExists = apperror.New(
		apperror.CodeConflict,
		"Leave type with the same code already exists",
		http.StatusConflict,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type ID",
		http.StatusBadRequest,
	)
	ErrInvalidRemoteID = apperror.New(
		apperror.CodeInvalidInput,
		"Remote Leave Type ID must be a positive number",
		http.StatusBadRequest,
	)
	ErrFetchRemoteFailed = apperror.New(
		apperror.CodeRemoteError,
		"failed to fetch remote leave types",
		http.StatusBadGateway,
	)
)

func RemoteIDTaken(remoteID int64, holder string) *apperror.AppError {
	return apperror.New(
		apperror.CodeConflict,
		fmt.Sprintf("Remote Leave Type ID %d is already assigned to leave type: %s", remoteID, holder),
		http.StatusConflict,
	)
}
