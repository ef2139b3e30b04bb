package employeeerrors

import (
	"fmt"
	"go-leavesync/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidRemoteID = apperror.New(
		apperror.CodeInvalidInput,
		"Remote Employee ID must be a positive number",
		http.StatusBadRequest,
	)
)

// RemoteIDTaken reports that remoteID is already mapped to holder.
func RemoteIDTaken(remoteID int64, holder string) *apperror.AppError {
	return apperror.New(
		apperror.CodeConflict,
		fmt.Sprintf("Remote Employee ID %d is already assigned to employee: %s", remoteID, holder),
		http.StatusConflict,
	)
}
