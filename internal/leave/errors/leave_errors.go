package leaveerrors

import (
	"net/http"

	"go-leavesync/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not exist",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not exist",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date_from must be before or equal date_to",
		http.StatusBadRequest,
	)
	ErrInvalidNumberOfDays = apperror.New(
		apperror.CodeInvalidInput,
		"number_of_days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave state transition",
		http.StatusBadRequest,
	)
	ErrLeaveNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only draft or confirmed leaves can be edited",
		http.StatusBadRequest,
	)
)
