package employee

import (
	"errors"
	"strings"

	employeeerrors "go-leavesync/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	constraintPrimary  = "employees_pkey"
	constraintEmail    = "uq_employee_email"
	constraintRemoteID = "uq_employee_remote_id"
)

// mapRepositoryError turns storage errors into module errors. remoteID is
// used for the message when the remote id index rejects a write.
func mapRepositoryError(err error, remoteID *int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	constraint := ""
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		constraint = pgErr.ConstraintName
	} else {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate key value") {
			switch {
			case strings.Contains(errMsg, constraintPrimary):
				constraint = constraintPrimary
			case strings.Contains(errMsg, constraintRemoteID):
				constraint = constraintRemoteID
			case strings.Contains(errMsg, constraintEmail):
				constraint = constraintEmail
			}
		}
	}

	switch constraint {
	case constraintPrimary, constraintEmail:
		return employeeerrors.ErrEmployeeAlreadyExists
	case constraintRemoteID:
		if remoteID != nil {
			return employeeerrors.RemoteIDTaken(*remoteID, "another employee")
		}
	}

	return err
}
