package leavetype

import (
	"errors"

	leavetypeerrors "go-leavesync/internal/leavetype/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error, remoteID *int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavetypeerrors.ErrLeaveTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_leave_type_code":
			return leavetypeerrors.ErrLeaveTypeCodeExists
		case "uq_leave_type_remote_id":
			if remoteID != nil {
				return leavetypeerrors.RemoteIDTaken(*remoteID, "another leave type")
			}
		}
	}

	return err
}
