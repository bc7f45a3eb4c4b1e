package memdb

import apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"

// NoID is returned in place of an id when an insert is rejected.
const NoID int64 = -1

var (
	// ErrTableNotFound indicates an operation named a table that was never defined.
	ErrTableNotFound = apperrors.New(apperrors.CodeNotFound, "table not found")

	// ErrConstraintViolation indicates an insert or update collided with a
	// unique-key group. The row was not written.
	ErrConstraintViolation = apperrors.New(apperrors.CodeConstraintViolation, "unique constraint violation")

	// ErrInvalidID indicates an explicit id that is not a non-negative integer.
	ErrInvalidID = apperrors.New(apperrors.CodeInvalidArgument, "invalid row id")
)
