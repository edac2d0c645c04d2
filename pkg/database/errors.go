package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// Tagged repository outcomes. Repositories wrap driver errors with Classify
// so services can branch with errors.Is instead of inspecting driver types.
var (
	ErrConflict = errors.New("unique constraint conflict")
	ErrNotFound = errors.New("record not found")
)

// conflictError keeps the driver detail reachable while tagging it as a conflict.
type conflictError struct {
	constraint string
	cause      error
}

func (e *conflictError) Error() string {
	if e.constraint == "" {
		return ErrConflict.Error()
	}
	return ErrConflict.Error() + " on " + e.constraint
}

func (e *conflictError) Is(target error) bool { return target == ErrConflict }
func (e *conflictError) Unwrap() error        { return e.cause }

// Classify maps a unique violation to ErrConflict and sql.ErrNoRows to
// ErrNotFound; every other error is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
		return &conflictError{constraint: pqErr.Constraint, cause: err}
	}
	return err
}

// ConflictConstraint reports the violated constraint name, if known.
func ConflictConstraint(err error) string {
	var ce *conflictError
	if errors.As(err, &ce) {
		return ce.constraint
	}
	return ""
}
