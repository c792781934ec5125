package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// PQErrorDetails contains diagnostics extracted from PostgreSQL errors.
type PQErrorDetails struct {
	SQLState   string
	Constraint string
	Table      string
	Column     string
	Detail     string
}

// ExtractPQError returns the pq diagnostics of err, or nil when err is not a pq error.
func ExtractPQError(err error) *PQErrorDetails {
	var pqErr *pq.Error
	if err == nil || !errors.As(err, &pqErr) {
		return nil
	}
	return &PQErrorDetails{
		SQLState:   string(pqErr.Code),
		Constraint: pqErr.Constraint,
		Table:      pqErr.Table,
		Column:     pqErr.Column,
		Detail:     pqErr.Detail,
	}
}

// IsUniqueViolation reports a 23505 error. When constraint is non-empty
// the violated constraint must match it.
func IsUniqueViolation(err error, constraint string) bool {
	return matches(err, sqlStateUniqueViolation, constraint)
}

// IsForeignKeyViolation reports a 23503 error.
func IsForeignKeyViolation(err error, constraint string) bool {
	return matches(err, sqlStateForeignKeyViolation, constraint)
}

func matches(err error, state, constraint string) bool {
	d := ExtractPQError(err)
	if d == nil || d.SQLState != state {
		return false
	}
	return constraint == "" || d.Constraint == constraint
}
