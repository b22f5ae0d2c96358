package common

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrAlreadyExists  = errors.New("entity already exists")
	ErrCheckViolation = errors.New("check constraint violated")
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// ConstraintError нарушение ограничения таблицы. Column восстанавливается
// из имени ограничения вида <table>_<column>_check.
type ConstraintError struct {
	Kind       error
	Table      string
	Column     string
	Constraint string
	Cause      error
}

func (e *ConstraintError) Error() string {
	return e.Kind.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Cause
}

// MapPQError превращает нарушения ограничений lib/pq в ConstraintError,
// остальные ошибки возвращает как есть.
func MapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	var kind error
	switch string(pqErr.Code) {
	case pgCheckViolation:
		kind = ErrCheckViolation
	case pgUniqueViolation:
		kind = ErrAlreadyExists
	default:
		return err
	}

	column := pqErr.Column
	if column == "" {
		column = columnFromConstraint(pqErr.Table, pqErr.Constraint)
	}

	return &ConstraintError{
		Kind:       kind,
		Table:      pqErr.Table,
		Column:     column,
		Constraint: pqErr.Constraint,
		Cause:      err,
	}
}

func columnFromConstraint(table, constraint string) string {
	name := strings.TrimPrefix(constraint, table+"_")
	for _, suffix := range []string{"_check", "_key"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
