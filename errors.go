// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigError.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation error")
	// ErrSerialization is matched by every SerializationError.
	ErrSerialization = errors.New("serialization error")

	ErrInvalidCellValue = errors.New("invalid cell value")

	ErrDuplicateSheetName   = errors.New("duplicate sheet name")
	ErrInvalidSheetName     = errors.New("invalid sheet name")
	ErrUnknownSheet         = errors.New("unknown sheet")
	ErrDuplicateTableName   = errors.New("duplicate table name")
	ErrInvalidTableName     = errors.New("invalid table name")
	ErrMalformedTableRange  = errors.New("malformed table range")
	ErrOverlappingTables    = errors.New("overlapping tables")
	ErrOutOfBoundsReference = errors.New("out of bounds reference")
	ErrEmptyWorkbook        = errors.New("workbook has no sheets")

	ErrTooManyRows = errors.New("too many rows")
)

// ConfigError reports invalid synthesis parameters.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Reason)
}
func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// NewConfigError returns a ConfigError with a formatted reason.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidationError is a violated workbook invariant.
//
// Kind is one of the Err* sentinels above; errors.Is matches both Kind and ErrValidation.
type ValidationError struct {
	Kind    error
	Sheet   string
	Subject string
	Detail  string
}

func (e *ValidationError) Error() string {
	s := e.Kind.Error()
	if e.Sheet != "" {
		s += fmt.Sprintf(" [sheet %q]", e.Sheet)
	}
	if e.Subject != "" {
		s += " " + e.Subject
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}
func (e *ValidationError) Unwrap() []error { return []error{e.Kind, ErrValidation} }

// SerializationError wraps a failure of a Writer. The wrapped error is not interpreted.
type SerializationError struct {
	Op    string
	Sheet string
	Err   error
}

func (e *SerializationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Sheet, e.Err)
}
func (e *SerializationError) Unwrap() []error { return []error{e.Err, ErrSerialization} }
