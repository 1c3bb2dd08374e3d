package typeline

import (
	"fmt"
	"reflect"
	"strings"
)

// ============================================================
// Construction Errors
// ============================================================

// UnsupportedTypeError reports a field whose declared type cannot be
// classified into any supported shape.
type UnsupportedTypeError struct {
	Field string
	Type  reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unsupported type %s", e.Type)
	}
	return fmt.Sprintf("field %s: unsupported type %s", e.Field, e.Type)
}

// SchemaCycleError reports a record type that directly or transitively
// contains itself.
type SchemaCycleError struct {
	Field string
	Type  reflect.Type
}

func (e *SchemaCycleError) Error() string {
	return fmt.Sprintf("field %s: record type %s contains itself", e.Field, e.Type)
}

// ConfigurationError reports an invalid codec configuration, such as a
// row delimiter that collides with the sub-delimiter.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Message
}

// ============================================================
// Stream Errors
// ============================================================

// HeaderMismatchError reports a header row whose field names differ, in
// content or order, from the record schema.
type HeaderMismatchError struct {
	Expected []string
	Actual   []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header mismatch: expected [%s], got [%s]",
		strings.Join(e.Expected, " "), strings.Join(e.Actual, " "))
}

// RowError associates a row-level failure with its 1-based line number
// in the input.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// WriterStateError reports misuse of the writer's state machine, such as
// writing a header twice or writing after close.
type WriterStateError struct {
	Message string
}

func (e *WriterStateError) Error() string {
	return "writer: " + e.Message
}

// ============================================================
// Row Errors
// ============================================================

// RowArityError reports a text row whose cell count does not match the
// record's field count.
type RowArityError struct {
	Expected int
	Actual   int
}

func (e *RowArityError) Error() string {
	return fmt.Sprintf("expected %d cells, got %d", e.Expected, e.Actual)
}

// FieldEncodeError reports a record value that does not satisfy its
// field's declared shape.
type FieldEncodeError struct {
	Field string
	Err   error
}

func (e *FieldEncodeError) Error() string {
	return fmt.Sprintf("encode field %s: %v", e.Field, e.Err)
}

func (e *FieldEncodeError) Unwrap() error {
	return e.Err
}

// FieldDecodeError reports a cell that could not be decoded, naming the
// field, its 0-based column index, and the raw cell text.
type FieldDecodeError struct {
	Field  string
	Column int
	Raw    string
	Err    error
}

func (e *FieldDecodeError) Error() string {
	return fmt.Sprintf("decode field %s (column %d, text %q): %v",
		e.Field, e.Column, e.Raw, e.Err)
}

func (e *FieldDecodeError) Unwrap() error {
	return e.Err
}

// ============================================================
// Value Errors
// ============================================================

// ScalarDecodeError reports a text token that is not a valid encoding of
// its field's scalar kind.
type ScalarDecodeError struct {
	Token string
	Want  string
}

func (e *ScalarDecodeError) Error() string {
	return fmt.Sprintf("cannot decode %q as %s", e.Token, e.Want)
}

// InvalidEnumMemberError reports a token that is not among an
// enumeration's declared member names.
type InvalidEnumMemberError struct {
	Member  string
	Allowed []string
}

func (e *InvalidEnumMemberError) Error() string {
	return fmt.Sprintf("invalid enum member %q (allowed: %s)",
		e.Member, strings.Join(e.Allowed, ", "))
}
