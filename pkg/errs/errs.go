// Package errs defines the typed errors shared by the flood data clients.
//
// These are plain error structs so callers can match them with errors.As
// (or eris.As) regardless of how many times they were wrapped on the way up.
package errs

import (
	"fmt"
	"sort"
	"strings"
)

// InputValueError reports a caller-supplied value outside a fixed allowed set.
// It is always raised before any network I/O.
type InputValueError struct {
	// Name is the category of the offending input, e.g. "data_type",
	// "service", "layer", or "query_param".
	Name string
	// Valid is the full allowed set for that category.
	Valid []string
}

func (e *InputValueError) Error() string {
	valid := append([]string(nil), e.Valid...)
	sort.Strings(valid)
	return fmt.Sprintf("invalid %s; valid values are: %s", e.Name, strings.Join(valid, ", "))
}

// SchemaError reports a record missing a field the operation requires,
// such as the x/y columns at geo-referencing time.
type SchemaError struct {
	Field string
	// Index is the position of the offending record in the response sequence.
	Index int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %d is missing required field %q", e.Index, e.Field)
}

// MalformedDictionaryError reports a data-dictionary continuation row that
// appears before any field-defining row.
type MalformedDictionaryError struct {
	Row int
}

func (e *MalformedDictionaryError) Error() string {
	return fmt.Sprintf("data dictionary row %d continues a definition but no field precedes it", e.Row)
}
