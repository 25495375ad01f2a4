package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/colobj/colobj/column"
)

var (
	// ErrInvalidName is returned when a field name fails validation.
	ErrInvalidName = errors.New("field: invalid field name")
	// ErrUnsupported is returned for operations a field kind does not
	// support, e.g. generating write columns for a read-only derived field.
	ErrUnsupported = errors.New("field: unsupported operation")
	// ErrInvariant flags programmer errors such as reconnecting an already
	// connected field or changing the column representation afterwards.
	// These fail fast and are never recovered internally.
	ErrInvariant = errors.New("field: invariant violation")
)

// SchemaMismatchError is returned when the on-disk column encoding of a
// field is not in its accepted set. It is fatal at connect time.
type SchemaMismatchError struct {
	FieldName string
	OnDisk    column.Representation
	Accepted  []column.Representation
}

func (e *SchemaMismatchError) Error() string {
	var accepted []string
	for _, rep := range e.Accepted {
		accepted = append(accepted, formatRepresentation(rep))
	}
	return fmt.Sprintf("field %q: on-disk column types %s not in accepted set {%s}",
		e.FieldName, formatRepresentation(e.OnDisk), strings.Join(accepted, ", "))
}

func formatRepresentation(rep column.Representation) string {
	parts := make([]string, len(rep))
	for i, t := range rep {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, ".") {
		return fmt.Errorf("%w: %q contains a dot", ErrInvalidName, name)
	}
	return nil
}
