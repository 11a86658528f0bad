package recipe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned by stores and the service for unknown ids.
	ErrNotFound = errors.New("recipe not found")
	// ErrInvalidImport rejects an import payload without a recipes array.
	ErrInvalidImport = errors.New("invalid import data format")
)

// ValidationError lists the fields that failed save-time validation,
// keyed by their JSON path such as "ingredients[0].item".
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "recipe validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
