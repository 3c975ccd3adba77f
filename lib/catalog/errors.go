package catalog

import "fmt"

// ValidationError reports a field whose value could not be coerced
// into the canonical schema. It is the only failure that aborts
// record construction.
type ValidationError struct {
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Value)
}
