package planner

import "fmt"

// ValidationError rejects a requested operation before any store call is
// made. It is always fully recoverable: nothing has been applied.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
