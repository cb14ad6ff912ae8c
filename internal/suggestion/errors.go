package suggestion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteExtraction is matched (via errors.Is) by every IncompleteError.
var ErrIncompleteExtraction = errors.New("incomplete extraction")

// IncompleteError reports which suggestion fields a completion did not yield.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete extraction: missing %s", strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrIncompleteExtraction) true.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompleteExtraction
}

// PoolError represents a failure loading the fallback pool.
type PoolError struct {
	Source  string
	Message string
	Cause   error
}

func (e *PoolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fallback pool %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("fallback pool %s: %s", e.Source, e.Message)
}

func (e *PoolError) Unwrap() error {
	return e.Cause
}
