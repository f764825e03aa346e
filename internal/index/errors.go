package index

import "fmt"

// DependencyUnavailable reports that an optional index backend could not be
// used. Callers fall back to a simpler strategy instead of failing.
type DependencyUnavailable struct {
	Dependency string
	Message    string
	Cause      error
}

func (e *DependencyUnavailable) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %s: %v", e.Dependency, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Dependency, e.Message)
}

func (e *DependencyUnavailable) Unwrap() error {
	return e.Cause
}
