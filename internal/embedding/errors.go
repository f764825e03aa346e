package embedding

import "fmt"

// EncoderFailure represents a missing or malformed embedding returned by an
// encoder. It is fatal for the request that triggered it.
type EncoderFailure struct {
	Message string
	Cause   error
}

func (e *EncoderFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("encoder failure: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("encoder failure: %s", e.Message)
}

func (e *EncoderFailure) Unwrap() error {
	return e.Cause
}
