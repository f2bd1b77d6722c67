package ocr

import (
	"fmt"
	"time"
)

// EngineUnavailableError reports that the external OCR engine could not be
// located or invoked, or that it misbehaved (non-zero exit, malformed
// output). Raw provider errors are wrapped here so callers depend on one
// stable type regardless of the engine plugged in.
type EngineUnavailableError struct {
	Engine string
	Err    error
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("ocr engine %q unavailable: %v", e.Engine, e.Err)
}

func (e *EngineUnavailableError) Unwrap() error { return e.Err }

// RecognitionTimeoutError reports that the engine did not return within the
// caller's timeout. The in-flight invocation is abandoned, not retried.
type RecognitionTimeoutError struct {
	Engine  string
	Timeout time.Duration
}

func (e *RecognitionTimeoutError) Error() string {
	return fmt.Sprintf("ocr engine %q did not return within %s", e.Engine, e.Timeout)
}
