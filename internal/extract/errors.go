package extract

import "fmt"

// ConfigurationError indicates invalid or missing credentials/configuration.
// It is returned at construction time, and again when a backend rejects its
// credentials on the first request.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ExtractionError indicates a failure during the remote call, response
// parsing, or schema validation. It wraps the underlying cause for
// diagnostics and always represents an all-or-nothing failure: no partial
// record accompanies it.
type ExtractionError struct {
	Stage string // "read", "call", "parse"
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func extractionErr(stage string, err error) error {
	return &ExtractionError{Stage: stage, Err: err}
}
