package compliance

import (
	"errors"
	"fmt"
)

// ErrEmptyInput indicates there were no files to analyze. It is the only
// run-level fatal condition: any non-empty input yields a full report.
var ErrEmptyInput = errors.New("no files to analyze")

// ErrQuotaExceeded indicates the reasoning provider returned a quota/limit
// error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("reasoning quota exceeded")

// FetchError wraps a Source Provider failure. It is recovered per file and
// surfaces as an ERROR file result, never as a run failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SchemaParseError indicates the Reasoning Service returned a payload that
// could not be coerced into the response schema. Deterministic: not retried.
type SchemaParseError struct {
	Cause  string
	RawLen int
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("response does not match schema: %s (%d chars)", e.Cause, e.RawLen)
}
