package registry

import "errors"

// ErrNotFound indicates a spec or implementation that was never registered.
// It is fatal at the call site: there is nothing to analyze.
var ErrNotFound = errors.New("not found in registry")
