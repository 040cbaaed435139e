package engine

import "errors"

// ErrDataUnavailable marks a missing or empty series. Fatal only for the
// benchmark instrument; per-instrument gaps are skip-and-continue.
var ErrDataUnavailable = errors.New("data unavailable")
