package matching

import "errors"

// ErrNoDriversFound is returned when a lookup legitimately matches zero
// drivers. It is a business outcome, not a storage failure: handlers render
// it as "no drivers within range" while real storage errors propagate
// unchanged and surface as internal errors.
var ErrNoDriversFound = errors.New("no drivers found within range")
