package pointlink

import "errors"

// ErrNotFound is the only error the correlation core surfaces: a lookup
// keyed a position that was never bound, or a link that resolves to no
// live binding. Callers treat it as an absence, never as fatal.
var ErrNotFound = errors.New("not found")
