package exec

import "errors"

// ErrStore wraps errors propagated from a ScannerHandle (§7 StoreError).
// The result sequence surfaces it from Err once Next returns false, and
// still guarantees Close is safe.
var ErrStore = errors.New("store error")
