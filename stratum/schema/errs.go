package schema

import "errors"

// ErrInvalidSchema signals a malformed schema string or conflicting defaults (§7).
var ErrInvalidSchema = errors.New("invalid schema")
