package compile

import "errors"

// ErrConfiguration signals a missing required hint for a density/temporal-
// density plan, surfaced before binding (§7 ConfigurationError).
var ErrConfiguration = errors.New("missing required configuration")
