package filter

import "errors"

// ErrUnsupportedExpression signals a filter construct the planner cannot
// classify, e.g. a property-on-property comparison (§7).
var ErrUnsupportedExpression = errors.New("unsupported expression")
