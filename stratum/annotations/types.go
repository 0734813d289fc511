// Package annotations provides a clean, low-overhead annotation system for
// tracking strategy-decision and plan-compilation timing and debugging
// information. Adapted from the teacher's query-execution annotation
// collector to the planner's decide/compile/bind lifecycle (§5 Shared
// state: the Decider, Extractor, and Compilers hold no mutable state — the
// Collector is the one place instrumentation state is allowed to live, and
// it lives outside the planner itself).
package annotations

import (
	"sync"
	"time"
)

// Event name constants, hierarchical dotted naming per the teacher's
// convention.
const (
	// Strategy decision lifecycle
	DecideInvoked  = "decide/invoked"
	DecideStrategy = "decide/strategy.chosen"

	// Space-time extraction
	ExtractBegin    = "extract/begin"
	ExtractComplete = "extract/completed"
	ExtractExcluded = "extract/excluded"

	// Plan compilation
	CompileBegin    = "compile/begin"
	CompileComplete = "compile/completed"
	CompileEmpty    = "compile/empty-result"

	// Key/CF planning
	KeyPlanBegin    = "keyplan/begin"
	KeyPlanRegex    = "keyplan/regex.derived"
	KeyPlanRealized = "keyplan/realized"

	// Execution / binding
	BindBegin      = "bind/begin"
	BindPhase1Scan = "bind/phase1.scan"
	BindPhase2Scan = "bind/phase2.scan"
	BindComplete   = "bind/completed"
	BindClosed     = "bind/closed"

	// Errors
	ErrorUnsupportedExpression = "error/unsupported-expression"
	ErrorInvalidSchema         = "error/invalid-schema"
	ErrorConfiguration         = "error/configuration"
	ErrorStore                 = "error/store"
)

// Event represents a single annotation event during planning or execution.
type Event struct {
	Name    string
	Start   time.Time
	End     time.Time
	Latency time.Duration
	Data    map[string]interface{}
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Collector accumulates events during planning and execution. It carries no
// semantics the planner depends on — disabling it (nil handler) must never
// change a chosen strategy or compiled plan.
type Collector struct {
	enabled bool
	handler Handler
	events  []Event
	mu      sync.Mutex
}

// NewCollector creates a new annotation collector. A nil handler disables
// collection entirely (Add becomes a no-op).
func NewCollector(handler Handler) *Collector {
	return &Collector{
		enabled: handler != nil,
		handler: handler,
		events:  make([]Event, 0, 32),
	}
}

// Add records a new event. Thread-safe for concurrent access. A nil
// receiver is a no-op, so callers can hold an optional collector without
// guarding every call.
func (c *Collector) Add(event Event) {
	if c == nil || !c.enabled {
		return
	}
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	if c.handler != nil {
		c.handler(event)
	}
}

// AddTiming records an event with timing information derived from start.
// A nil receiver is a no-op.
func (c *Collector) AddTiming(name string, start time.Time, data map[string]interface{}) {
	if c == nil || !c.enabled {
		return
	}
	end := time.Now()
	c.Add(Event{Name: name, Start: start, End: end, Latency: end.Sub(start), Data: data})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Reset clears the collector for reuse without dropping the handler.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}
