package annotations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector_DisabledByDefault(t *testing.T) {
	c := NewCollector(nil)
	c.Add(Event{Name: DecideInvoked})
	require.Empty(t, c.Events())
}

func TestCollector_RecordsEvents(t *testing.T) {
	var captured []Event
	c := NewCollector(func(e Event) { captured = append(captured, e) })

	c.AddTiming(CompileComplete, time.Now(), map[string]interface{}{"strategy": "AttrEq"})

	require.Len(t, c.Events(), 1)
	require.Len(t, captured, 1)
	require.Equal(t, CompileComplete, captured[0].Name)
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector(func(Event) {})
	c.Add(Event{Name: BindBegin})
	require.Len(t, c.Events(), 1)
	c.Reset()
	require.Empty(t, c.Events())
}
