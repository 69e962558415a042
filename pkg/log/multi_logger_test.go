package log

import "testing"

// captureLogger records events for test assertions.
type captureLogger struct {
	events []Event
}

func (c *captureLogger) Log(event Event) {
	c.events = append(c.events, event)
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := &captureLogger{}
	b := &captureLogger{}

	multi := NewMultiLogger(a, b)
	multi.Log(Event{ExchangeID: "exch-1"})
	multi.Log(Event{ExchangeID: "exch-2"})

	for name, c := range map[string]*captureLogger{"a": a, "b": b} {
		if len(c.events) != 2 {
			t.Errorf("logger %s: got %d events, want 2", name, len(c.events))
			continue
		}
		if c.events[0].ExchangeID != "exch-1" || c.events[1].ExchangeID != "exch-2" {
			t.Errorf("logger %s: events out of order: %+v", name, c.events)
		}
	}
}

func TestMultiLoggerEmpty(t *testing.T) {
	// A MultiLogger with no targets must not panic.
	NewMultiLogger().Log(Event{ExchangeID: "exch-1"})
}
