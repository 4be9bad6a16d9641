package core

import (
	"sync"

	"github.com/HorseArcher567/octolog/pkg/level"
)

// Base is the common skeleton embedded by concrete appenders. It keeps the
// name, layout, filter chain, error handler and threshold.
//
// The zero Threshold is INFO; constructors use NewBase to start at ALL.
type Base struct {
	// Threshold 低于该级别的事件被丢弃
	Threshold level.Level `param:"Threshold"`

	mu      sync.RWMutex
	name    string
	layout  Layout
	filters []Filter
	handler ErrorHandler
	closed  bool
}

// NewBase returns a Base that accepts every level.
func NewBase() Base {
	return Base{Threshold: level.All}
}

func (b *Base) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

func (b *Base) SetName(name string) {
	b.mu.Lock()
	b.name = name
	b.mu.Unlock()
}

func (b *Base) SetLayout(l Layout) {
	b.mu.Lock()
	b.layout = l
	b.mu.Unlock()
}

// Layout returns the attached layout, or nil.
func (b *Base) Layout() Layout {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.layout
}

func (b *Base) AddFilter(f Filter) {
	b.mu.Lock()
	b.filters = append(b.filters, f)
	b.mu.Unlock()
}

// Filters returns a copy of the filter chain.
func (b *Base) Filters() []Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Filter(nil), b.filters...)
}

func (b *Base) SetErrorHandler(h ErrorHandler) {
	b.mu.Lock()
	b.handler = h
	b.mu.Unlock()
}

// ErrorHandler returns the attached error handler, or nil.
func (b *Base) ErrorHandler() ErrorHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handler
}

// Accept applies the threshold and the filter chain. The first non-neutral
// decision wins.
func (b *Base) Accept(e *Event) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed || e.Level < b.Threshold {
		return false
	}
	return Decide(b.filters, e) != Deny
}

// Render formats e with the layout, falling back to the raw message.
func (b *Base) Render(e *Event) []byte {
	if l := b.Layout(); l != nil {
		return l.Format(e)
	}
	return []byte(e.Message + "\n")
}

// Fail reports err to the error handler, if any.
func (b *Base) Fail(msg string, err error, e *Event) {
	if h := b.ErrorHandler(); h != nil {
		h.Error(msg, err, e)
	}
}

// MarkClosed flags the appender closed and reports whether it was open.
func (b *Base) MarkClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.closed = true
	return true
}

// Decide evaluates a filter chain in order.
func Decide(chain []Filter, e *Event) Decision {
	for _, f := range chain {
		if d := f.Decide(e); d != Neutral {
			return d
		}
	}
	return Neutral
}
