package appender

import (
	"sync"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// Memory 在内存中保留最近的事件，Limit 为 0 表示不限
type Memory struct {
	core.Base

	Limit int

	mu     sync.Mutex
	events []*core.Event
	lines  []string
}

// NewMemory creates an unbounded Memory appender.
func NewMemory() *Memory {
	return &Memory{Base: core.NewBase()}
}

func (a *Memory) Append(e *core.Event) {
	if !a.Accept(e) {
		return
	}
	line := string(a.Render(e))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
	a.lines = append(a.lines, line)
	if a.Limit > 0 && len(a.events) > a.Limit {
		a.events = a.events[len(a.events)-a.Limit:]
		a.lines = a.lines[len(a.lines)-a.Limit:]
	}
}

// Events returns the retained events.
func (a *Memory) Events() []*core.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*core.Event(nil), a.events...)
}

// Lines returns the retained events as formatted by the layout.
func (a *Memory) Lines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.lines...)
}

// Reset drops the retained events.
func (a *Memory) Reset() {
	a.mu.Lock()
	a.events, a.lines = nil, nil
	a.mu.Unlock()
}

func (a *Memory) Close() error {
	a.MarkClosed()
	return nil
}

// Null 丢弃一切
type Null struct {
	core.Base
}

// NewNull creates a Null appender.
func NewNull() *Null {
	return &Null{Base: core.NewBase()}
}

func (*Null) Append(*core.Event) {}

func (a *Null) Close() error {
	a.MarkClosed()
	return nil
}
