package configurator

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/hierarchy"
	"github.com/HorseArcher567/octolog/pkg/status"
)

// Configuration 一次成功解释的结果
type Configuration struct {
	hierarchy *hierarchy.Hierarchy
	appenders map[string]core.Appender
	order     []string
	status    *status.Reporter
	debug     bool

	closeOnce sync.Once
	closeErr  error
}

// Hierarchy returns the configured logger hierarchy.
func (c *Configuration) Hierarchy() *hierarchy.Hierarchy {
	return c.hierarchy
}

// Appender returns the named appender.
func (c *Configuration) Appender(name string) (core.Appender, bool) {
	a, ok := c.appenders[name]
	return a, ok
}

// Appenders returns the appenders in construction order.
func (c *Configuration) Appenders() []core.Appender {
	out := make([]core.Appender, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.appenders[name])
	}
	return out
}

// AppenderNames returns appender names in construction order.
func (c *Configuration) AppenderNames() []string {
	return slices.Clone(c.order)
}

// Status returns the diagnostics recorded while interpreting.
func (c *Configuration) Status() *status.Reporter {
	return c.status
}

// Debug reports whether the document enabled verbose diagnostics.
func (c *Configuration) Debug() bool {
	return c.debug
}

// Dispatch routes an event through the hierarchy.
func (c *Configuration) Dispatch(e *core.Event) int {
	return c.hierarchy.Dispatch(e)
}

// Close closes every appender in reverse construction order. Subsequent
// calls return the first result.
func (c *Configuration) Close() error {
	c.closeOnce.Do(func() {
		var errs []error
		for i := len(c.order) - 1; i >= 0; i-- {
			name := c.order[i]
			if err := c.appenders[name].Close(); err != nil {
				errs = append(errs, fmt.Errorf("close appender %q: %w", name, err))
			}
		}
		c.closeErr = errors.Join(errs...)
	})
	return c.closeErr
}
