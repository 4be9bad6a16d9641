package registry

import (
	"context"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/level"
)

// Kind 组件种类
type Kind string

const (
	KindAppender     Kind = "appender"
	KindLayout       Kind = "layout"
	KindFilter       Kind = "filter"
	KindErrorHandler Kind = "error-handler"
)

// Factory constructs a zero-configured instance.
type Factory func() any

// Builder fully constructs and configures a component from its element.
// When a builder is registered for a type, generic construction is skipped.
type Builder func(ctx BuildContext, el *document.Element) (any, error)

// LevelParser converts a token for a custom level class.
type LevelParser func(token string) (level.Level, error)

// Resolver is consulted for names with no static registration.
type Resolver func(name string) (Factory, bool)

// BuildContext is the view of the running configurator handed to builders.
type BuildContext interface {
	// Context 当前解释过程的 context
	Context() context.Context

	// Subst expands ${...} references in an attribute value.
	Subst(value string) string

	// Attr returns the substituted attribute of el.
	Attr(el *document.Element, name string) string

	// SetParameter binds one param element onto target.
	SetParameter(target any, param *document.Element) error

	// ParseLayout builds a layout element.
	ParseLayout(el *document.Element) (core.Layout, error)

	// ParseFilter builds a filter element.
	ParseFilter(el *document.Element) (core.Filter, error)

	// FindAppender resolves an appender by name.
	FindAppender(name string) (core.Appender, error)

	// Warn records an advisory diagnostic.
	Warn(msg string, args ...any)
}
