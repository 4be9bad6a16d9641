package core

import "github.com/HorseArcher567/octolog/pkg/document"

// Layout formats an event.
type Layout interface {
	Format(e *Event) []byte
}

// Filter is one node of a filter chain.
type Filter interface {
	Decide(e *Event) Decision
}

// ErrorHandler receives failures from exactly one appender.
type ErrorHandler interface {
	Error(msg string, err error, e *Event)
}

// Appender 输出目标（sink）
type Appender interface {
	Name() string
	SetName(name string)
	Append(e *Event)
	Close() error
}

// 以下为可选能力，配置器通过类型断言检查

// LayoutSetter is implemented by appenders that accept a layout.
type LayoutSetter interface {
	SetLayout(l Layout)
}

// FilterAdder is implemented by appenders that accept filters.
type FilterAdder interface {
	AddFilter(f Filter)
}

// ErrorHandlerSetter is implemented by appenders that accept an error handler.
type ErrorHandlerSetter interface {
	SetErrorHandler(h ErrorHandler)
}

// AppenderAttacher is implemented by composite appenders and by error
// handlers that hold a backup appender.
type AppenderAttacher interface {
	AddAppender(a Appender)
}

// ElementHandler receives child elements the configurator does not recognize.
// handled=false means the element was ignored; a non-nil error abandons the
// owning component.
type ElementHandler interface {
	HandleElement(el *document.Element) (handled bool, err error)
}

// Activator is called once after every property is bound.
type Activator interface {
	Activate() error
}

// PropertySetter binds a single named property from its string form.
// Implementations return an error wrapping propset.ErrNoSuchProperty for
// unknown names.
type PropertySetter interface {
	SetProperty(name, value string) error
}

// AppenderOwner is implemented by error handlers that need to know the
// appender they are attached to.
type AppenderOwner interface {
	SetAppender(a Appender)
}
