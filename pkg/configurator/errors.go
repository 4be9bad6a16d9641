package configurator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HorseArcher567/octolog/pkg/registry"
)

var (
	// ErrNotConfiguration 根元素不是 <configuration>，整个文档被放弃
	ErrNotConfiguration = errors.New("configurator: root element is not <configuration>")

	// ErrCyclicReference appender 之间存在循环引用
	ErrCyclicReference = errors.New("configurator: cyclic appender reference")

	// ErrAppenderNotFound 文档中没有该名称的 appender
	ErrAppenderNotFound = errors.New("configurator: no appender with that name")

	// ErrAppenderUnavailable 该 appender 之前构建失败
	ErrAppenderUnavailable = errors.New("configurator: appender failed to build")

	// ErrMissingClass 未声明 class 属性
	ErrMissingClass = errors.New("configurator: class attribute not set")

	// ErrWrongKind 构造出的实例不是期望的组件种类
	ErrWrongKind = errors.New("configurator: instance does not implement the expected kind")
)

// BuildError describes one component that could not be produced. The
// enclosing parse continues without it.
type BuildError struct {
	Kind registry.Kind
	Type string
	Name string
	Line int
	Err  error
}

func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "configurator: could not create %s", e.Kind)
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, " of type %q", e.Type)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// CyclicReferenceError reports an appender that refers back to itself
// through appender-ref elements.
type CyclicReferenceError struct {
	Name string
	Path []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("configurator: cyclic appender reference %s -> %s", strings.Join(e.Path, " -> "), e.Name)
}

// Is matches ErrCyclicReference.
func (e *CyclicReferenceError) Is(target error) bool {
	return target == ErrCyclicReference
}
