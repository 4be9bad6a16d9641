package configurator

import (
	"errors"
	"fmt"
	"io"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/registry"
)

// ParseLayout implements registry.BuildContext.
func (r *run) ParseLayout(el *document.Element) (core.Layout, error) {
	v, err := r.buildComponent(registry.KindLayout, el, nil)
	if err != nil {
		return nil, err
	}
	l, ok := v.(core.Layout)
	if !ok {
		return nil, r.buildError(registry.KindLayout, el, fmt.Errorf("%w: %T is not a layout", ErrWrongKind, v))
	}
	return l, nil
}

// ParseFilter implements registry.BuildContext.
func (r *run) ParseFilter(el *document.Element) (core.Filter, error) {
	v, err := r.buildComponent(registry.KindFilter, el, nil)
	if err != nil {
		return nil, err
	}
	f, ok := v.(core.Filter)
	if !ok {
		return nil, r.buildError(registry.KindFilter, el, fmt.Errorf("%w: %T is not a filter", ErrWrongKind, v))
	}
	return f, nil
}

// parseErrorHandler 构建 error handler，并在绑定参数前告知其所属 appender
func (r *run) parseErrorHandler(el *document.Element, owner core.Appender) (core.ErrorHandler, error) {
	v, err := r.buildComponent(registry.KindErrorHandler, el, owner)
	if err != nil {
		return nil, err
	}
	h, ok := v.(core.ErrorHandler)
	if !ok {
		return nil, r.buildError(registry.KindErrorHandler, el, fmt.Errorf("%w: %T is not an error handler", ErrWrongKind, v))
	}
	return h, nil
}

// buildComponent 通用构建：实例化，绑定 param，处理扩展子元素，最后 Activate
func (r *run) buildComponent(kind registry.Kind, el *document.Element, owner core.Appender) (any, error) {
	class := r.Attr(el, attrClass)
	if class == "" {
		return nil, r.buildError(kind, el, ErrMissingClass)
	}
	r.status.Debug(fmt.Sprintf("Parsing %s of class: %q", kind, class))

	if b, ok := r.registry.Builder(kind, class); ok {
		v, err := r.callBuilder(b, el)
		if err != nil {
			return nil, r.buildError(kind, el, err)
		}
		if ao, ok := v.(core.AppenderOwner); ok && owner != nil {
			ao.SetAppender(owner)
		}
		return v, nil
	}

	v, err := r.instantiate(class)
	if err != nil {
		return nil, r.buildError(kind, el, err)
	}

	if ao, ok := v.(core.AppenderOwner); ok && owner != nil {
		ao.SetAppender(owner)
	}

	for _, child := range el.Children {
		if r.interrupted() {
			return nil, r.buildError(kind, el, r.abort)
		}

		switch {
		case child.Tag == tagParam:
			if err := r.bindParam(v, child); err != nil {
				return nil, r.buildError(kind, el, err)
			}
		case child.Tag == tagAppenderRef && kind == registry.KindErrorHandler:
			r.attachAppenderRef(v, owner, child)
		default:
			r.quietParseUnrecognizedElement(v, child)
		}
	}

	if err := activate(v); err != nil {
		return nil, r.buildError(kind, el, err)
	}
	return v, nil
}

func (r *run) buildError(kind registry.Kind, el *document.Element, err error) *BuildError {
	var be *BuildError
	if errors.As(err, &be) {
		return be
	}
	return &BuildError{
		Kind: kind,
		Type: r.quietSubst(el.Attr(attrClass)),
		Name: r.quietSubst(el.Attr(attrName)),
		Line: el.Line,
		Err:  err,
	}
}

// instantiate 按名称构造实例，构造函数的 panic 转换为错误
func (r *run) instantiate(class string) (v any, err error) {
	f, err := r.registry.Factory(class)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			v, err = nil, fmt.Errorf("constructor of %q panicked: %v", class, p)
		}
	}()
	v = f()
	if v == nil {
		return nil, fmt.Errorf("constructor of %q returned nil", class)
	}
	return v, nil
}

func (r *run) callBuilder(b registry.Builder, el *document.Element) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = nil, fmt.Errorf("builder panicked: %v", p)
		}
	}()
	v, err = b(r, el)
	if err == nil && v == nil {
		err = errors.New("builder returned nil")
	}
	return v, err
}

func activate(v any) error {
	act, ok := v.(core.Activator)
	if !ok {
		return nil
	}
	if err := act.Activate(); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	return nil
}

// closeQuietly 关闭构造出却无法使用的实例
func closeQuietly(v any) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}
