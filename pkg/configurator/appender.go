package configurator

import (
	"fmt"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/registry"
)

// buildAppender 构建一个 appender：插件 builder 优先，否则通用构建
func (r *run) buildAppender(el *document.Element, name string) (core.Appender, error) {
	class := r.Attr(el, attrClass)
	if class == "" {
		return nil, ErrMissingClass
	}
	r.status.Debug(fmt.Sprintf("Class name: [%s]", class), "appender", name)

	if b, ok := r.registry.Builder(registry.KindAppender, class); ok {
		v, err := r.callBuilder(b, el)
		if err != nil {
			return nil, err
		}
		a, ok := v.(core.Appender)
		if !ok {
			closeQuietly(v)
			return nil, fmt.Errorf("%w: %T is not an appender", ErrWrongKind, v)
		}
		a.SetName(name)
		return a, nil
	}

	v, err := r.instantiate(class)
	if err != nil {
		return nil, err
	}
	a, ok := v.(core.Appender)
	if !ok {
		closeQuietly(v)
		return nil, fmt.Errorf("%w: %T is not an appender", ErrWrongKind, v)
	}
	a.SetName(name)

	fail := func(err error) (core.Appender, error) {
		_ = a.Close()
		return nil, err
	}

	for _, child := range el.Children {
		if r.interrupted() {
			return fail(r.abort)
		}

		switch child.Tag {
		case tagParam:
			if err := r.bindParam(a, child); err != nil {
				return fail(err)
			}
		case tagLayout:
			r.attachLayout(a, child)
		case tagFilter:
			r.attachFilter(a, child)
		case tagErrorHandler, tagErrorHandlerAlt:
			r.attachErrorHandler(a, child)
		case tagAppenderRef:
			r.attachAppenderRef(a, a, child)
		default:
			if err := r.parseUnrecognizedElement(a, child); err != nil {
				return fail(fmt.Errorf("element %s: %w", child.Location(), err))
			}
		}
	}

	if r.abort != nil {
		return fail(r.abort)
	}
	if err := activate(a); err != nil {
		return fail(err)
	}
	return a, nil
}

func (r *run) attachLayout(a core.Appender, el *document.Element) {
	ls, ok := a.(core.LayoutSetter)
	if !ok {
		r.status.Warn("Appender does not accept a layout.", "appender", a.Name(), "element", el.Location())
		return
	}
	l, err := r.ParseLayout(el)
	if err != nil {
		r.report(registry.KindLayout, el, a.Name(), err)
		return
	}
	ls.SetLayout(l)
}

func (r *run) attachFilter(a core.Appender, el *document.Element) {
	fa, ok := a.(core.FilterAdder)
	if !ok {
		r.status.Warn("Appender does not accept filters.", "appender", a.Name(), "element", el.Location())
		return
	}
	f, err := r.ParseFilter(el)
	if err != nil {
		r.report(registry.KindFilter, el, a.Name(), err)
		return
	}
	fa.AddFilter(f)
}

func (r *run) attachErrorHandler(a core.Appender, el *document.Element) {
	hs, ok := a.(core.ErrorHandlerSetter)
	if !ok {
		r.status.Warn("Appender does not accept an error handler.", "appender", a.Name(), "element", el.Location())
		return
	}
	h, err := r.parseErrorHandler(el, a)
	if err != nil {
		r.report(registry.KindErrorHandler, el, a.Name(), err)
		return
	}
	hs.SetErrorHandler(h)
}

// attachAppenderRef 解析引用并挂到 owner 上，owner 必须实现 AppenderAttacher
func (r *run) attachAppenderRef(owner any, parent core.Appender, el *document.Element) {
	ref := r.Attr(el, attrRef)
	attacher, ok := owner.(core.AppenderAttacher)
	if !ok {
		r.status.Error("Requesting attachment of appender to a component that does not accept appenders.",
			"owner", parent.Name(), "ref", ref, "element", el.Location())
		return
	}

	child, err := r.FindAppender(ref)
	if err != nil {
		r.status.Debug("Appender reference not attached.", "owner", parent.Name(), "ref", ref, "error", err)
		return
	}
	r.status.Debug(fmt.Sprintf("Attaching appender named [%s] to [%s].", ref, parent.Name()))
	attacher.AddAppender(child)
}
