package configurator

import (
	"fmt"
	"slices"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/registry"
)

// FindAppender implements registry.BuildContext. It returns the cached
// appender for name, or builds the first appender element in the document
// that carries that name. Each name is resolved at most once per run.
func (r *run) FindAppender(name string) (core.Appender, error) {
	// 无名 appender 在顶层已被跳过，空引用不能把它找回来
	if name == "" {
		r.status.Error("Appender reference without a name ignored.")
		return nil, fmt.Errorf("%w: empty name", ErrAppenderNotFound)
	}

	if a, ok := r.appenders[name]; ok {
		if a == nil {
			return nil, fmt.Errorf("%w: %q", ErrAppenderUnavailable, name)
		}
		return a, nil
	}

	if slices.Contains(r.building, name) {
		err := &CyclicReferenceError{Name: name, Path: slices.Clone(r.building)}
		r.status.Error("Appender reference ignored.", "appender", name, "error", err)
		return nil, err
	}

	el := r.findAppenderElement(name)
	if el == nil {
		r.appenders[name] = nil
		r.status.Error(fmt.Sprintf("No appender named [%s] could be found.", name))
		return nil, fmt.Errorf("%w: %q", ErrAppenderNotFound, name)
	}

	if a := r.buildNamed(name, el); a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAppenderUnavailable, name)
}

// findAppenderElement 深度优先扫描整个文档
func (r *run) findAppenderElement(name string) *document.Element {
	var found *document.Element
	r.doc.Walk(func(el *document.Element) bool {
		if found != nil {
			return false
		}
		if el.Tag == tagAppender && r.quietSubst(el.Attr(attrName)) == name {
			found = el
			return false
		}
		return true
	})
	return found
}

// parseTopLevelAppender 处理文档顶层的 appender 元素
func (r *run) parseTopLevelAppender(el *document.Element) {
	name := r.Attr(el, attrName)
	if name == "" {
		r.status.Error("Appender without a name, skipped.", "element", el.Location())
		return
	}

	if _, seen := r.appenders[name]; seen {
		if origin := r.origins[name]; origin != nil && origin != el {
			r.status.Warn(fmt.Sprintf("Duplicate appender name [%s], keeping the first declaration.", name),
				"element", el.Location(), "first", origin.Location())
		}
		return
	}
	r.buildNamed(name, el)
}

// buildNamed 构建并缓存；失败时缓存 nil 并只报告一次
func (r *run) buildNamed(name string, el *document.Element) core.Appender {
	r.origins[name] = el
	r.building = append(r.building, name)
	a, err := r.buildAppender(el, name)
	r.building = r.building[:len(r.building)-1]

	if err != nil {
		r.appenders[name] = nil
		r.report(registry.KindAppender, el, name, err)
		return nil
	}

	r.appenders[name] = a
	r.order = append(r.order, name)
	r.status.Debug(fmt.Sprintf("Appender [%s] created.", name), "class", r.quietSubst(el.Attr(attrClass)))
	return a
}

// report 记录一个构建失败的组件
func (r *run) report(kind registry.Kind, el *document.Element, name string, err error) *BuildError {
	r.checkAbort(err)
	be, ok := err.(*BuildError)
	if !ok {
		be = &BuildError{
			Kind: kind,
			Type: r.quietSubst(el.Attr(attrClass)),
			Name: name,
			Line: el.Line,
			Err:  err,
		}
	}
	r.status.Error(be.Error(), "element", el.Location())
	return be
}
