package configurator

import (
	"context"
	"errors"
	"fmt"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/hierarchy"
	"github.com/HorseArcher567/octolog/pkg/propset"
	"github.com/HorseArcher567/octolog/pkg/registry"
	"github.com/HorseArcher567/octolog/pkg/status"
	"github.com/HorseArcher567/octolog/pkg/subst"
)

var toBoolean = propset.ToBoolean

// run 一次 Configure 调用的全部状态
type run struct {
	ctx       context.Context
	doc       *document.Element
	registry  *registry.Registry
	subst     *subst.Substitutor
	status    *status.Reporter
	hierarchy *hierarchy.Hierarchy
	handler   core.ElementHandler

	// appenders 按名称缓存，nil 表示查找或构建失败
	appenders map[string]core.Appender
	order     []string
	origins   map[string]*document.Element
	building  []string

	abort error
}

var _ registry.BuildContext = (*run)(nil)

func (c *Configurator) newRun(ctx context.Context, doc *document.Element) *run {
	s := subst.New(c.lookup)
	for prefix, l := range c.prefixes {
		s.WithPrefix(prefix, l)
	}

	rep := c.reporter
	if rep == nil {
		rep = status.New(c.logger)
	}
	h := c.hierarchy
	if h == nil {
		h = hierarchy.New()
	}

	return &run{
		ctx:       ctx,
		doc:       doc,
		registry:  c.registry,
		subst:     s,
		status:    rep,
		hierarchy: h,
		handler:   c.handler,
		appenders: make(map[string]core.Appender),
		origins:   make(map[string]*document.Element),
	}
}

// interrupted 检查 context，一旦取消就记录终止原因
func (r *run) interrupted() bool {
	if r.abort != nil {
		return true
	}
	if err := r.ctx.Err(); err != nil {
		r.abort = err
		return true
	}
	return false
}

// checkAbort 组件错误包装了 context 错误时终止整个解释过程
func (r *run) checkAbort(err error) {
	if r.abort != nil || err == nil {
		return
	}
	switch {
	case errors.Is(err, context.Canceled):
		r.abort = context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		r.abort = context.DeadlineExceeded
	}
}

// Context implements registry.BuildContext.
func (r *run) Context() context.Context {
	return r.ctx
}

// Subst implements registry.BuildContext. Unresolved references are kept
// verbatim and reported as warnings.
func (r *run) Subst(value string) string {
	out, err := r.subst.Replace(value)
	if err != nil {
		r.status.Warn("Could not perform variable substitution.", "value", value, "error", err)
	}
	return out
}

// quietSubst 扫描文档时使用，不产生诊断
func (r *run) quietSubst(value string) string {
	return r.subst.MustReplace(value)
}

// Attr implements registry.BuildContext.
func (r *run) Attr(el *document.Element, name string) string {
	return r.Subst(el.Attr(name))
}

// Warn implements registry.BuildContext.
func (r *run) Warn(msg string, args ...any) {
	r.status.Warn(msg, args...)
}

// SetParameter implements registry.BuildContext. The name is substituted;
// the value is unescaped first and then substituted.
func (r *run) SetParameter(target any, param *document.Element) error {
	name := r.Attr(param, attrName)
	value := r.Subst(subst.Unescape(param.Attr(attrValue)))
	if err := propset.Set(target, name, value); err != nil {
		return fmt.Errorf("param %q: %w", name, err)
	}
	return nil
}

// bindParam 未知属性只是警告，其它绑定错误返回给调用方
func (r *run) bindParam(target any, param *document.Element) error {
	err := r.SetParameter(target, param)
	if errors.Is(err, propset.ErrNoSuchProperty) {
		r.status.Warn("Unknown property.", "element", param.Location(), "target", fmt.Sprintf("%T", target), "error", err)
		return nil
	}
	return err
}

// parseUnrecognizedElement 交给组件自己的 ElementHandler；未处理时记录警告
func (r *run) parseUnrecognizedElement(owner any, el *document.Element) error {
	handled := false
	if h, ok := owner.(core.ElementHandler); ok && h != nil {
		var err error
		handled, err = h.HandleElement(el)
		if err != nil {
			return err
		}
	}
	if !handled {
		r.status.Warn("Unrecognized element.", "element", el.Location())
	}
	return nil
}

// quietParseUnrecognizedElement 与上面相同，但 hook 的错误只记录不传播
func (r *run) quietParseUnrecognizedElement(owner any, el *document.Element) {
	if err := r.parseUnrecognizedElement(owner, el); err != nil {
		r.status.Error("Error in extension content.", "element", el.Location(), "error", err)
		r.checkAbort(err)
	}
}

// closeAll 按构建逆序关闭已创建的 appender
func (r *run) closeAll() {
	for i := len(r.order) - 1; i >= 0; i-- {
		if a := r.appenders[r.order[i]]; a != nil {
			if err := a.Close(); err != nil {
				r.status.Warn("Failed to close appender.", "appender", r.order[i], "error", err)
			}
		}
	}
}

// built 返回成功构建的 appender
func (r *run) built() map[string]core.Appender {
	out := make(map[string]core.Appender, len(r.order))
	for _, name := range r.order {
		out[name] = r.appenders[name]
	}
	return out
}
