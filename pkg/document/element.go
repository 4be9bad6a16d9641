// Package document defines the parse tree consumed by the configurator and
// the parsers that produce it from XML, YAML, JSON and TOML sources.
//
// All formats share one shape: an Element has a tag, string attributes and an
// ordered list of child elements. Structured formats (YAML/JSON/TOML) map
// scalar keys to attributes and nested maps or lists to child elements.
package document

import (
	"fmt"
	"strings"
)

// Element 配置树中的一个节点
type Element struct {
	// Tag 标签名，区分大小写
	Tag string

	// Attrs 属性（未经变量替换的原始值）
	Attrs map[string]string

	// Children 子元素，保持文档顺序
	Children []*Element

	// Line 元素在源文档中的行号，未知时为 0
	Line int

	// keys 保持属性声明顺序，仅用于输出
	keys []string
}

// NewElement creates an element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag, Attrs: make(map[string]string)}
}

// Attr returns the raw attribute value, or "" when absent.
func (e *Element) Attr(name string) string {
	if e == nil || e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is declared.
func (e *Element) HasAttr(name string) bool {
	if e == nil || e.Attrs == nil {
		return false
	}
	_, ok := e.Attrs[name]
	return ok
}

// SetAttr sets an attribute and returns the element for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	if _, ok := e.Attrs[name]; !ok {
		e.keys = append(e.keys, name)
	}
	e.Attrs[name] = value
	return e
}

// Append adds children and returns the element for chaining.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// AttrNames returns attribute names in declaration order.
func (e *Element) AttrNames() []string {
	if len(e.keys) == len(e.Attrs) {
		return append([]string(nil), e.keys...)
	}
	names := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		names = append(names, k)
	}
	return names
}

// FindAll returns every descendant (depth-first, document order) with the given tag.
// The receiver itself is not included.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) bool {
		if el != e && el.Tag == tag {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Walk visits e and its descendants depth-first. Returning false from fn
// skips the children of the visited element.
func (e *Element) Walk(fn func(el *Element) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Location renders the element for diagnostics, e.g. `<appender name="A"> (line 3)`.
func (e *Element) Location() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.Tag)
	for _, k := range []string{"name", "class", "ref"} {
		if v, ok := e.Attrs[k]; ok {
			fmt.Fprintf(&b, " %s=%q", k, v)
		}
	}
	b.WriteString(">")
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	return b.String()
}

// String is an alias of Location.
func (e *Element) String() string {
	return e.Location()
}
