package configurator

import (
	"fmt"

	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/hierarchy"
)

// parseCategory 处理 logger / category 元素
func (r *run) parseCategory(el *document.Element) {
	name := r.Attr(el, attrName)
	if name == "" || name == hierarchy.RootName {
		r.status.Error(fmt.Sprintf("Logger name [%s] is reserved, element skipped. Use <root> to configure the root logger.", name),
			"element", el.Location())
		return
	}
	if class := r.Attr(el, attrClass); class != "" {
		r.status.Warn("Custom logger classes are not supported, using the default.", "logger", name, "class", class)
	}

	node := r.hierarchy.Logger(name)
	additive := toBoolean(r.Attr(el, attrAdditivity), true)
	r.status.Debug(fmt.Sprintf("Setting [%s] additivity to [%t].", name, additive))
	node.SetAdditive(additive)

	r.parseChildrenOfLoggerElement(el, node, false)
}

// parseRoot 处理 root 元素
func (r *run) parseRoot(el *document.Element) {
	r.parseChildrenOfLoggerElement(el, r.hierarchy.Root(), true)
}

// parseChildrenOfLoggerElement 每次解析都先清空 appender 列表
func (r *run) parseChildrenOfLoggerElement(el *document.Element, node *hierarchy.Node, isRoot bool) {
	node.RemoveAllAppenders()

	for _, child := range el.Children {
		if r.interrupted() {
			return
		}

		switch child.Tag {
		case tagAppenderRef:
			ref := r.Attr(child, attrRef)
			a, err := r.FindAppender(ref)
			if err != nil {
				r.status.Debug("Appender reference not attached.", "logger", node.Name(), "ref", ref, "error", err)
				continue
			}
			r.status.Debug(fmt.Sprintf("Adding appender named [%s] to logger [%s].", ref, node.Name()))
			node.AddAppender(a)
		case tagLevel, tagPriority:
			r.parseLevel(child, node, isRoot)
		case tagParam:
			if err := r.bindParam(node, child); err != nil {
				r.status.Error("Could not set logger parameter.", "logger", node.Name(), "element", child.Location(), "error", err)
			}
		default:
			r.quietParseUnrecognizedElement(nil, child)
		}
	}
}
