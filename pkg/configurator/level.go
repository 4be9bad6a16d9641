package configurator

import (
	"fmt"

	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/hierarchy"
	"github.com/HorseArcher567/octolog/pkg/level"
	"github.com/HorseArcher567/octolog/pkg/registry"
)

// parseLevel 处理 level / priority 元素
func (r *run) parseLevel(el *document.Element, node *hierarchy.Node, isRoot bool) {
	name := node.Name()
	if isRoot {
		name = hierarchy.RootName
	}

	value := r.Attr(el, attrValue)
	r.status.Debug(fmt.Sprintf("Level value for %s is [%s].", name, value))

	if level.IsInherited(value) {
		if isRoot {
			r.status.Error("Root level cannot be inherited. Ignoring directive.", "element", el.Location())
			return
		}
		if err := node.ClearLevel(); err != nil {
			r.status.Error("Could not clear level.", "logger", name, "error", err)
		}
		r.status.Debug(fmt.Sprintf("%s level set to inherited.", name))
		return
	}

	var lvl level.Level
	class := r.Attr(el, attrClass)
	if class == "" {
		if _, err := level.Parse(value); err != nil {
			r.status.Warn(fmt.Sprintf("Unknown level [%s] for %s, using %s.", value, name, level.Debug), "error", err)
		}
		lvl = level.ToLevel(value, level.Debug)
	} else {
		r.status.Debug(fmt.Sprintf("Desired Level sub-class: [%s]", class))
		parse, ok := r.registry.LevelParser(class)
		if !ok {
			r.status.Error("Could not create level.", "logger", name, "value", value,
				"error", &registry.UnknownTypeError{Name: class})
			return
		}
		l, err := parse(value)
		if err != nil {
			r.status.Error("Could not create level.", "logger", name, "value", value, "class", class, "error", err)
			return
		}
		lvl = l
	}

	node.SetLevel(lvl)
	r.status.Debug(fmt.Sprintf("%s level set to %s", name, lvl))
}
