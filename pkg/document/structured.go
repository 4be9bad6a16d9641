package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// member 有序映射中的一项
type member struct {
	key  string
	val  any
	line int
}

// object 保持键顺序的映射
type object []member

// parseYAML 解析 YAML，基于 yaml.Node 以保留键顺序和行号
func parseYAML(data []byte) (*Element, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	v, err := fromYAML(doc.Content[0])
	if err != nil {
		return nil, err
	}
	return rootOf(v)
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		obj := make(object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			obj = append(obj, member{key: k.Value, val: val, line: k.Line})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("failed to parse YAML: unexpected node kind %d at line %d", n.Kind, n.Line)
	}
}

// parseJSON 基于 token 流解析 JSON，保留键顺序
func parseJSON(data []byte) (*Element, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSON(dec)
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return rootOf(v)
}

func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var obj object
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				obj = append(obj, member{key: key, val: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			var items []any
			for dec.More() {
				val, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case nil:
		return "", nil
	default:
		return scalar(t), nil
	}
}

// parseTOML 解析 TOML。TOML 表没有稳定顺序，键按字典序排列
func parseTOML(data []byte) (*Element, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return rootOf(fromMap(raw))
}

func fromMap(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := make(object, 0, len(keys))
		for _, k := range keys {
			obj = append(obj, member{key: k, val: fromMap(t[k])})
		}
		return obj
	case []map[string]any:
		items := make([]any, 0, len(t))
		for _, m := range t {
			items = append(items, fromMap(m))
		}
		return items
	case []any:
		items := make([]any, 0, len(t))
		for _, item := range t {
			items = append(items, fromMap(item))
		}
		return items
	default:
		return scalar(t)
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}

// rootOf 顶层必须是只有一个键的映射，该键即根元素标签
func rootOf(v any) (*Element, error) {
	obj, ok := v.(object)
	if !ok || len(obj) == 0 {
		return nil, ErrEmptyDocument
	}
	if len(obj) > 1 {
		return nil, fmt.Errorf("document: expected a single root key, found %d", len(obj))
	}

	els, err := build(obj[0].key, obj[0].val, obj[0].line)
	if err != nil {
		return nil, err
	}
	if len(els) != 1 {
		return nil, fmt.Errorf("document: root <%s> must be a single mapping", obj[0].key)
	}
	return els[0], nil
}

// build converts one keyed value into elements. Mappings become a single
// element; lists become one element per item.
func build(tag string, v any, line int) ([]*Element, error) {
	switch t := v.(type) {
	case object:
		el := &Element{Tag: tag, Attrs: make(map[string]string), Line: line}
		for _, m := range t {
			if s, ok := m.val.(string); ok {
				el.SetAttr(m.key, s)
				continue
			}
			children, err := build(m.key, m.val, m.line)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, children...)
		}
		return []*Element{el}, nil
	case []any:
		var out []*Element
		for i, item := range t {
			if _, ok := item.(string); ok {
				return nil, fmt.Errorf("document: <%s> item %d must be a mapping", tag, i)
			}
			els, err := build(tag, item, line)
			if err != nil {
				return nil, err
			}
			out = append(out, els...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("document: <%s> must be a mapping or a list", tag)
	}
}
