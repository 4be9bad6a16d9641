package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// parseXML walks the token stream so that element order and namespace
// prefixes (log4j:configuration) survive. Character data is ignored.
func parseXML(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var (
		root   *Element
		stack  []*Element
		scopes []map[string]string // namespace URL -> prefix
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			scope := make(map[string]string)
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns":
					scope[a.Value] = a.Name.Local
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					scope[a.Value] = ""
				}
			}
			scopes = append(scopes, scope)

			line, _ := dec.InputPos()
			el := &Element{Tag: qualify(t.Name, scopes), Line: line}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				el.SetAttr(a.Name.Local, a.Value)
			}
			if el.Attrs == nil {
				el.Attrs = make(map[string]string)
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse XML: multiple root elements (%s)", el.Location())
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			scopes = scopes[:len(scopes)-1]
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// qualify restores the source prefix of a namespaced name.
func qualify(name xml.Name, scopes []map[string]string) string {
	if name.Space == "" {
		return name.Local
	}
	for i := len(scopes) - 1; i >= 0; i-- {
		if prefix, ok := scopes[i][name.Space]; ok {
			if prefix == "" {
				return name.Local
			}
			return prefix + ":" + name.Local
		}
	}
	// undeclared prefix, encoding/xml leaves it in Space
	return name.Space + ":" + name.Local
}
