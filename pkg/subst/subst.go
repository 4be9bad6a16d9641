// Package subst expands ${name} references in configuration values.
//
// Supported forms:
//
//	${name}            value of name
//	${name:-default}   default when name is unresolved
//	${prefix:name}     lookup through a registered prefix source (env is built in)
//	$${name}           literal ${name}
//
// Substituted values are expanded again, so properties may refer to other
// properties. A reference that cannot be resolved is left in place verbatim
// and reported; Replace never fails hard.
package subst

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolved 变量未定义
	ErrUnresolved = errors.New("subst: unresolved reference")

	// ErrMalformed 缺少右括号或变量名为空
	ErrMalformed = errors.New("subst: malformed reference")

	// ErrRecursive 变量之间存在循环引用
	ErrRecursive = errors.New("subst: recursive reference")
)

const (
	open       = "${"
	closeBrace = '}'
	defaultSep = ":-"
	prefixSep  = ':'
	maxDepth   = 32
)

// Substitutor expands references against a lookup source.
type Substitutor struct {
	lookup   Lookup
	prefixes map[string]Lookup
}

// New creates a Substitutor. A nil lookup resolves nothing.
func New(lookup Lookup) *Substitutor {
	return &Substitutor{
		lookup:   lookup,
		prefixes: map[string]Lookup{"env": Env{}},
	}
}

// WithPrefix registers a lookup for ${prefix:name} references.
func (s *Substitutor) WithPrefix(prefix string, l Lookup) *Substitutor {
	s.prefixes[prefix] = l
	return s
}

// Replace expands every reference in text. The returned string is always
// usable; err joins one error per reference left unexpanded.
func (s *Substitutor) Replace(text string) (string, error) {
	if !strings.Contains(text, open) {
		return text, nil
	}

	var errs []error
	out := s.expand(text, nil, &errs)
	return out, errors.Join(errs...)
}

// MustReplace 忽略错误，返回尽力替换后的结果
func (s *Substitutor) MustReplace(text string) string {
	out, _ := s.Replace(text)
	return out
}

func (s *Substitutor) expand(text string, stack []string, errs *[]error) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		j := strings.Index(text[i:], open)
		if j < 0 {
			b.WriteString(text[i:])
			break
		}
		start := i + j

		// $${ 转义
		if start > 0 && text[start-1] == '$' {
			b.WriteString(text[i : start-1])
			b.WriteString(open)
			i = start + len(open)
			continue
		}
		b.WriteString(text[i:start])

		end := matchingBrace(text, start+len(open))
		if end < 0 {
			*errs = append(*errs, fmt.Errorf("%w: unterminated %q", ErrMalformed, text[start:]))
			b.WriteString(text[start:])
			break
		}

		ref := text[start : end+1]
		body := text[start+len(open) : end]
		b.WriteString(s.resolve(ref, body, stack, errs))
		i = end + 1
	}
	return b.String()
}

// matchingBrace 返回与 from 之前的 "${" 配对的右括号位置，支持嵌套
func matchingBrace(text string, from int) int {
	depth := 1
	for i := from; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], open):
			depth++
			i++
		case text[i] == closeBrace:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (s *Substitutor) resolve(ref, body string, stack []string, errs *[]error) string {
	// 变量名本身也可以包含引用，例如 ${log.${env}.dir}
	name, def, hasDefault := strings.Cut(body, defaultSep)
	name = strings.TrimSpace(s.expand(name, stack, errs))
	if name == "" {
		*errs = append(*errs, fmt.Errorf("%w: empty name in %q", ErrMalformed, ref))
		return ref
	}

	for _, seen := range stack {
		if seen == name {
			*errs = append(*errs, fmt.Errorf("%w: %s -> %s", ErrRecursive, strings.Join(stack, " -> "), name))
			return ref
		}
	}
	if len(stack) >= maxDepth {
		*errs = append(*errs, fmt.Errorf("%w: depth exceeded at %s", ErrRecursive, name))
		return ref
	}

	value, ok := s.lookupName(name)
	if !ok {
		if hasDefault {
			return s.expand(def, stack, errs)
		}
		*errs = append(*errs, fmt.Errorf("%w: %s", ErrUnresolved, name))
		return ref
	}

	if !strings.Contains(value, open) {
		return value
	}
	return s.expand(value, append(stack, name), errs)
}

func (s *Substitutor) lookupName(name string) (string, bool) {
	if s.lookup != nil {
		if v, ok := s.lookup.Lookup(name); ok {
			return v, true
		}
	}
	if i := strings.IndexByte(name, prefixSep); i > 0 {
		if l, ok := s.prefixes[name[:i]]; ok && l != nil {
			return l.Lookup(name[i+1:])
		}
	}
	return "", false
}
