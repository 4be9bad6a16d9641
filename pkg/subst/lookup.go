package subst

import (
	"os"
	"strings"
)

// Lookup resolves a property name to its value.
type Lookup interface {
	Lookup(name string) (string, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(name string) (string, bool)

func (f LookupFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// Map 基于内存映射的查找
type Map map[string]string

func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Env 环境变量查找
type Env struct{}

func (Env) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Chain 依次查找，第一个命中即返回
type Chain []Lookup

func (c Chain) Lookup(name string) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if v, ok := l.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// Prefixed strips prefix before delegating, e.g. Prefixed("sys.", m).
func Prefixed(prefix string, l Lookup) Lookup {
	return LookupFunc(func(name string) (string, bool) {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			return "", false
		}
		return l.Lookup(rest)
	})
}
