// Package propset binds string-valued properties onto Go values.
//
// A target either implements SetProperty(name, value string) error itself, or
// is a pointer to a struct whose exported fields are matched by their `param`
// tag or, failing that, by field name. Matching is case-insensitive, so the
// log4j spelling ConversionPattern binds to a field named ConversionPattern
// or conversionPattern alike.
package propset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/HorseArcher567/octolog/pkg/mapstruct"
)

// TagName 字段映射使用的标签名
const TagName = "param"

var (
	// ErrNoSuchProperty 目标没有该属性，调用方应视为告警而非失败
	ErrNoSuchProperty = errors.New("propset: no such property")

	// ErrNotStruct 反射绑定要求目标为结构体指针
	ErrNotStruct = errors.New("propset: target must be a pointer to struct")
)

// setter 组件自行实现的属性设置能力
type setter interface {
	SetProperty(name, value string) error
}

// decoder 只读，可并发使用
var decoder = mapstruct.New().
	WithTagName(TagName).
	WithFoldCase(true).
	WithStrictMode(true).
	WithErrorUnused(true)

// Set binds one property on target. Targets implementing SetProperty are
// called directly; anything else is bound reflectively. Unknown names yield
// ErrNoSuchProperty; conversion failures are returned as-is.
func Set(target any, name, value string) error {
	if s, ok := target.(setter); ok {
		return s.SetProperty(name, value)
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStruct, target)
	}

	name = strings.TrimSpace(name)
	err := decoder.Decode(map[string]any{name: value}, target)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mapstruct.ErrUnusedKey):
		return fmt.Errorf("%w: %s", ErrNoSuchProperty, name)
	default:
		return fmt.Errorf("propset: failed to set %s=%q: %w", name, value, err)
	}
}

// ParseBool accepts true/false, on/off, yes/no and 1/0, case-insensitively.
func ParseBool(s string) (bool, error) {
	return mapstruct.ParseBool(s)
}

// ToBoolean returns def unless s is exactly true or false (case-insensitive).
func ToBoolean(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}
