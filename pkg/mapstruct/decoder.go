// Package mapstruct decodes map[string]any into structs.
//
// Field names come from a struct tag (TagName) or the field name. Exported
// fields of embedded structs are promoted, and a field declared on the outer
// struct shadows a promoted one with the same name. Values may be given as
// strings throughout: numbers, booleans, durations, comma-separated slices
// and any encoding.TextUnmarshaler are parsed from text.
package mapstruct

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrArrayLengthMismatch = errors.New("array length mismatch")

	// ErrUnusedKey 输入中有键未匹配任何字段（仅 ErrorUnused 开启时返回）
	ErrUnusedKey = errors.New("mapstruct: unused key")

	// ErrInvalidTarget 目标必须是非 nil 的结构体指针
	ErrInvalidTarget = errors.New("mapstruct: target must be a non-nil pointer to struct")
)

// UnusedKeysError lists the input keys no field consumed.
type UnusedKeysError struct {
	Keys []string
}

func (e *UnusedKeysError) Error() string {
	return fmt.Sprintf("mapstruct: unused keys %v", e.Keys)
}

// Is matches ErrUnusedKey.
func (e *UnusedKeysError) Is(target error) bool {
	return target == ErrUnusedKey
}

var (
	timeType            = reflect.TypeOf(time.Time{})
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Decoder 提供 map[string]any 到 struct 的解码功能
type Decoder struct {
	// TagName 字段映射使用的标签名，为空时只用字段名
	TagName string
	// StrictMode 严格模式，字段转换失败时返回错误；否则跳过该字段
	StrictMode bool
	// FoldCase 键与字段名不区分大小写
	FoldCase bool
	// ErrorUnused 输入中有未使用的键时返回 *UnusedKeysError
	ErrorUnused bool
	// TimeLayout 优先尝试的时间格式，默认为 RFC3339
	TimeLayout string
}

// New 创建一个新的解码器，默认使用 yaml 标签
func New() *Decoder {
	return &Decoder{
		TagName:    "yaml",
		TimeLayout: time.RFC3339,
	}
}

// WithTagName 设置标签名
func (d *Decoder) WithTagName(tagName string) *Decoder {
	d.TagName = tagName
	return d
}

// WithStrictMode 设置严格模式
func (d *Decoder) WithStrictMode(strict bool) *Decoder {
	d.StrictMode = strict
	return d
}

// WithFoldCase 设置是否忽略键的大小写
func (d *Decoder) WithFoldCase(fold bool) *Decoder {
	d.FoldCase = fold
	return d
}

// WithErrorUnused 设置是否对未使用的键报错
func (d *Decoder) WithErrorUnused(on bool) *Decoder {
	d.ErrorUnused = on
	return d
}

// WithTimeLayout 设置时间格式
func (d *Decoder) WithTimeLayout(layout string) *Decoder {
	d.TimeLayout = layout
	return d
}

// Decode 将 map[string]any 解码为 target 指向的结构体
func (d *Decoder) Decode(input map[string]any, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrInvalidTarget, target)
	}

	used := make(map[string]struct{}, len(input))
	if err := d.decodeStruct(input, v.Elem(), used); err != nil {
		return err
	}

	if d.ErrorUnused && len(used) < len(input) {
		var unused []string
		for k := range input {
			if _, ok := used[k]; !ok {
				unused = append(unused, k)
			}
		}
		sort.Strings(unused)
		return &UnusedKeysError{Keys: unused}
	}
	return nil
}

// decodeStruct 先处理外层字段，再把剩余的键交给内嵌结构体；used 记录已匹配的原始键
func (d *Decoder) decodeStruct(input map[string]any, target reflect.Value, used map[string]struct{}) error {
	t := target.Type()
	keys := d.index(input)

	var embedded []int
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if d.promoted(field) {
			embedded = append(embedded, i)
			continue
		}

		fieldValue := target.Field(i)
		if !fieldValue.CanSet() {
			continue
		}
		name := d.getFieldName(field)
		if name == "" {
			continue
		}
		key, ok := d.lookup(keys, name)
		if !ok {
			continue
		}
		used[key] = struct{}{}

		if err := d.decodeField(input[key], fieldValue); err != nil {
			if err := d.handleDecodeError(err, name); err != nil {
				return err
			}
		}
	}

	for _, i := range embedded {
		rest := make(map[string]any)
		for k, v := range input {
			if _, ok := used[k]; !ok {
				rest[k] = v
			}
		}
		if len(rest) == 0 {
			return nil
		}
		// 未导出的内嵌结构体本身不可设置，但其导出字段可以
		if err := d.decodeStruct(rest, target.Field(i), used); err != nil {
			return d.handleDecodeError(err, t.Field(i).Name)
		}
	}
	return nil
}

// promoted 无标签的内嵌结构体，字段提升到外层
func (d *Decoder) promoted(field reflect.StructField) bool {
	if !field.Anonymous || field.Type.Kind() != reflect.Struct || field.Type == timeType {
		return false
	}
	return d.TagName == "" || field.Tag.Get(d.TagName) == ""
}

// index 字段名到原始键的映射
func (d *Decoder) index(input map[string]any) map[string]string {
	keys := make(map[string]string, len(input))
	for k := range input {
		name := strings.TrimSpace(k)
		if d.FoldCase {
			name = strings.ToLower(name)
		}
		if _, dup := keys[name]; !dup {
			keys[name] = k
		}
	}
	return keys
}

func (d *Decoder) lookup(keys map[string]string, name string) (string, bool) {
	if d.FoldCase {
		name = strings.ToLower(name)
	}
	k, ok := keys[name]
	return k, ok
}

// handleDecodeError 数组长度不匹配始终报错，其余错误只在严格模式下返回
func (d *Decoder) handleDecodeError(err error, fieldName string) error {
	if errors.Is(err, ErrArrayLengthMismatch) || errors.Is(err, ErrUnusedKey) || d.StrictMode {
		return fmt.Errorf("failed to decode field %s: %w", fieldName, err)
	}
	return nil
}

// getFieldName 获取字段的映射名称，"-" 表示忽略
func (d *Decoder) getFieldName(field reflect.StructField) string {
	if d.TagName == "" {
		return field.Name
	}
	tag := field.Tag.Get(d.TagName)
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return field.Name
}

// decodeField 解码单个字段
func (d *Decoder) decodeField(input any, target reflect.Value) error {
	if input == nil {
		return nil
	}
	targetType := target.Type()

	if reflect.TypeOf(input) == targetType {
		target.Set(reflect.ValueOf(input))
		return nil
	}

	if targetType == timeType {
		return d.decodeToTime(input, target)
	}

	if text, ok := input.(string); ok {
		if target.CanAddr() && target.Addr().Type().Implements(textUnmarshalerType) {
			return target.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text))
		}
		if targetType == durationType {
			return decodeDuration(text, target)
		}
	}

	switch targetType.Kind() {
	case reflect.Ptr:
		elem := reflect.New(targetType.Elem())
		if err := d.decodeField(input, elem.Elem()); err != nil {
			return err
		}
		target.Set(elem)
		return nil
	case reflect.Slice:
		return d.decodeToSlice(input, target)
	case reflect.Array:
		return d.decodeToArray(input, target)
	case reflect.Struct:
		m, ok := input.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot decode %T to struct", input)
		}
		// 嵌套结构体的键不计入外层的 used
		return d.decodeStruct(m, target, make(map[string]struct{}, len(m)))
	default:
		return decodeBasic(input, target)
	}
}

// decodeDuration 接受 Go 时长（"1.5s"），纯数字按毫秒处理
func decodeDuration(text string, target reflect.Value) error {
	text = strings.TrimSpace(text)
	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		target.SetInt(int64(time.Duration(ms) * time.Millisecond))
		return nil
	}
	dur, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	target.SetInt(int64(dur))
	return nil
}

func (d *Decoder) decodeToSlice(input any, target reflect.Value) error {
	items, ok := toSlice(input)
	if !ok {
		return fmt.Errorf("cannot decode %T to slice", input)
	}

	slice := reflect.MakeSlice(target.Type(), len(items), len(items))
	for i, item := range items {
		if err := d.decodeField(item, slice.Index(i)); err != nil {
			return fmt.Errorf("failed to decode slice element %d: %w", i, err)
		}
	}
	target.Set(slice)
	return nil
}

func (d *Decoder) decodeToArray(input any, target reflect.Value) error {
	items, ok := toSlice(input)
	if !ok {
		return fmt.Errorf("cannot decode %T to array", input)
	}
	if n := target.Len(); len(items) != n {
		return fmt.Errorf("%w: expected %d, got %d", ErrArrayLengthMismatch, n, len(items))
	}

	for i, item := range items {
		elem := reflect.New(target.Type().Elem()).Elem()
		if err := d.decodeField(item, elem); err != nil {
			return fmt.Errorf("failed to decode array element %d: %w", i, err)
		}
		target.Index(i).Set(elem)
	}
	return nil
}

// decodeToTime 字符串按 TimeLayout 及常见格式解析，数字视为 Unix 秒
func (d *Decoder) decodeToTime(input any, target reflect.Value) error {
	switch v := input.(type) {
	case string:
		layouts := []string{
			time.RFC3339Nano,
			"2006-01-02 15:04:05Z07:00",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			"2006-01-02",
		}
		if d.TimeLayout != "" {
			layouts = append([]string{d.TimeLayout}, layouts...)
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				target.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return fmt.Errorf("cannot parse time string: %s", v)
	case int64:
		target.Set(reflect.ValueOf(time.Unix(v, 0)))
		return nil
	case int:
		target.Set(reflect.ValueOf(time.Unix(int64(v), 0)))
		return nil
	case float64:
		sec := int64(v)
		target.Set(reflect.ValueOf(time.Unix(sec, int64((v-float64(sec))*1e9))))
		return nil
	default:
		return fmt.Errorf("cannot decode %T to time.Time", input)
	}
}

// decodeBasic 数值、布尔与字符串之间的转换，超出目标类型范围时报错
func decodeBasic(input any, target reflect.Value) error {
	in := reflect.ValueOf(input)

	switch target.Kind() {
	case reflect.String:
		if b, ok := input.([]byte); ok {
			target.SetString(string(b))
		} else {
			target.SetString(fmt.Sprint(input))
		}
		return nil

	case reflect.Bool:
		switch in.Kind() {
		case reflect.Bool:
			target.SetBool(in.Bool())
		case reflect.String:
			b, err := ParseBool(in.String())
			if err != nil {
				return err
			}
			target.SetBool(b)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			target.SetBool(in.Int() != 0)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			target.SetBool(in.Uint() != 0)
		case reflect.Float32, reflect.Float64:
			target.SetBool(in.Float() != 0)
		default:
			return fmt.Errorf("cannot decode %T to bool", input)
		}
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch in.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n = in.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n = int64(in.Uint())
		case reflect.Float32, reflect.Float64:
			n = int64(in.Float())
		case reflect.Bool:
			if in.Bool() {
				n = 1
			}
		case reflect.String:
			parsed, err := strconv.ParseInt(strings.TrimSpace(in.String()), 0, 64)
			if err != nil {
				return fmt.Errorf("cannot parse string as int: %w", err)
			}
			n = parsed
		default:
			return fmt.Errorf("cannot decode %T to int", input)
		}
		if target.OverflowInt(n) {
			return fmt.Errorf("value %d out of range for %s", n, target.Type())
		}
		target.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		switch in.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n = in.Uint()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if in.Int() < 0 {
				return fmt.Errorf("cannot decode negative %T to uint", input)
			}
			n = uint64(in.Int())
		case reflect.Float32, reflect.Float64:
			if in.Float() < 0 {
				return fmt.Errorf("cannot decode negative %T to uint", input)
			}
			n = uint64(in.Float())
		case reflect.Bool:
			if in.Bool() {
				n = 1
			}
		case reflect.String:
			parsed, err := strconv.ParseUint(strings.TrimSpace(in.String()), 0, 64)
			if err != nil {
				return fmt.Errorf("cannot parse string as uint: %w", err)
			}
			n = parsed
		default:
			return fmt.Errorf("cannot decode %T to uint", input)
		}
		if target.OverflowUint(n) {
			return fmt.Errorf("value %d out of range for %s", n, target.Type())
		}
		target.SetUint(n)
		return nil

	case reflect.Float32, reflect.Float64:
		var f float64
		switch in.Kind() {
		case reflect.Float32, reflect.Float64:
			f = in.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(in.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(in.Uint())
		case reflect.Bool:
			if in.Bool() {
				f = 1
			}
		case reflect.String:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(in.String()), target.Type().Bits())
			if err != nil {
				return fmt.Errorf("cannot parse string as float: %w", err)
			}
			f = parsed
		default:
			return fmt.Errorf("cannot decode %T to float", input)
		}
		target.SetFloat(f)
		return nil

	default:
		return fmt.Errorf("unsupported type: %s", target.Type())
	}
}

// toSlice 把切片或逗号分隔的字符串转换为 []any
func toSlice(input any) ([]any, bool) {
	switch v := input.(type) {
	case []any:
		return v, true
	case string:
		var items []any
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return items, true
	}

	value := reflect.ValueOf(input)
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, value.Len())
	for i := range items {
		items[i] = value.Index(i).Interface()
	}
	return items, true
}

// ParseBool accepts true/false, on/off, yes/no, t/f and 1/0, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1", "t":
		return true, nil
	case "false", "off", "no", "0", "f":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
