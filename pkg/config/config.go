// Package config loads property files (JSON, YAML, TOML) into a nested map.
// It serves two roles: the source of the application settings, and a
// subst.Lookup that feeds ${name} references in logging documents.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HorseArcher567/octolog/pkg/subst"
)

// Config 配置管理器
type Config struct {
	data map[string]any
	mu   sync.RWMutex
}

var _ subst.Lookup = (*Config)(nil)

// New 创建一个新的配置管理器
func New() *Config {
	return &Config{
		data: make(map[string]any),
	}
}

// Load 从文件加载配置并合并到现有配置
func (c *Config) Load(filepath string) error {
	data, err := parseFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to load config from file %s: %w", filepath, err)
	}

	c.mu.Lock()
	c.data = mergeMaps(c.data, data)
	c.mu.Unlock()
	return nil
}

// LoadBytes 从字节流加载配置并合并到现有配置
func (c *Config) LoadBytes(data []byte, format Format) error {
	parsed, err := parse(data, format)
	if err != nil {
		return fmt.Errorf("failed to load config from bytes: %w", err)
	}

	c.mu.Lock()
	c.data = mergeMaps(c.data, parsed)
	c.mu.Unlock()
	return nil
}

// MergeMap 合并map配置，新值覆盖旧值
func (c *Config) MergeMap(data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = mergeMaps(c.data, data)
}

// Set 设置配置值，支持路径访问（如 "database.host"）
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := strings.Split(key, ".")
	current := c.data
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// Get 获取配置值，支持路径访问
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := strings.Split(key, ".")
	current := c.data
	for _, k := range keys[:len(keys)-1] {
		m, ok := current[k].(map[string]any)
		if !ok {
			return nil, false
		}
		current = m
	}
	val, exists := current[keys[len(keys)-1]]
	return val, exists
}

// Has 检查配置项是否存在
func (c *Config) Has(key string) bool {
	_, exists := c.Get(key)
	return exists
}

// GetString returns the value as a string. Scalars are formatted; maps and
// slices yield "".
func (c *Config) GetString(key string) string {
	s, _ := c.Lookup(key)
	return s
}

// GetInt 获取整数配置值
func (c *Config) GetInt(key string) int {
	if val, ok := c.Get(key); ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case string:
			n, _ := strconv.Atoi(v)
			return n
		}
	}
	return 0
}

// GetBool 获取布尔配置值
func (c *Config) GetBool(key string) bool {
	if val, ok := c.Get(key); ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			b, _ := strconv.ParseBool(v)
			return b
		}
	}
	return false
}

// GetDuration 获取时长配置值，如 "5s"
func (c *Config) GetDuration(key string) time.Duration {
	d, _ := time.ParseDuration(c.GetString(key))
	return d
}

// GetStringWithDefault 获取字符串配置值，如果不存在则返回默认值
func (c *Config) GetStringWithDefault(key string, defaultValue string) string {
	if s, ok := c.Lookup(key); ok {
		return s
	}
	return defaultValue
}

// GetAll 获取所有配置数据的深拷贝
func (c *Config) GetAll() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return copyMap(c.data)
}

// Lookup implements subst.Lookup over scalar values, so a property file can
// feed ${db.host} in a logging document.
func (c *Config) Lookup(name string) (string, bool) {
	val, ok := c.Get(name)
	if !ok {
		return "", false
	}
	switch v := val.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case time.Time:
		return v.Format(time.RFC3339), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

// Unmarshal 将配置解码到结构体，字段使用 yaml tag
func (c *Config) Unmarshal(target any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return decode(c.data, target)
}

// UnmarshalKey 将指定key的配置解码到结构体
func (c *Config) UnmarshalKey(key string, target any) error {
	val, ok := c.Get(key)
	if !ok {
		return fmt.Errorf("config key '%s' not found", key)
	}

	if _, ok := val.(map[string]any); !ok {
		return fmt.Errorf("config key '%s' cannot be unmarshaled to struct (type: %T, expected: map/object)", key, val)
	}
	if err := decode(val, target); err != nil {
		return fmt.Errorf("failed to unmarshal config key '%s': %w", key, err)
	}
	return nil
}

// WriteToFile 将配置导出到文件，格式由扩展名决定
func (c *Config) WriteToFile(filepath string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return writeFile(filepath, c.data)
}

// expandEnv 对所有字符串值做 ${VAR} / ${VAR:-default} 替换
func (c *Config) expandEnv() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := subst.New(subst.Env{})
	var errs []error
	expandValues(c.data, s, &errs)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func expandValues(v any, s *subst.Substitutor, errs *[]error) any {
	switch t := v.(type) {
	case string:
		out, err := s.Replace(t)
		if err != nil {
			*errs = append(*errs, err)
		}
		return out
	case map[string]any:
		for k, item := range t {
			t[k] = expandValues(item, s, errs)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = expandValues(item, s, errs)
		}
		return t
	default:
		return v
	}
}

// decode 经由 YAML 中转，使结构体可以复用 yaml tag 与 time.Duration 解析
func decode(data any, target any) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	return nil
}

// mergeMaps 合并两个map（递归合并）
func mergeMaps(dst, src map[string]any) map[string]any {
	result := copyMap(dst)

	for key, srcVal := range src {
		if dstMap, ok := result[key].(map[string]any); ok {
			if srcMap, ok := srcVal.(map[string]any); ok {
				result[key] = mergeMaps(dstMap, srcMap)
				continue
			}
		}
		result[key] = srcVal
	}

	return result
}

// copyMap 深拷贝map
func copyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))

	for key, val := range src {
		if m, ok := val.(map[string]any); ok {
			dst[key] = copyMap(m)
		} else {
			dst[key] = val
		}
	}

	return dst
}
