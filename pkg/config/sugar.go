package config

import (
	"fmt"
)

// Load 加载一个或多个配置文件（后者覆盖前者），并替换 ${ENV_VAR} / ${ENV_VAR:-default}
func Load(paths ...string) (*Config, error) {
	cfg, err := LoadWithoutEnv(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.expandEnv(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadWithoutEnv 加载配置文件但不替换环境变量
func LoadWithoutEnv(paths ...string) (*Config, error) {
	cfg := New()
	for _, path := range paths {
		if err := cfg.Load(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadFromBytes 从字节流加载配置
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	cfg := New()
	if err := cfg.LoadBytes(data, format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Unmarshal 加载配置（替换环境变量）并解析到结构体
func Unmarshal(path string, target any) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Unmarshal(target); err != nil {
		return fmt.Errorf("config: failed to unmarshal config from %s: %w", path, err)
	}
	return nil
}

// MustLoad 加载配置文件，失败时 panic，适用于程序启动阶段
func MustLoad(paths ...string) *Config {
	cfg, err := Load(paths...)
	if err != nil {
		panic(fmt.Errorf("config: failed to load config from %v: %w", paths, err))
	}
	return cfg
}

// MustUnmarshal 加载配置并直接解析到结构体，失败时 panic
func MustUnmarshal(path string, target any) {
	if err := Unmarshal(path, target); err != nil {
		panic(err)
	}
}
