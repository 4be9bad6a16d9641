package api

import (
	"fmt"
	"time"
)

// ServerConfig 是管理 HTTP API 服务器配置。
//
// 示例配置:
// admin:
//
//	appName: octolog
//	host: 127.0.0.1
//	port: 8080
//	mode: release
//	readTimeout: 5s
//	writeTimeout: 10s
type ServerConfig struct {
	// AppName 应用名称，用于日志等标识。
	AppName string `yaml:"appName" json:"appName" toml:"appName"`

	// Host 监听地址，默认 0.0.0.0
	Host string `yaml:"host" json:"host" toml:"host"`

	// Port 监听端口；0 表示随机端口（测试用），小于 0 非法
	Port int `yaml:"port" json:"port" toml:"port"`

	// Mode Gin 运行模式: debug / release / test。
	Mode string `yaml:"mode" json:"mode" toml:"mode"`

	// EnablePProf 是否启用 pprof 路由。
	EnablePProf bool `yaml:"enablePProf" json:"enablePProf" toml:"enablePProf"`

	ReadTimeout  time.Duration `yaml:"readTimeout" json:"readTimeout" toml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout" json:"writeTimeout" toml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout" json:"idleTimeout" toml:"idleTimeout"`
}

// Addr returns host:port.
func (c *ServerConfig) Addr() (string, error) {
	if c.Port < 0 {
		return "", fmt.Errorf("api: invalid port %d", c.Port)
	}
	host := c.Host
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, c.Port), nil
}
