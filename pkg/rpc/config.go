package rpc

import (
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/HorseArcher567/octolog/pkg/rpc/middleware"
)

// ClientConfig is the configuration for a health-check client.
type ClientConfig struct {
	// Target is "host:port" of the health server.
	Target string `yaml:"target" json:"target" toml:"target"`

	// EnableKeepalive enables keepalive pings.
	EnableKeepalive bool `yaml:"enableKeepalive" json:"enableKeepalive" toml:"enableKeepalive"`

	// KeepaliveTime is the keepalive time interval (default: 10 seconds).
	KeepaliveTime time.Duration `yaml:"keepaliveTime" json:"keepaliveTime" toml:"keepaliveTime"`

	// KeepaliveTimeout is the keepalive timeout (default: 3 seconds).
	KeepaliveTimeout time.Duration `yaml:"keepaliveTimeout" json:"keepaliveTimeout" toml:"keepaliveTimeout"`
}

// Validate validates the client configuration.
func (c *ClientConfig) Validate() error {
	if c.Target == "" {
		return errors.New("rpc: target is required")
	}
	if _, _, err := net.SplitHostPort(c.Target); err != nil {
		return fmt.Errorf("rpc: invalid target format: %w (expected 'host:port')", err)
	}
	return nil
}

// Normalize sets default values for the client configuration.
func (c *ClientConfig) Normalize() {
	if c.KeepaliveTime == 0 {
		c.KeepaliveTime = 10 * time.Second
	}
	if c.KeepaliveTimeout == 0 {
		c.KeepaliveTimeout = 3 * time.Second
	}
}

// BuildDialOptions builds gRPC dial options from the client configuration.
func (c *ClientConfig) BuildDialOptions() []grpc.DialOption {
	c.Normalize()

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(middleware.UnaryClientLogging()),
	}

	if c.EnableKeepalive {
		opts = append(opts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:    c.KeepaliveTime,
			Timeout: c.KeepaliveTimeout,
		}))
	}

	return opts
}

// ServerConfig is the configuration for the health server.
//
// 示例配置:
// health:
//
//	name: octolog
//	host: 127.0.0.1
//	port: 9090
//	enableReflection: true
type ServerConfig struct {
	// Name is the service name reported alongside the overall ("") status.
	Name string `yaml:"name" json:"name" toml:"name"`

	// Host is the listen address (e.g., 0.0.0.0, 127.0.0.1).
	Host string `yaml:"host" json:"host" toml:"host"`

	// Port is the listen port. 0 picks a free port.
	Port int `yaml:"port" json:"port" toml:"port"`

	// EnableReflection enables gRPC reflection for grpcurl debugging.
	EnableReflection bool `yaml:"enableReflection" json:"enableReflection" toml:"enableReflection"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Name == "" {
		return errors.New("rpc: server name is required")
	}
	if c.Port < 0 {
		return fmt.Errorf("rpc: invalid port %d", c.Port)
	}
	return nil
}

// Addr returns host:port, defaulting the host to 0.0.0.0.
func (c *ServerConfig) Addr() string {
	host := c.Host
	if host == "" {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, fmt.Sprint(c.Port))
}
