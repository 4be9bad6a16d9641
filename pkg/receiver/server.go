// Package receiver accepts log events over UDP, one event per datagram, and
// routes them through a configured logger hierarchy.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// MaxDatagramSize 单个数据报的上限，保证一个事件只占一个包
const MaxDatagramSize = 1024*65 + 1024

// Dispatcher routes a decoded event. configurator.Configuration implements it.
type Dispatcher interface {
	Dispatch(e *core.Event) int
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(e *core.Event) int

func (f DispatcherFunc) Dispatch(e *core.Event) int {
	return f(e)
}

// Config 接收器配置
//
// 示例配置:
// receiver:
//
//	network: udp
//	addr: 127.0.0.1:4560
//	codec: json
type Config struct {
	// Network udp / udp4 / udp6
	Network string `yaml:"network" json:"network" toml:"network"`

	// Addr 监听地址，端口为 0 时随机分配
	Addr string `yaml:"addr" json:"addr" toml:"addr"`

	// Codec json / xml / proto
	Codec string `yaml:"codec" json:"codec" toml:"codec"`
}

// Enabled reports whether a listen address is configured.
func (c *Config) Enabled() bool {
	return c != nil && c.Addr != ""
}

// Stats 运行计数
type Stats struct {
	Received   int64 `json:"received"`
	Dispatched int64 `json:"dispatched"`
	Failed     int64 `json:"failed"`
}

// Server 读取数据报、解码并分发
type Server struct {
	cfg        Config
	codec      Codec
	dispatcher Dispatcher
	log        *slog.Logger

	mu   sync.Mutex
	conn net.PacketConn

	received   atomic.Int64
	dispatched atomic.Int64
	failed     atomic.Int64
}

// NewServer creates a receiver. The logger is taken from ctx.
func NewServer(ctx context.Context, cfg *Config, d Dispatcher) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("receiver: config is nil")
	}
	if d == nil {
		return nil, errors.New("receiver: dispatcher is nil")
	}
	codec, err := NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	c := *cfg
	if c.Network == "" {
		c.Network = "udp"
	}

	return &Server{
		cfg:        c,
		codec:      codec,
		dispatcher: d,
		log:        xlog.FromContext(ctx).With("component", "receiver", "codec", codec.Name()),
	}, nil
}

// Listen binds the socket. Serve calls it when needed.
func (s *Server) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}

	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, s.cfg.Network, s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("receiver: failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.conn = conn
	s.log.Info("receiver listening", "addr", conn.LocalAddr().String())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Serve reads datagrams until ctx is done or the server is closed.
// A bad datagram is logged and skipped.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	buf := make([]byte, MaxDatagramSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info("receiver stopped")
				return nil
			}
			return fmt.Errorf("receiver: read: %w", err)
		}
		s.handle(buf[:n], from)
	}
}

func (s *Server) handle(data []byte, from net.Addr) {
	s.received.Add(1)

	e, err := s.codec.Decode(data)
	if err != nil {
		s.failed.Add(1)
		s.log.Warn("failed to decode event", "from", from.String(), "size", len(data), "error", err)
		return
	}
	if n := s.dispatcher.Dispatch(e); n > 0 {
		s.dispatched.Add(1)
	}
}

// Stats returns the counters.
func (s *Server) Stats() Stats {
	return Stats{
		Received:   s.received.Load(),
		Dispatched: s.dispatched.Load(),
		Failed:     s.failed.Load(),
	}
}

// Close releases the socket; a blocked Serve returns.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

// Send encodes e and writes it as one datagram to addr.
func Send(ctx context.Context, network, addr string, codec Codec, e *core.Event) error {
	data, err := codec.Encode(e)
	if err != nil {
		return err
	}
	if len(data) > MaxDatagramSize {
		return fmt.Errorf("receiver: event of %d bytes exceeds datagram limit", len(data))
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return fmt.Errorf("receiver: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("receiver: send: %w", err)
	}
	return nil
}
