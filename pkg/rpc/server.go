// Package rpc serves the standard gRPC health protocol for octolog. The
// reported status follows the outcome of the most recent configuration load.
package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/HorseArcher567/octolog/pkg/rpc/middleware"
	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// Server RPC 服务器封装
type Server struct {
	config       *ServerConfig
	grpcServer   *grpc.Server
	healthServer *health.Server
	listener     net.Listener
	log          *slog.Logger
}

// NewServer 创建 RPC 服务器，初始状态为 NOT_SERVING
func NewServer(ctx context.Context, cfg *ServerConfig, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rpc: server config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{log: xlog.FromContext(ctx)}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{
		config: cfg,
		log:    o.log.With("component", "rpc.server", "name", cfg.Name),
	}

	withLog := &xlog.Logger{Logger: s.log}
	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(middleware.UnaryServerLogger(withLog), middleware.UnaryServerLogging()),
		grpc.ChainStreamInterceptor(middleware.StreamServerLogger(withLog), middleware.StreamServerLogging()),
	}, o.grpcOptions...)
	s.grpcServer = grpc.NewServer(serverOpts...)

	s.healthServer = health.NewServer()
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.healthServer)
	s.SetServing(false)

	// 启用反射（方便使用 grpcurl 等工具调试）
	if cfg.EnableReflection {
		reflection.Register(s.grpcServer)
	}

	return s, nil
}

// SetServing 同时设置整体（""）与 Name 服务的健康状态
func (s *Server) SetServing(ok bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if ok {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.healthServer.SetServingStatus("", st)
	s.healthServer.SetServingStatus(s.config.Name, st)
}

// Start 监听并在后台提供服务，立即返回
func (s *Server) Start() error {
	addr := s.config.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc: failed to listen on %s: %w", addr, err)
	}
	s.listener = lis

	s.log.Info("starting rpc server", "addr", lis.Addr().String())
	go func() {
		if err := s.grpcServer.Serve(lis); err != nil {
			s.log.Error("rpc server stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop 优雅停止；ctx 到期后强制停止
func (s *Server) Stop(ctx context.Context) error {
	s.healthServer.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.grpcServer.Stop()
		return ctx.Err()
	}
}
