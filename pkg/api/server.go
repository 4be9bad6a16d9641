package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/HorseArcher567/octolog/pkg/api/middleware"
	"github.com/HorseArcher567/octolog/pkg/xlog"
	"github.com/gin-gonic/gin"
)

// Server 封装 Gin HTTP 服务的生命周期。
type Server struct {
	config *ServerConfig

	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener

	log *slog.Logger
}

// NewServer 创建 admin HTTP 服务器。
// logger 取自 WithLogger，否则取自 context。
func NewServer(ctx context.Context, cfg *ServerConfig, opts ...Option) *Server {
	if cfg == nil {
		panic("api: server config is nil")
	}

	o := &options{log: xlog.FromContext(ctx)}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{
		config: cfg,
		log:    o.log.With("component", "api.server", "appName", cfg.AppName),
	}

	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	engine := gin.New()
	engine.Use(
		middleware.Logger(&xlog.Logger{Logger: s.log}),
		middleware.Recovery(),
		middleware.Logging(),
	)
	s.engine = engine

	// 如果配置了 pprof，则挂载到 /debug/pprof
	if cfg.EnablePProf {
		s.registerPProf()
	}

	return s
}

// Engine 返回内部的 gin.Engine，便于注册路由和中间件。
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start 监听端口并在后台提供服务，立即返回。使用 Shutdown 关闭。
func (s *Server) Start() error {
	addr, err := s.config.Addr()
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api: failed to listen on %s: %w", addr, err)
	}
	s.listener = lis

	server := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.httpServer = server

	s.log.Info("starting api server", "addr", lis.Addr().String())

	go func() {
		if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("api server stopped", "error", err)
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

// Shutdown 优雅关闭 HTTP 服务器。
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("shutting down api server gracefully")
	return s.httpServer.Shutdown(ctx)
}

// registerPProf 将 pprof 路由挂载到 /debug/pprof。
func (s *Server) registerPProf() {
	g := s.engine.Group("/debug/pprof")
	{
		g.GET("/", gin.WrapF(pprof.Index))
		g.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		g.GET("/profile", gin.WrapF(pprof.Profile))
		g.POST("/symbol", gin.WrapF(pprof.Symbol))
		g.GET("/symbol", gin.WrapF(pprof.Symbol))
		g.GET("/trace", gin.WrapF(pprof.Trace))
		g.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		g.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		g.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}
}
