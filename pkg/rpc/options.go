package rpc

import (
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// DefaultKeepaliveMinTime 低于 ClientConfig 默认的 ping 间隔，客户端 keepalive 不会被拒绝
const DefaultKeepaliveMinTime = 5 * time.Second

// Option 自定义 health server
type Option func(o *options)

type options struct {
	log         *xlog.Logger
	grpcOptions []grpc.ServerOption
}

// WithLogger 指定 server 与拦截器使用的 logger，优先于 context 中的 logger
func WithLogger(log *xlog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithGRPCOptions 追加 grpc.ServerOption；内置的日志拦截器排在这些拦截器之前
func WithGRPCOptions(opts ...grpc.ServerOption) Option {
	return func(o *options) {
		o.grpcOptions = append(o.grpcOptions, opts...)
	}
}

// KeepaliveEnforcement allows client pings as often as minTime, with or
// without active streams.
func KeepaliveEnforcement(minTime time.Duration) grpc.ServerOption {
	if minTime <= 0 {
		minTime = DefaultKeepaliveMinTime
	}
	return grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
		MinTime:             minTime,
		PermitWithoutStream: true,
	})
}
