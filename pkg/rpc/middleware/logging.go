package middleware

import (
	"context"
	"time"

	"github.com/HorseArcher567/octolog/pkg/xlog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryServerLogger 把 log 注入请求 context，放在 UnaryServerLogging 之前
func UnaryServerLogger(log *xlog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(xlog.WithContext(ctx, log), req)
	}
}

// StreamServerLogger is the stream counterpart of UnaryServerLogger.
func StreamServerLogger(log *xlog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		return handler(srv, &loggingServerStream{ServerStream: ss, ctx: xlog.WithContext(ss.Context(), log)})
	}
}

// UnaryServerLogging 为 Unary RPC 提供日志中间件
func UnaryServerLogging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		// 创建带有请求信息的 logger（继承上游可能已有的字段）
		log := xlog.FromContext(ctx).With("method", info.FullMethod)
		if requestID := extractRequestID(ctx); requestID != "" {
			log = log.With("request_id", requestID)
		}

		log.Debug("grpc request started")

		// 将 logger 注入 context
		ctx = xlog.WithContext(ctx, &xlog.Logger{Logger: log})

		resp, err := handler(ctx, req)

		duration := time.Since(start)

		if err != nil {
			st := status.Convert(err)
			log.Error("grpc request failed",
				"duration", duration,
				"code", st.Code().String(),
				"error", st.Message(),
			)
		} else {
			log.Debug("grpc request completed",
				"duration", duration,
			)
		}

		return resp, err
	}
}

// StreamServerLogging 为 Stream RPC 提供日志中间件
func StreamServerLogging() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		ctx := ss.Context()

		log := xlog.FromContext(ctx).With("method", info.FullMethod)
		if requestID := extractRequestID(ctx); requestID != "" {
			log = log.With("request_id", requestID)
		}

		log.Info("grpc stream started",
			"is_client_stream", info.IsClientStream,
			"is_server_stream", info.IsServerStream,
		)

		// 包装 ServerStream 以注入 logger
		wrappedStream := &loggingServerStream{
			ServerStream: ss,
			ctx:          xlog.WithContext(ctx, &xlog.Logger{Logger: log}),
		}

		err := handler(srv, wrappedStream)

		duration := time.Since(start)

		if err != nil {
			st := status.Convert(err)
			log.Error("grpc stream failed",
				"duration", duration,
				"code", st.Code().String(),
				"error", st.Message(),
			)
		} else {
			log.Info("grpc stream completed",
				"duration", duration,
			)
		}

		return err
	}
}

// UnaryClientLogging 为客户端 Unary RPC 提供日志中间件
func UnaryClientLogging() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		log := xlog.FromContext(ctx)

		log.Debug("grpc client request started",
			"method", method,
			"target", cc.Target(),
		)

		err := invoker(ctx, method, req, reply, cc, opts...)

		duration := time.Since(start)

		if err != nil {
			st := status.Convert(err)
			if st.Code() != codes.Canceled {
				log.Error("grpc client request failed",
					"method", method,
					"target", cc.Target(),
					"duration", duration,
					"code", st.Code().String(),
					"error", st.Message(),
				)
			}
		} else {
			log.Debug("grpc client request completed",
				"method", method,
				"target", cc.Target(),
				"duration", duration,
			)
		}

		return err
	}
}

// extractRequestID 从 gRPC metadata 中提取 request_id
func extractRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("x-request-id"); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

type loggingServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *loggingServerStream) Context() context.Context {
	return s.ctx
}
