package middleware

import (
	"time"

	"github.com/HorseArcher567/octolog/pkg/xlog"
	"github.com/gin-gonic/gin"
)

// Logger 把 log 注入请求 context，后续中间件与 handler 通过 xlog.FromContext 获取
func Logger(log *xlog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if log != nil {
			c.Request = c.Request.WithContext(xlog.WithContext(c.Request.Context(), log))
		}
		c.Next()
	}
}

// Logging 返回一个简单的 HTTP 请求日志中间件。
// 会记录 method、path、status、latency 等信息。
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 处理请求
		c.Next()

		latency := time.Since(start)

		log := xlog.FromContext(c.Request.Context())
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}
