package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/HorseArcher567/octolog/pkg/xlog"
	"github.com/gin-gonic/gin"
)

// Recovery 发生 panic 时返回 500 并记录堆栈；admin 接口不应让进程退出
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			xlog.FromContext(c.Request.Context()).Error("panic recovered in admin handler",
				"panic", r,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "internal server error",
			})
		}()

		c.Next()
	}
}
