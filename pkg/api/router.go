package api

import "github.com/gin-gonic/gin"

// RouterRegistrar 定义路由注册约定，Admin 即一个实现。
type RouterRegistrar interface {
	RegisterRoutes(engine *gin.Engine)
}

// Register 批量注册多个 RouterRegistrar。
func Register(engine *gin.Engine, registrars ...RouterRegistrar) {
	for _, r := range registrars {
		if r == nil {
			continue
		}
		r.RegisterRoutes(engine)
	}
}
