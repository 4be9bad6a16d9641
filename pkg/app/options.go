package app

import (
	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/registry"
	"github.com/HorseArcher567/octolog/pkg/subst"
	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// Option 用于自定义 App 的初始化行为。
type Option func(a *App)

// WithLogger 使用已有的 logger 实例，App 不负责关闭。
func WithLogger(log *xlog.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
			a.ownsLog = false
		}
	}
}

// WithRegistry 使用自定义类型注册表（默认 builtin.NewRegistry()）。
func WithRegistry(r *registry.Registry) Option {
	return func(a *App) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithLookup 追加一个属性来源，优先级低于配置中的来源、高于环境变量。
func WithLookup(l subst.Lookup) Option {
	return func(a *App) {
		if l != nil {
			a.extra = append(a.extra, l)
		}
	}
}

// WithElementHandler 处理文档中未识别的元素。
func WithElementHandler(h core.ElementHandler) Option {
	return func(a *App) {
		a.handler = h
	}
}
