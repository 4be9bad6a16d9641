package api

import "github.com/HorseArcher567/octolog/pkg/xlog"

// Option 自定义 admin HTTP Server
type Option func(o *options)

type options struct {
	log *xlog.Logger
}

// WithLogger 指定 server 与请求使用的 logger，优先于 context 中的 logger
func WithLogger(log *xlog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
