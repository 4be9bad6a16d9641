// Package core defines the event model and the component contracts that the
// configurator wires together: appenders, layouts, filters, error handlers
// and the optional capabilities a component may implement.
package core

import (
	"time"

	"github.com/HorseArcher567/octolog/pkg/level"
)

// Event 一条日志事件
type Event struct {
	Time    time.Time
	Logger  string
	Level   level.Level
	Message string
	Thread  string
	// Error 异常文本（throwable），可为空
	Error string
	// Fields MDC 与解码时多余的键
	Fields map[string]any
	// NDC 嵌套诊断上下文
	NDC string
}

// Field returns a field value, or nil.
func (e *Event) Field(key string) any {
	if e == nil || e.Fields == nil {
		return nil
	}
	return e.Fields[key]
}

// Decision 过滤器判定结果
type Decision int

const (
	Deny    Decision = -1
	Neutral Decision = 0
	Accept  Decision = 1
)

func (d Decision) String() string {
	switch d {
	case Deny:
		return "DENY"
	case Accept:
		return "ACCEPT"
	default:
		return "NEUTRAL"
	}
}
