// Package builtin registers the standard appenders, layouts, filters, error
// handlers and level classes under short names and their log4j class names.
package builtin

import (
	"strings"

	"github.com/HorseArcher567/octolog/pkg/appender"
	"github.com/HorseArcher567/octolog/pkg/filter"
	"github.com/HorseArcher567/octolog/pkg/layout"
	"github.com/HorseArcher567/octolog/pkg/registry"
)

const log4jPkg = "org.apache.log4j."

// NewRegistry returns a registry holding every built-in type.
func NewRegistry() *registry.Registry {
	r := registry.New()
	Register(r)
	return r
}

// Register adds the built-in types to r.
func Register(r *registry.Registry) {
	// appenders
	r.Register("Console", func() any { return appender.NewConsole() }, "ConsoleAppender")
	r.Register("File", func() any { return appender.NewFile() }, "FileAppender")
	r.Register("DailyRollingFile", func() any { return appender.NewDailyRollingFile() }, "DailyRollingFileAppender")
	r.Register("RollingFile", func() any { return appender.NewRollingFile() }, "RollingFileAppender")
	r.Register("Async", func() any { return appender.NewAsync() }, "AsyncAppender")
	r.Register("Memory", func() any { return appender.NewMemory() }, "MemoryAppender")
	r.Register("Null", func() any { return appender.NewNull() }, "NullAppender")
	r.Register("Redis", func() any { return appender.NewRedis() }, "RedisAppender")
	r.Register("SQL", func() any { return appender.NewSQL() }, "JDBC", "JDBCAppender")

	// layouts
	r.Register("Simple", func() any { return layout.NewSimple() }, "SimpleLayout")
	r.Register("Pattern", func() any { return layout.NewPattern() }, "PatternLayout", "EnhancedPatternLayout")
	r.Register("JSON", func() any { return layout.NewJSON() }, "JSONLayout")
	r.Register("XML", func() any { return layout.NewXML() }, "XMLLayout")
	r.RegisterBuilder(registry.KindLayout, "TTCC", buildTTCC, "TTCCLayout", log4jPkg+"TTCCLayout")

	// filters
	r.Register("LevelMatch", func() any { return filter.NewLevelMatch() }, "LevelMatchFilter")
	r.Register("LevelRange", func() any { return filter.NewLevelRange() }, "LevelRangeFilter")
	r.Register("StringMatch", func() any { return filter.NewStringMatch() }, "StringMatchFilter")
	r.Register("DenyAll", func() any { return filter.DenyAll{} }, "DenyAllFilter")
	r.Register("LoggerName", func() any { return filter.NewLoggerName() }, "LoggerNameFilter")

	// error handlers
	r.Register("OnlyOnce", func() any { return appender.NewOnlyOnce() }, "OnlyOnceErrorHandler")
	r.Register("Fallback", func() any { return appender.NewFallback() }, "FallbackErrorHandler")

	// levels
	r.RegisterLevel(UtilLoggingLevel, parseUtilLoggingLevel)
	r.RegisterLevel("UtilLoggingLevel", parseUtilLoggingLevel)

	r.AddResolver(qualifiedResolver(r))
}

// qualifiedResolver 把 log4j 全限定类名映射到短名称，
// 例如 org.apache.log4j.varia.LevelRangeFilter -> LevelRangeFilter
func qualifiedResolver(r *registry.Registry) registry.Resolver {
	return func(name string) (registry.Factory, bool) {
		rest, ok := strings.CutPrefix(name, log4jPkg)
		if !ok {
			return nil, false
		}
		if f, err := r.Factory(rest); err == nil {
			return f, true
		}
		if i := strings.LastIndexByte(rest, '.'); i >= 0 {
			if f, err := r.Factory(rest[i+1:]); err == nil {
				return f, true
			}
		}
		return nil, false
	}
}
