// Package level defines the severity levels used by logger nodes, appender
// thresholds and filters.
//
// Level values are numerically compatible with log/slog so that events can be
// mirrored into slog handlers without conversion tables.
package level

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Level 日志级别，数值与 slog.Level 兼容
type Level int

const (
	All   Level = math.MinInt32
	Trace Level = -8
	Debug Level = -4
	Info  Level = 0
	Warn  Level = 4
	Error Level = 8
	Fatal Level = 12
	Off   Level = math.MaxInt32
)

// Sentinel tokens meaning "resolve from the nearest ancestor".
const (
	Inherit   = "inherit"
	Inherited = "inherited"
	Null      = "null"
	None      = "none"
)

var names = map[Level]string{
	All:   "ALL",
	Trace: "TRACE",
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	Fatal: "FATAL",
	Off:   "OFF",
}

// String 返回级别名称，非标准级别返回 LEVEL(n)
func (l Level) String() string {
	if name, ok := names[l]; ok {
		return name
	}
	return "LEVEL(" + strconv.Itoa(int(l)) + ")"
}

// Slog 转换为 slog.Level
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// Enabled reports whether an event at level e passes a threshold of l.
func (l Level) Enabled(e Level) bool {
	return e >= l
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so a Level can be bound
// directly from a param value.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Parse converts a level name to a Level.
// Numeric tokens are accepted as raw slog-compatible values.
func Parse(s string) (Level, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	switch token {
	case "ALL":
		return All, nil
	case "TRACE", "FINEST":
		return Trace, nil
	case "DEBUG", "FINE", "FINER":
		return Debug, nil
	case "INFO", "CONFIG":
		return Info, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "ERROR", "SEVERE":
		return Error, nil
	case "FATAL":
		return Fatal, nil
	case "OFF":
		return Off, nil
	}

	if n, err := strconv.Atoi(token); err == nil {
		return Level(n), nil
	}
	return Debug, fmt.Errorf("level: unknown level %q", s)
}

// ToLevel 将名称转换为级别，无法识别时返回 def
func ToLevel(s string, def Level) Level {
	l, err := Parse(s)
	if err != nil {
		return def
	}
	return l
}

// IsInherited reports whether token is one of the inherit sentinels.
func IsInherited(token string) bool {
	token = strings.TrimSpace(token)
	return strings.EqualFold(token, Inherit) ||
		strings.EqualFold(token, Inherited) ||
		strings.EqualFold(token, Null) ||
		strings.EqualFold(token, None)
}
