// Package status collects the diagnostics produced while interpreting a
// configuration document. Entries are kept for inspection (CLI, admin API)
// and mirrored to a slog logger as they arrive.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Severity 诊断级别
type Severity int

const (
	Debug Severity = iota
	Info
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// MarshalText 供 JSON 输出
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Severity) slog() slog.Level {
	switch s {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Entry 一条诊断
type Entry struct {
	Time     time.Time      `json:"time"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

func (e Entry) String() string {
	if len(e.Attrs) == 0 {
		return fmt.Sprintf("%s %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("%s %s %v", e.Severity, e.Message, e.Attrs)
}

// Reporter accumulates entries. It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	logger  *slog.Logger
	verbose bool
	entries []Entry
}

// New creates a Reporter that mirrors entries to logger (nil = slog.Default()).
func New(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// SetVerbose 开启后记录并输出 debug 级别条目
func (r *Reporter) SetVerbose(v bool) {
	r.mu.Lock()
	r.verbose = v
	r.mu.Unlock()
}

// Verbose reports the current verbosity.
func (r *Reporter) Verbose() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verbose
}

func (r *Reporter) Debug(msg string, args ...any) { r.add(Debug, msg, args) }
func (r *Reporter) Info(msg string, args ...any)  { r.add(Info, msg, args) }
func (r *Reporter) Warn(msg string, args ...any)  { r.add(Warn, msg, args) }
func (r *Reporter) Error(msg string, args ...any) { r.add(Error, msg, args) }

func (r *Reporter) add(sev Severity, msg string, args []any) {
	r.mu.Lock()
	if sev == Debug && !r.verbose {
		r.mu.Unlock()
		return
	}
	r.entries = append(r.entries, Entry{
		Time:     time.Now(),
		Severity: sev,
		Message:  msg,
		Attrs:    attrs(args),
	})
	r.mu.Unlock()

	// debug 条目在 verbose 模式下按 info 输出，避免被进程日志级别过滤
	lvl := sev.slog()
	if sev == Debug {
		lvl = slog.LevelInfo
	}
	r.logger.Log(context.Background(), lvl, msg, args...)
}

// attrs 把 slog 风格的 key/value 参数转换为 map
func attrs(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	m := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i++ {
		switch a := args[i].(type) {
		case slog.Attr:
			m[a.Key] = a.Value.Any()
		case string:
			if i+1 < len(args) {
				v := args[i+1]
				if err, ok := v.(error); ok {
					v = err.Error()
				}
				m[a] = v
				i++
			} else {
				m["!BADKEY"] = a
			}
		default:
			m["!BADKEY"] = a
		}
	}
	return m
}

// Entries returns a copy of all entries.
func (r *Reporter) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Warnings returns the WARN entries.
func (r *Reporter) Warnings() []Entry {
	return r.filter(Warn)
}

// Errors returns the ERROR entries.
func (r *Reporter) Errors() []Entry {
	return r.filter(Error)
}

// HasErrors reports whether any ERROR entry was recorded.
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

// Reset drops every entry.
func (r *Reporter) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

func (r *Reporter) filter(sev Severity) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	return out
}
