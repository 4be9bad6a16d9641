package appender

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// OnlyOnce 只报告第一次错误，之后静默
type OnlyOnce struct {
	Logger *slog.Logger `param:"-"`

	once sync.Once
}

// NewOnlyOnce creates an OnlyOnce error handler.
func NewOnlyOnce() *OnlyOnce {
	return &OnlyOnce{}
}

func (h *OnlyOnce) Error(msg string, err error, _ *core.Event) {
	h.once.Do(func() {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error(msg, "error", err)
	})
}

// Fallback 主 appender 失败时把事件转交给备用 appender
type Fallback struct {
	Logger *slog.Logger `param:"-"`

	mu       sync.RWMutex
	primary  core.Appender
	backups  []core.Appender
	failures atomic.Int64
}

// NewFallback creates a Fallback error handler.
func NewFallback() *Fallback {
	return &Fallback{}
}

// SetAppender records the primary appender.
func (h *Fallback) SetAppender(a core.Appender) {
	h.mu.Lock()
	h.primary = a
	h.mu.Unlock()
}

// AddAppender attaches a backup appender.
func (h *Fallback) AddAppender(a core.Appender) {
	h.mu.Lock()
	h.backups = append(h.backups, a)
	h.mu.Unlock()
}

// Backups returns the backup appenders.
func (h *Fallback) Backups() []core.Appender {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]core.Appender(nil), h.backups...)
}

// Failures returns how many errors were handled.
func (h *Fallback) Failures() int64 {
	return h.failures.Load()
}

func (h *Fallback) Error(msg string, err error, e *core.Event) {
	n := h.failures.Add(1)

	h.mu.RLock()
	primary := h.primary
	backups := h.backups
	h.mu.RUnlock()

	if n == 1 {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		name := ""
		if primary != nil {
			name = primary.Name()
		}
		logger.Warn("appender failed, falling back", "appender", name, "reason", msg, "error", err, "backups", len(backups))
	}

	if e == nil {
		return
	}
	for _, b := range backups {
		// 备用 appender 与主 appender 相同时不转发，避免递归
		if b == primary {
			continue
		}
		b.Append(e)
	}
}
