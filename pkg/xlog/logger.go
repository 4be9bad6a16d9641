package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/HorseArcher567/octolog/pkg/level"
	"github.com/HorseArcher567/octolog/pkg/rotate"
)

// Logger 封装了 slog.Logger 和资源清理逻辑
// 通过嵌入 *slog.Logger，可以直接调用所有 slog 的方法
type Logger struct {
	*slog.Logger
	closer io.Closer
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New 根据配置创建一个新的 Logger
// 返回的 Logger 实现了 io.Closer，使用完毕后应调用 Close() 关闭资源
func New(cfg *Config) (*Logger, error) {
	c := normalize(cfg)

	lvl, err := resolveLevel(c.Level)
	if err != nil {
		return nil, err
	}

	writer, closer, err := resolveWriter(c)
	if err != nil {
		return nil, err
	}

	handler, err := newHandler(writer, c.Format, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: c.AddSource,
	})
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	return &Logger{
		Logger: slog.New(handler),
		closer: closer,
	}, nil
}

// MustNew 根据配置创建一个新的 Logger（失败时 panic）
func MustNew(cfg *Config) *Logger {
	logger, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return logger
}

// Discard 返回丢弃所有输出的 Logger，用于测试
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func normalize(cfg *Config) Config {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	return c
}

func resolveWriter(cfg Config) (io.Writer, io.Closer, error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	default:
		// 文件输出，自动启用轮转
		w, err := rotate.New(rotate.Config{
			Filename:    cfg.Output,
			DatePattern: cfg.DatePattern,
			MaxAge:      cfg.MaxAge,
		})
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil
	}
}

// resolveLevel 接受与配置文档相同的级别名（trace/fatal 等）
func resolveLevel(s string) (slog.Level, error) {
	lvl, err := level.Parse(s)
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
	return lvl.Slog(), nil
}
