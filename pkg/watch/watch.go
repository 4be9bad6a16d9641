// Package watch 监视配置文档并在变更后触发重载
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 默认防抖时间
const DefaultDebounce = 200 * time.Millisecond

// Option 监视器配置选项
type Option func(*Watcher)

// WithDebounce 在 d 内的多次变更只触发一次回调
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher 文件监视器
type Watcher struct {
	path     string
	fn       func()
	debounce time.Duration
	log      *slog.Logger
	fs       *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// New 创建监视器。监视文件所在目录而非文件本身，编辑器保存时可能先删除再创建。
func New(path string, fn func(), opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch: path is empty")
	}
	if fn == nil {
		return nil, errors.New("watch: callback is nil")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{path: abs, fn: fn, debounce: DefaultDebounce, log: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With("component", "watch", "path", abs)

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: failed to create watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fs.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("watch: failed to watch directory %s: %w", dir, err), fs.Close())
	}
	w.fs = fs
	return w, nil
}

// Run 阻塞直到 ctx 结束，返回时释放 fsnotify 资源
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
		w.fs.Close()
	}()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			// Rename 对应原子写入（写临时文件后 rename）
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("document changed", "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fn)
}
