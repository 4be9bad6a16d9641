// Package rotate provides an io.WriteCloser that rolls its file over when
// the formatted date pattern changes.
package rotate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultExt = ".log"

// Writer 实现了 io.WriteCloser 接口，按 DatePattern 周期轮转
type Writer struct {
	config Config
	file   *os.File
	mu     sync.Mutex

	// period 当前文件所属周期（DatePattern 格式化结果）
	period string

	// 文件名的基础部分和扩展名
	basename string // 不含扩展名的文件名（包含路径）
	ext      string // 扩展名（包含点号，默认值为".log"）

	now func() time.Time
}

// New 创建一个新的轮转写入器
func New(config Config) (*Writer, error) {
	if config.Filename == "" {
		return nil, fmt.Errorf("rotate: filename is required")
	}
	if config.DatePattern == "" {
		config.DatePattern = DefaultDatePattern
	}

	// 标准化文件名（确保有扩展名）
	config.Filename = normalizeFilename(config.Filename)

	w := &Writer{
		config: config,
		now:    time.Now,
	}
	w.basename, w.ext = splitFilename(w.config.Filename)

	if err := w.init(); err != nil {
		return nil, err
	}
	return w, nil
}

// MustNew 创建一个新的轮转写入器（失败时 panic）
func MustNew(config Config) *Writer {
	w, err := New(config)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize rotate writer: %v", err))
	}
	return w
}

// Filename returns the active file path.
func (w *Writer) Filename() string {
	return w.config.Filename
}

// Write 实现 io.Writer 接口
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.openFile(); err != nil {
			return 0, err
		}
	}

	// 周期变化，需要轮转
	if w.now().Format(w.config.DatePattern) != w.period {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	return w.file.Write(p)
}

// Sync flushes the current file.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close 实现 io.Closer 接口
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}

// init 初始化日志文件
func (w *Writer) init() error {
	if err := os.MkdirAll(filepath.Dir(w.config.Filename), 0o755); err != nil {
		return fmt.Errorf("rotate: failed to create log directory: %w", err)
	}

	info, err := os.Stat(w.config.Filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("rotate: failed to stat log file: %w", err)
		}
		return w.openFile()
	}

	// 已有文件属于之前的周期，立即轮转
	if period := info.ModTime().Format(w.config.DatePattern); period != w.now().Format(w.config.DatePattern) {
		w.period = period
		return w.rotate()
	}

	return w.openFile()
}

// openFile 打开或创建当前日志文件
func (w *Writer) openFile() error {
	w.period = w.now().Format(w.config.DatePattern)

	file, err := os.OpenFile(w.config.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("rotate: failed to open log file: %w", err)
	}

	w.file = file
	return nil
}

// rotate 把当前文件改名为 {basename}-{period}{ext} 并打开新文件
func (w *Writer) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return err
		}
		w.file = nil
	}

	backup := w.backupName(w.period)
	if _, err := os.Stat(backup); err == nil {
		// 备份文件已存在，追加内容
		if err := appendFile(w.config.Filename, backup); err != nil {
			return fmt.Errorf("rotate: failed to append log file: %w", err)
		}
		if err := os.Remove(w.config.Filename); err != nil {
			return fmt.Errorf("rotate: failed to remove rotated file: %w", err)
		}
	} else if err := os.Rename(w.config.Filename, backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate: failed to rename log file: %w", err)
	}

	if err := w.openFile(); err != nil {
		return err
	}

	if w.config.MaxAge > 0 {
		go w.cleanup()
	}
	return nil
}

// backupName 例如：logs/app.log -> logs/app-2023-12-08.log
func (w *Writer) backupName(period string) string {
	return fmt.Sprintf("%s-%s%s", w.basename, period, w.ext)
}

// cleanup 清理过期备份
func (w *Writer) cleanup() {
	dir := filepath.Dir(w.config.Filename)
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	now := w.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, -w.config.MaxAge)
	base := filepath.Base(w.basename)

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		date, ok := w.parseBackupDate(f.Name(), base)
		if !ok {
			continue
		}
		// 严格小于 cutoff 才删除
		if date.Before(cutoff) {
			os.Remove(filepath.Join(dir, f.Name()))
		}
	}
}

// parseBackupDate 从 {basename}-{period}{ext} 中解析日期
func (w *Writer) parseBackupDate(filename, base string) (time.Time, bool) {
	if !strings.HasPrefix(filename, base+"-") || !strings.HasSuffix(filename, w.ext) {
		return time.Time{}, false
	}

	part := filename[len(base)+1 : len(filename)-len(w.ext)]
	date, err := time.ParseInLocation(w.config.DatePattern, part, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// normalizeFilename 确保有扩展名
func normalizeFilename(filename string) string {
	if filepath.Ext(filename) == "" {
		return filename + defaultExt
	}
	return filename
}

// splitFilename 例如："logs/app.log" -> ("logs/app", ".log")
func splitFilename(filename string) (basename, ext string) {
	ext = filepath.Ext(filename)
	basename = filename[:len(filename)-len(ext)]
	return basename, ext
}

// appendFile 将 src 文件内容追加到 dst 文件
func appendFile(src, dst string) error {
	s, err := os.Open(src)
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o666)
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(d, s)
	return err
}
