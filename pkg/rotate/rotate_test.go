package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.log")

	w, err := New(Config{Filename: filename})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
	if w.config.DatePattern != DefaultDatePattern {
		t.Errorf("DatePattern = %q, want default", w.config.DatePattern)
	}
}

func TestNewAddsExtension(t *testing.T) {
	base := filepath.Join(t.TempDir(), "app")

	w, err := New(Config{Filename: base})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	if w.Filename() != base+".log" {
		t.Errorf("Filename() = %q, want %q", w.Filename(), base+".log")
	}
}

func TestWrite(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.log")

	w, err := New(Config{Filename: filename})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	message := "test log message\n"
	n, err := w.Write([]byte(message))
	if err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if n != len(message) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(message), n)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if string(content) != message {
		t.Errorf("Expected content %q, got %q", message, string(content))
	}
}

func TestConcurrentWrite(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.log")

	w, err := New(Config{Filename: filename})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			message := fmt.Sprintf("test message %d\n", n)
			for j := 0; j < 100; j++ {
				w.Write([]byte(message))
			}
		}(i)
	}
	wg.Wait()

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("Log file should exist after concurrent writes: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Log file is empty")
	}
}

func TestRotationOnNew(t *testing.T) {
	tempDir := t.TempDir()
	filename := filepath.Join(tempDir, "test.log")

	// 1. 创建一个"旧"日志文件，修改时间为昨天
	oldContent := "old log data"
	if err := os.WriteFile(filename, []byte(oldContent), 0o666); err != nil {
		t.Fatalf("Failed to create old log file: %v", err)
	}
	yesterday := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(filename, yesterday, yesterday); err != nil {
		t.Fatalf("Failed to modify file time: %v", err)
	}

	// 2. 创建 Writer，应该触发轮转
	w, err := New(Config{Filename: filename})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	newContent := "new log data"
	w.Write([]byte(newContent))

	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if string(content) != newContent {
		t.Errorf("Expected new content %q, got %q", newContent, string(content))
	}

	// 3. 验证旧文件已备份：test-2023-12-08.log
	backupName := filepath.Join(tempDir, fmt.Sprintf("test-%s.log", yesterday.Format(DefaultDatePattern)))
	backupContent, err := os.ReadFile(backupName)
	if err != nil {
		t.Fatalf("Failed to read backup file %s: %v", backupName, err)
	}
	if string(backupContent) != oldContent {
		t.Errorf("Expected backup content %q, got %q", oldContent, string(backupContent))
	}
}

func TestHourlyPattern(t *testing.T) {
	tempDir := t.TempDir()
	filename := filepath.Join(tempDir, "hourly.log")
	const pattern = "2006-01-02-15"

	w, err := New(Config{Filename: filename, DatePattern: pattern})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	first := w.period
	w.Write([]byte("first\n"))

	// 模拟进入下一个小时
	next := time.Now().Add(time.Hour)
	w.now = func() time.Time { return next }
	w.Write([]byte("second\n"))

	backup := filepath.Join(tempDir, "hourly-"+first+".log")
	content, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("Failed to read backup file %s: %v", backup, err)
	}
	if string(content) != "first\n" {
		t.Errorf("backup content = %q", string(content))
	}

	content, _ = os.ReadFile(filename)
	if string(content) != "second\n" {
		t.Errorf("current content = %q", string(content))
	}
	if w.period != next.Format(pattern) {
		t.Errorf("period = %q, want %q", w.period, next.Format(pattern))
	}
}

func TestCleanup(t *testing.T) {
	tempDir := t.TempDir()
	filename := filepath.Join(tempDir, "test.log")

	// 1. 过期备份
	oldDate := time.Now().AddDate(0, 0, -3)
	oldBackupName := filepath.Join(tempDir, fmt.Sprintf("test-%s.log", oldDate.Format(DefaultDatePattern)))
	if err := os.WriteFile(oldBackupName, []byte("old backup"), 0o666); err != nil {
		t.Fatalf("Failed to create old backup: %v", err)
	}

	// 2. 最近备份（不应被删除）
	recentDate := time.Now().AddDate(0, 0, -1)
	recentBackupName := filepath.Join(tempDir, fmt.Sprintf("test-%s.log", recentDate.Format(DefaultDatePattern)))
	if err := os.WriteFile(recentBackupName, []byte("recent backup"), 0o666); err != nil {
		t.Fatalf("Failed to create recent backup: %v", err)
	}

	// 3. 当前文件是昨天的，触发轮转
	if err := os.WriteFile(filename, []byte("current old"), 0o666); err != nil {
		t.Fatalf("Failed to create current log: %v", err)
	}
	yesterday := time.Now().Add(-24 * time.Hour)
	os.Chtimes(filename, yesterday, yesterday)

	w, err := New(Config{Filename: filename, MaxAge: 1})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()
	w.Write([]byte("trigger"))

	// 等待异步清理
	time.Sleep(200 * time.Millisecond)

	if _, err := os.Stat(oldBackupName); !os.IsNotExist(err) {
		t.Error("Old backup file should have been deleted")
	}
	if _, err := os.Stat(recentBackupName); os.IsNotExist(err) {
		t.Error("Recent backup file should NOT have been deleted")
	}
}

func TestMustNewPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNew() should panic with empty filename")
		}
	}()

	MustNew(Config{})
}
