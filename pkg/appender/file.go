package appender

import (
	"fmt"
	"os"
	"path/filepath"
)

// File 输出到单个文件
type File struct {
	writerAppender

	File string
	// AppendMode 为 false 时截断已有文件
	AppendMode bool `param:"Append"`
	BufferedIO bool
	BufferSize int
}

// NewFile creates a File appender in append mode.
func NewFile() *File {
	return &File{writerAppender: newWriterAppender(), AppendMode: true, BufferSize: 8 * 1024}
}

// Activate opens the file, creating parent directories.
func (a *File) Activate() error {
	if a.File == "" {
		return fmt.Errorf("appender: File option not set for appender %q", a.Name())
	}
	if err := os.MkdirAll(filepath.Dir(a.File), 0o755); err != nil {
		return fmt.Errorf("appender: failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if a.AppendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(a.File, flags, 0o644)
	if err != nil {
		return fmt.Errorf("appender: failed to open %s: %w", a.File, err)
	}
	return a.setWriter(f, f, a.BufferedIO, a.BufferSize)
}
