package appender

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Console 输出到标准输出或标准错误
type Console struct {
	writerAppender

	// Target System.out / System.err（也接受 stdout / stderr）
	Target string

	// Writer 替代 Target，供嵌入方和测试使用
	Writer io.Writer `param:"-"`
}

// NewConsole creates a Console appender writing to stdout.
func NewConsole() *Console {
	return &Console{writerAppender: newWriterAppender(), Target: "System.out"}
}

// Activate selects the output stream.
func (a *Console) Activate() error {
	if a.Writer != nil {
		return a.setWriter(a.Writer, nil, false, 0)
	}

	switch strings.ToLower(strings.TrimSpace(a.Target)) {
	case "system.out", "stdout", "":
		return a.setWriter(os.Stdout, nil, false, 0)
	case "system.err", "stderr":
		return a.setWriter(os.Stderr, nil, false, 0)
	default:
		return fmt.Errorf("appender: unknown console target %q", a.Target)
	}
}
