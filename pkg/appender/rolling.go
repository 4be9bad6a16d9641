package appender

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/HorseArcher567/octolog/pkg/layout"
	"github.com/HorseArcher567/octolog/pkg/rotate"
)

// DailyRollingFile 按 DatePattern 周期轮转的文件
type DailyRollingFile struct {
	writerAppender

	File string
	// DatePattern 接受 log4j 写法（'.'yyyy-MM-dd）或 Go layout
	DatePattern string
	// MaxAge 保留天数，0 表示不清理
	MaxAge int
}

// NewDailyRollingFile creates a DailyRollingFile appender rolling daily.
func NewDailyRollingFile() *DailyRollingFile {
	return &DailyRollingFile{writerAppender: newWriterAppender(), DatePattern: rotate.DefaultDatePattern}
}

// Activate opens the rotating writer.
func (a *DailyRollingFile) Activate() error {
	if a.File == "" {
		return fmt.Errorf("appender: File option not set for appender %q", a.Name())
	}
	w, err := rotate.New(rotate.Config{
		Filename:    a.File,
		DatePattern: goDatePattern(a.DatePattern),
		MaxAge:      a.MaxAge,
	})
	if err != nil {
		return err
	}
	return a.setWriter(w, w, false, 0)
}

// goDatePattern 去掉 log4j 的 '.' 前缀分隔符并转换为 Go layout
func goDatePattern(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "'.'")
	p = strings.TrimPrefix(p, "'-'")
	if p == "" {
		return rotate.DefaultDatePattern
	}
	return layout.DateLayout(p)
}

// RollingFile 按大小轮转的文件，由 lumberjack 实现
type RollingFile struct {
	writerAppender

	File           string
	MaxFileSize    datasize.ByteSize
	MaxBackupIndex int
	MaxAge         int
	Compress       bool
}

// NewRollingFile creates a RollingFile appender with log4j defaults
// (10MB, one backup).
func NewRollingFile() *RollingFile {
	return &RollingFile{
		writerAppender: newWriterAppender(),
		MaxFileSize:    10 * datasize.MB,
		MaxBackupIndex: 1,
	}
}

// Activate opens the size-based rolling writer.
func (a *RollingFile) Activate() error {
	if a.File == "" {
		return fmt.Errorf("appender: File option not set for appender %q", a.Name())
	}

	// lumberjack 以 MB 为单位，最小 1MB
	megabytes := int(a.MaxFileSize / datasize.MB)
	if megabytes < 1 {
		megabytes = 1
	}
	lj := &lumberjack.Logger{
		Filename:   a.File,
		MaxSize:    megabytes,
		MaxBackups: a.MaxBackupIndex,
		MaxAge:     a.MaxAge,
		Compress:   a.Compress,
		LocalTime:  true,
	}
	return a.setWriter(lj, lj, false, 0)
}
