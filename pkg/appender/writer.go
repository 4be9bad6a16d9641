// Package appender provides the built-in appenders (sinks) and error handlers.
//
// Every appender embeds core.Base for its name, layout, filter chain, error
// handler and Threshold, and is configured through exported fields bound from
// param elements, then Activate.
package appender

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/HorseArcher567/octolog/pkg/core"
)

var (
	// ErrNotActivated 未激活（没有输出目标）
	ErrNotActivated = errors.New("appender: not activated")

	// ErrClosed 已关闭
	ErrClosed = errors.New("appender: closed")
)

// writerAppender 输出到 io.Writer 的公共实现
type writerAppender struct {
	core.Base

	wmu sync.Mutex
	w   io.Writer
	buf *bufio.Writer
	c   io.Closer
}

func newWriterAppender() writerAppender {
	return writerAppender{Base: core.NewBase()}
}

// setWriter 替换输出目标，关闭旧目标
func (a *writerAppender) setWriter(w io.Writer, c io.Closer, buffered bool, size int) error {
	a.wmu.Lock()
	defer a.wmu.Unlock()

	if err := a.closeLocked(); err != nil {
		return err
	}
	a.w, a.c, a.buf = w, c, nil
	if buffered {
		if size <= 0 {
			size = 8 * 1024
		}
		a.buf = bufio.NewWriterSize(w, size)
		a.w = a.buf
	}
	return nil
}

func (a *writerAppender) Append(e *core.Event) {
	if !a.Accept(e) {
		return
	}
	p := a.Render(e)

	a.wmu.Lock()
	defer a.wmu.Unlock()
	if a.w == nil {
		a.Fail("no output stream for appender "+a.Name(), ErrNotActivated, e)
		return
	}
	if _, err := a.w.Write(p); err != nil {
		a.Fail("failed to write to appender "+a.Name(), err, e)
	}
}

// Flush 刷新缓冲
func (a *writerAppender) Flush() error {
	a.wmu.Lock()
	defer a.wmu.Unlock()
	if a.buf != nil {
		return a.buf.Flush()
	}
	return nil
}

func (a *writerAppender) Close() error {
	if !a.MarkClosed() {
		return nil
	}
	a.wmu.Lock()
	defer a.wmu.Unlock()
	return a.closeLocked()
}

func (a *writerAppender) closeLocked() error {
	var err error
	if a.buf != nil {
		err = a.buf.Flush()
	}
	if a.c != nil {
		err = errors.Join(err, a.c.Close())
	}
	a.w, a.c, a.buf = nil, nil, nil
	return err
}
