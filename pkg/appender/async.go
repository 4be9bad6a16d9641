package appender

import (
	"sync"
	"sync/atomic"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// Async 把事件放入缓冲队列，由后台 goroutine 转发给子 appender
type Async struct {
	core.Base

	BufferSize int
	// Blocking 为 false 时队列满即丢弃
	Blocking bool

	mu       sync.RWMutex
	children []core.Appender
	qmu      sync.RWMutex // 保护 ch 的关闭
	ch       chan *core.Event
	done     chan struct{}
	start    sync.Once
	dropped  atomic.Int64
}

// NewAsync creates an Async appender with a 128-event blocking buffer.
func NewAsync() *Async {
	return &Async{Base: core.NewBase(), BufferSize: 128, Blocking: true}
}

// AddAppender attaches a child appender.
func (a *Async) AddAppender(child core.Appender) {
	a.mu.Lock()
	a.children = append(a.children, child)
	a.mu.Unlock()
}

// Appenders returns the attached children.
func (a *Async) Appenders() []core.Appender {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]core.Appender(nil), a.children...)
}

// Activate starts the dispatch goroutine.
func (a *Async) Activate() error {
	a.start.Do(a.run)
	return nil
}

func (a *Async) run() {
	size := a.BufferSize
	if size <= 0 {
		size = 1
	}
	ch := make(chan *core.Event, size)
	done := make(chan struct{})
	a.ch, a.done = ch, done

	// goroutine 只持有局部变量，Close 置空 a.ch 不影响它退出
	go func() {
		defer close(done)
		for e := range ch {
			for _, c := range a.Appenders() {
				c.Append(e)
			}
		}
	}()
}

func (a *Async) Append(e *core.Event) {
	if !a.Accept(e) {
		return
	}
	a.start.Do(a.run)

	a.qmu.RLock()
	defer a.qmu.RUnlock()
	if a.ch == nil {
		return
	}
	if a.Blocking {
		a.ch <- e
		return
	}
	select {
	case a.ch <- e:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close drains the queue. Children are owned by the configuration and are
// closed there.
func (a *Async) Close() error {
	if !a.MarkClosed() {
		return nil
	}
	a.start.Do(a.run)

	a.qmu.Lock()
	close(a.ch)
	a.ch = nil
	a.qmu.Unlock()
	<-a.done
	return nil
}
