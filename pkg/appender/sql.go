package appender

import (
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// DefaultStatement 默认插入语句，命名参数见 SQL.row
const DefaultStatement = "INSERT INTO logs (time, logger, level, message) VALUES (:time, :logger, :level, :message)"

// SQL 以命名参数执行插入语句，BufferSize 条事件批量写入一次
type SQL struct {
	core.Base

	Driver     string
	DSN        string
	Statement  string
	BufferSize int

	mu     sync.Mutex
	db     *sqlx.DB
	buffer []map[string]any
}

// NewSQL creates a SQL appender for MySQL that writes each event immediately.
func NewSQL() *SQL {
	return &SQL{
		Base:       core.NewBase(),
		Driver:     "mysql",
		Statement:  DefaultStatement,
		BufferSize: 1,
	}
}

// SetDB injects an existing connection; Activate then skips opening one.
func (a *SQL) SetDB(db *sqlx.DB) {
	a.mu.Lock()
	a.db = db
	a.mu.Unlock()
}

// Activate opens the database handle. The connection itself is lazy.
func (a *SQL) Activate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Statement == "" {
		return fmt.Errorf("appender: Statement option not set for appender %q", a.Name())
	}
	if a.db != nil {
		return nil
	}
	if a.DSN == "" {
		return fmt.Errorf("appender: DSN option not set for appender %q", a.Name())
	}
	db, err := sqlx.Open(a.Driver, a.DSN)
	if err != nil {
		return fmt.Errorf("appender: failed to open %s: %w", a.Driver, err)
	}
	a.db = db
	return nil
}

// row 语句可用的命名参数
func (a *SQL) row(e *core.Event) map[string]any {
	return map[string]any{
		"time":     e.Time,
		"logger":   e.Logger,
		"level":    e.Level.String(),
		"message":  e.Message,
		"thread":   e.Thread,
		"error":    e.Error,
		"ndc":      e.NDC,
		"rendered": string(a.Render(e)),
	}
}

func (a *SQL) Append(e *core.Event) {
	if !a.Accept(e) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.buffer = append(a.buffer, a.row(e))
	if len(a.buffer) >= a.BufferSize {
		a.flushLocked(e)
	}
}

// Flush writes buffered rows.
func (a *SQL) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flushLocked(nil)
}

func (a *SQL) flushLocked(e *core.Event) {
	if len(a.buffer) == 0 {
		return
	}
	rows := a.buffer
	a.buffer = nil

	if a.db == nil {
		a.Fail("no database for appender "+a.Name(), ErrNotActivated, e)
		return
	}
	for _, row := range rows {
		if _, err := a.db.NamedExec(a.Statement, row); err != nil {
			a.Fail("failed to insert event", err, e)
		}
	}
}

func (a *SQL) Close() error {
	if !a.MarkClosed() {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flushLocked(nil)
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
