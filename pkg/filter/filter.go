// Package filter provides the built-in filter chain nodes.
package filter

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/level"
)

// onMatch 命中时的判定
func onMatch(accept bool) core.Decision {
	if accept {
		return core.Accept
	}
	return core.Deny
}

// LevelMatch 级别完全相等时接受（或拒绝），否则中立
type LevelMatch struct {
	LevelToMatch  *level.Level
	AcceptOnMatch bool
}

// NewLevelMatch creates a LevelMatch filter that accepts on match.
func NewLevelMatch() *LevelMatch {
	return &LevelMatch{AcceptOnMatch: true}
}

func (f *LevelMatch) Decide(e *core.Event) core.Decision {
	if f.LevelToMatch == nil || e.Level != *f.LevelToMatch {
		return core.Neutral
	}
	return onMatch(f.AcceptOnMatch)
}

// LevelRange 拒绝范围外的事件；范围内 AcceptOnMatch 时接受，否则中立
type LevelRange struct {
	LevelMin      *level.Level
	LevelMax      *level.Level
	AcceptOnMatch bool
}

// NewLevelRange creates an unbounded LevelRange filter.
func NewLevelRange() *LevelRange {
	return &LevelRange{}
}

// Activate rejects an inverted range.
func (f *LevelRange) Activate() error {
	if f.LevelMin != nil && f.LevelMax != nil && *f.LevelMin > *f.LevelMax {
		return fmt.Errorf("filter: LevelMin %s above LevelMax %s", f.LevelMin, f.LevelMax)
	}
	return nil
}

func (f *LevelRange) Decide(e *core.Event) core.Decision {
	if f.LevelMin != nil && e.Level < *f.LevelMin {
		return core.Deny
	}
	if f.LevelMax != nil && e.Level > *f.LevelMax {
		return core.Deny
	}
	if f.AcceptOnMatch {
		return core.Accept
	}
	return core.Neutral
}

// StringMatch 消息包含 StringToMatch 时接受（或拒绝）
type StringMatch struct {
	StringToMatch string
	AcceptOnMatch bool
}

// NewStringMatch creates a StringMatch filter that accepts on match.
func NewStringMatch() *StringMatch {
	return &StringMatch{AcceptOnMatch: true}
}

func (f *StringMatch) Decide(e *core.Event) core.Decision {
	if f.StringToMatch == "" || !strings.Contains(e.Message, f.StringToMatch) {
		return core.Neutral
	}
	return onMatch(f.AcceptOnMatch)
}

// DenyAll 拒绝一切，通常放在链尾
type DenyAll struct{}

func (DenyAll) Decide(*core.Event) core.Decision {
	return core.Deny
}

// LoggerName matches the logger name against a glob such as "com.*.db" or
// "com.**". A single * does not cross a dot.
type LoggerName struct {
	Pattern       string
	AcceptOnMatch bool

	g glob.Glob
}

// NewLoggerName creates a LoggerName filter that accepts on match.
func NewLoggerName() *LoggerName {
	return &LoggerName{AcceptOnMatch: true}
}

// Activate compiles Pattern.
func (f *LoggerName) Activate() error {
	if f.Pattern == "" {
		return fmt.Errorf("filter: LoggerName requires Pattern")
	}
	g, err := glob.Compile(f.Pattern, '.')
	if err != nil {
		return fmt.Errorf("filter: bad pattern %q: %w", f.Pattern, err)
	}
	f.g = g
	return nil
}

func (f *LoggerName) Decide(e *core.Event) core.Decision {
	if f.g == nil || !f.g.Match(e.Logger) {
		return core.Neutral
	}
	return onMatch(f.AcceptOnMatch)
}
