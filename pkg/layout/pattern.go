package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// DefaultConversionPattern 默认格式
const DefaultConversionPattern = "%m%n"

// ErrBadPattern 无法解析的转换模式
var ErrBadPattern = errors.New("layout: bad conversion pattern")

// Pattern formats events with a printf-like conversion pattern:
//
//	%d{fmt} date   %p level    %c{n} logger   %m message  %n newline
//	%t thread      %r elapsed ms since start  %X{key} field  %x NDC  %%
//
// Each conversion accepts the modifiers -min.max, e.g. %-5p or %.30c.
type Pattern struct {
	ConversionPattern string

	start    time.Time
	compiled atomic.Pointer[[]segment]
}

// NewPattern creates a Pattern layout with the default conversion pattern.
func NewPattern() *Pattern {
	return &Pattern{ConversionPattern: DefaultConversionPattern, start: time.Now()}
}

// NewPatternWith creates and compiles a Pattern layout.
func NewPatternWith(pattern string) (*Pattern, error) {
	p := NewPattern()
	p.ConversionPattern = pattern
	if err := p.Activate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Activate compiles ConversionPattern.
func (p *Pattern) Activate() error {
	segs, err := compile(p.ConversionPattern)
	if err != nil {
		return err
	}
	p.compiled.Store(&segs)
	return nil
}

func (p *Pattern) Format(e *core.Event) []byte {
	segs := p.compiled.Load()
	if segs == nil {
		// 未激活时按当前模式编译，失败则退回默认模式
		if err := p.Activate(); err != nil {
			fallback, _ := compile(DefaultConversionPattern)
			segs = &fallback
		} else {
			segs = p.compiled.Load()
		}
	}

	b := make([]byte, 0, 128)
	for _, s := range *segs {
		b = s.append(b, p, e)
	}
	return b
}

// segment 模式中的一段：字面量或转换
type segment struct {
	literal string
	conv    func(p *Pattern, e *core.Event) string
	left    bool
	min     int
	max     int
}

func (s segment) append(b []byte, p *Pattern, e *core.Event) []byte {
	if s.conv == nil {
		return append(b, s.literal...)
	}

	v := s.conv(p, e)
	// 超长时截掉左侧，与 log4j 一致
	if s.max > 0 && len(v) > s.max {
		v = v[len(v)-s.max:]
	}
	pad := s.min - len(v)
	if pad <= 0 {
		return append(b, v...)
	}
	if s.left {
		b = append(b, v...)
		return append(b, strings.Repeat(" ", pad)...)
	}
	b = append(b, strings.Repeat(" ", pad)...)
	return append(b, v...)
}

func compile(pattern string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		i++
		if i >= len(pattern) {
			return nil, fmt.Errorf("%w: trailing %% in %q", ErrBadPattern, pattern)
		}
		if pattern[i] == '%' {
			lit.WriteByte('%')
			continue
		}

		var seg segment
		if pattern[i] == '-' {
			seg.left = true
			i++
		}
		seg.min, i = readInt(pattern, i)
		if i < len(pattern) && pattern[i] == '.' {
			seg.max, i = readInt(pattern, i+1)
		}
		if i >= len(pattern) {
			return nil, fmt.Errorf("%w: missing conversion character in %q", ErrBadPattern, pattern)
		}

		char := pattern[i]
		var option string
		if i+1 < len(pattern) && pattern[i+1] == '{' {
			end := strings.IndexByte(pattern[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated option in %q", ErrBadPattern, pattern)
			}
			option = pattern[i+2 : i+2+end]
			i += end + 2
		}

		conv, err := converter(char, option)
		if err != nil {
			return nil, err
		}
		flush()
		seg.conv = conv
		segs = append(segs, seg)
	}
	flush()
	return segs, nil
}

func readInt(s string, i int) (int, int) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, i
	}
	n, _ := strconv.Atoi(s[i:j])
	return n, j
}

func converter(c byte, option string) (func(*Pattern, *core.Event) string, error) {
	switch c {
	case 'd':
		layout := DateLayout(option)
		return func(_ *Pattern, e *core.Event) string { return e.Time.Format(layout) }, nil
	case 'p':
		return func(_ *Pattern, e *core.Event) string { return e.Level.String() }, nil
	case 'c':
		precision, _ := strconv.Atoi(option)
		return func(_ *Pattern, e *core.Event) string { return abbreviate(e.Logger, precision) }, nil
	case 'm':
		return func(_ *Pattern, e *core.Event) string { return e.Message }, nil
	case 'n':
		return func(*Pattern, *core.Event) string { return "\n" }, nil
	case 't':
		return func(_ *Pattern, e *core.Event) string { return e.Thread }, nil
	case 'r':
		return func(p *Pattern, e *core.Event) string {
			return strconv.FormatInt(e.Time.Sub(p.start).Milliseconds(), 10)
		}, nil
	case 'X':
		return func(_ *Pattern, e *core.Event) string {
			if option == "" {
				return fieldsString(e.Fields)
			}
			if v := e.Field(option); v != nil {
				return fmt.Sprint(v)
			}
			return ""
		}, nil
	case 'x':
		return func(_ *Pattern, e *core.Event) string { return e.NDC }, nil
	default:
		return nil, fmt.Errorf("%w: unknown conversion %%%c", ErrBadPattern, c)
	}
}

// abbreviate 保留 logger 名称最后 n 段
func abbreviate(name string, n int) string {
	if n <= 0 {
		return name
	}
	end := len(name)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			n--
			if n == 0 {
				return name[i+1 : end]
			}
		}
	}
	return name
}
