package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HorseArcher567/octolog/pkg/appender"
	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/filter"
	"github.com/HorseArcher567/octolog/pkg/layout"
	"github.com/HorseArcher567/octolog/pkg/level"
	"github.com/HorseArcher567/octolog/pkg/registry"
)

func TestShortAndQualifiedNames(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		want any
	}{
		{"Console", &appender.Console{}},
		{"org.apache.log4j.ConsoleAppender", &appender.Console{}},
		{"org.apache.log4j.DailyRollingFileAppender", &appender.DailyRollingFile{}},
		{"org.apache.log4j.jdbc.JDBCAppender", &appender.SQL{}},
		{"org.apache.log4j.PatternLayout", &layout.Pattern{}},
		{"org.apache.log4j.xml.XMLLayout", &layout.XML{}},
		{"org.apache.log4j.varia.LevelRangeFilter", &filter.LevelRange{}},
		{"org.apache.log4j.varia.DenyAllFilter", filter.DenyAll{}},
		{"org.apache.log4j.helpers.OnlyOnceErrorHandler", &appender.OnlyOnce{}},
		{"org.apache.log4j.varia.FallbackErrorHandler", &appender.Fallback{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := r.New(tt.name)
			require.NoError(t, err)
			assert.IsType(t, tt.want, v)
		})
	}
}

func TestUnknownNames(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"org.apache.log4j.Nope", "com.example.Console", "Nope"} {
		_, err := r.New(name)
		assert.ErrorIs(t, err, registry.ErrUnknownType, name)
	}
}

func TestTTCCBuilderRegistered(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"TTCC", "TTCCLayout", "org.apache.log4j.TTCCLayout"} {
		_, ok := r.Builder(registry.KindLayout, name)
		assert.True(t, ok, name)
	}
}

func TestTTCCPattern(t *testing.T) {
	tests := []struct {
		opts ttccOptions
		want string
	}{
		{ttccOptions{DateFormat: "RELATIVE", ThreadPrinting: true, CategoryPrefixing: true, ContextPrinting: true},
			"%r [%t] %-5p %c %x - %m%n"},
		{ttccOptions{DateFormat: "NULL"}, "%-5p - %m%n"},
		{ttccOptions{DateFormat: "ISO8601", CategoryPrefixing: true}, "%d{ISO8601} %-5p %c - %m%n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ttccPattern(tt.opts))
	}

	p, err := layout.NewPatternWith(ttccPattern(ttccOptions{DateFormat: "NULL", CategoryPrefixing: true}))
	require.NoError(t, err)
	out := p.Format(&core.Event{Logger: "a.b", Level: level.Info, Message: "hi"})
	assert.Equal(t, "INFO  a.b - hi\n", string(out))
}

func TestUtilLoggingLevel(t *testing.T) {
	r := NewRegistry()
	parse, ok := r.LevelParser(UtilLoggingLevel)
	require.True(t, ok)

	l, err := parse("warning")
	require.NoError(t, err)
	assert.Equal(t, level.Warn, l)

	l, err = parse("FINEST")
	require.NoError(t, err)
	assert.Equal(t, level.Trace, l)

	_, err = parse("LOUD")
	assert.Error(t, err)
}
