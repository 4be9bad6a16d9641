package layout

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/level"
)

var ts = time.Date(2024, 3, 5, 14, 7, 9, 123_000_000, time.UTC)

func event() *core.Event {
	return &core.Event{
		Time:    ts,
		Logger:  "com.example.service.Handler",
		Level:   level.Warn,
		Message: "disk almost full",
		Thread:  "main",
		NDC:     "req-1",
		Fields:  map[string]any{"user": "alice", "pct": 93},
	}
}

func TestSimple(t *testing.T) {
	assert.Equal(t, "WARN - disk almost full\n", string(NewSimple().Format(event())))
}

func TestPatternConversions(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"%m%n", "disk almost full\n"},
		{"%p|%c|%t|%x", "WARN|com.example.service.Handler|main|req-1"},
		{"%c{2}", "service.Handler"},
		{"%c{9}", "com.example.service.Handler"},
		{"[%-5p]", "[WARN ]"},
		{"[%6p]", "[  WARN]"},
		{"[%.4m]", "[full]"},
		{"%X{user}/%X{missing}/", "alice//"},
		{"%X", "{pct=93, user=alice}"},
		{"100%%", "100%"},
		{"%d{yyyy-MM-dd HH:mm:ss,SSS}", "2024-03-05 14:07:09,123"},
		{"%d{ABSOLUTE}", "14:07:09,123"},
		{"%d", "2024-03-05 14:07:09,123"},
		{"%d{2006/01/02}", "2024/03/05"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := NewPatternWith(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(p.Format(event())))
		})
	}
}

func TestPatternElapsed(t *testing.T) {
	p, err := NewPatternWith("%r")
	require.NoError(t, err)
	p.start = ts.Add(-1500 * time.Millisecond)
	assert.Equal(t, "1500", string(p.Format(event())))
}

func TestPatternErrors(t *testing.T) {
	for _, bad := range []string{"%", "%q", "%d{yyyy", "%-5"} {
		_, err := NewPatternWith(bad)
		assert.ErrorIs(t, err, ErrBadPattern, bad)
	}
}

func TestPatternLazyCompile(t *testing.T) {
	p := NewPattern()
	p.ConversionPattern = "%p %m"
	assert.Equal(t, "WARN disk almost full", string(p.Format(event())))

	bad := NewPattern()
	bad.ConversionPattern = "%q"
	assert.Equal(t, "disk almost full\n", string(bad.Format(event())))
}

func TestDateLayout(t *testing.T) {
	assert.Equal(t, ISO8601, DateLayout("iso8601"))
	assert.Equal(t, Date, DateLayout("DATE"))
	assert.Equal(t, "06.01.02 03:04 PM", DateLayout("yy.MM.dd hh:mm a"))
	assert.Equal(t, "2006-01-02T15:04:05", DateLayout("yyyy-MM-dd'T'HH:mm:ss"))
	assert.Equal(t, "Monday, January 02", DateLayout("EEEE, MMMM dd"))
}

func TestJSON(t *testing.T) {
	out := NewJSON().Format(event())
	require.True(t, strings.HasSuffix(string(out), "\n"))

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "disk almost full", m["message"])
	assert.Equal(t, "WARN", m["level"])
	assert.Equal(t, "com.example.service.Handler", m["logger"])
	assert.Equal(t, "main", m["thread"])
	assert.Equal(t, "alice", m["user"])
	assert.Equal(t, float64(93), m["pct"])
	assert.Contains(t, m["time"], "2024-03-05T14:07:09.123")
}

func TestJSONCustomKeys(t *testing.T) {
	j := NewJSON()
	j.MessageKey = "msg"
	j.Fields = false
	require.NoError(t, j.Activate())

	var m map[string]any
	require.NoError(t, json.Unmarshal(j.Format(event()), &m))
	assert.Equal(t, "disk almost full", m["msg"])
	assert.NotContains(t, m, "user")
}

func TestXML(t *testing.T) {
	out := NewXML().Format(event())

	var x XMLEvent
	require.NoError(t, xml.Unmarshal(out, &x))
	assert.Equal(t, "com.example.service.Handler", x.Logger)
	assert.Equal(t, "WARN", x.Level)
	assert.Equal(t, ts.UnixMilli(), x.Timestamp)
	assert.Equal(t, "disk almost full", x.Message)
	require.NotNil(t, x.Properties)
	assert.Equal(t, []XMLData{{Name: "pct", Value: "93"}, {Name: "user", Value: "alice"}}, x.Properties.Data)
}
