package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/level"
	"github.com/HorseArcher567/octolog/pkg/propset"
)

func ev(l level.Level, logger, msg string) *core.Event {
	return &core.Event{Level: l, Logger: logger, Message: msg}
}

func TestLevelMatch(t *testing.T) {
	f := NewLevelMatch()
	assert.Equal(t, core.Neutral, f.Decide(ev(level.Info, "", "")))

	require.NoError(t, propset.Set(f, "LevelToMatch", "INFO"))
	assert.Equal(t, core.Accept, f.Decide(ev(level.Info, "", "")))
	assert.Equal(t, core.Neutral, f.Decide(ev(level.Warn, "", "")))

	require.NoError(t, propset.Set(f, "AcceptOnMatch", "false"))
	assert.Equal(t, core.Deny, f.Decide(ev(level.Info, "", "")))
}

func TestLevelRange(t *testing.T) {
	f := NewLevelRange()
	require.NoError(t, propset.Set(f, "LevelMin", "INFO"))
	require.NoError(t, propset.Set(f, "LevelMax", "ERROR"))
	require.NoError(t, f.Activate())

	assert.Equal(t, core.Deny, f.Decide(ev(level.Debug, "", "")))
	assert.Equal(t, core.Deny, f.Decide(ev(level.Fatal, "", "")))
	assert.Equal(t, core.Neutral, f.Decide(ev(level.Warn, "", "")))

	f.AcceptOnMatch = true
	assert.Equal(t, core.Accept, f.Decide(ev(level.Warn, "", "")))

	bad := NewLevelRange()
	require.NoError(t, propset.Set(bad, "LevelMin", "ERROR"))
	require.NoError(t, propset.Set(bad, "LevelMax", "INFO"))
	assert.Error(t, bad.Activate())
}

func TestStringMatch(t *testing.T) {
	f := NewStringMatch()
	assert.Equal(t, core.Neutral, f.Decide(ev(level.Info, "", "anything")))

	f.StringToMatch = "secret"
	assert.Equal(t, core.Accept, f.Decide(ev(level.Info, "", "a secret here")))
	assert.Equal(t, core.Neutral, f.Decide(ev(level.Info, "", "nothing")))

	f.AcceptOnMatch = false
	assert.Equal(t, core.Deny, f.Decide(ev(level.Info, "", "a secret here")))
}

func TestDenyAll(t *testing.T) {
	assert.Equal(t, core.Deny, DenyAll{}.Decide(ev(level.Fatal, "", "")))
}

func TestLoggerName(t *testing.T) {
	f := NewLoggerName()
	assert.Error(t, f.Activate())

	f.Pattern = "com.*.db"
	require.NoError(t, f.Activate())
	assert.Equal(t, core.Accept, f.Decide(ev(level.Info, "com.acme.db", "")))
	assert.Equal(t, core.Neutral, f.Decide(ev(level.Info, "com.acme.x.db", "")))

	f.Pattern = "com.**"
	require.NoError(t, f.Activate())
	assert.Equal(t, core.Accept, f.Decide(ev(level.Info, "com.acme.x.db", "")))
}

func TestChainFirstDecisionWins(t *testing.T) {
	match := NewStringMatch()
	match.StringToMatch = "keep"

	chain := []core.Filter{match, DenyAll{}}
	assert.Equal(t, core.Accept, core.Decide(chain, ev(level.Info, "", "keep me")))
	assert.Equal(t, core.Deny, core.Decide(chain, ev(level.Info, "", "drop me")))
}
