package propset

import (
	"errors"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HorseArcher567/octolog/pkg/level"
)

type embedded struct {
	Threshold level.Level `param:"Threshold"`
	Target    string
}

type sample struct {
	embedded

	Target            string
	ConversionPattern string
	Append            bool
	BufferSize        int
	Ratio             float64
	Port              uint16
	Flush             time.Duration
	MaxFileSize       datasize.ByteSize
	Keys              []string
	Optional          *int
	Renamed           string `param:"File"`
	Hidden            string `param:"-"`
	private           string
}

func TestSetFields(t *testing.T) {
	var s sample
	set := func(name, value string) {
		t.Helper()
		require.NoError(t, Set(&s, name, value))
	}

	set("conversionpattern", "%m%n")
	set("Append", "FALSE")
	set("BufferSize", "0x10")
	set("Ratio", "0.5")
	set("Port", "514")
	set("Flush", "1500")
	set("MaxFileSize", "10MB")
	set("Keys", " a, b ,,c ")
	set("Optional", "7")
	set("file", "/tmp/x.log")
	set(" Threshold ", "warn")

	assert.Equal(t, "%m%n", s.ConversionPattern)
	assert.False(t, s.Append)
	assert.Equal(t, 16, s.BufferSize)
	assert.Equal(t, 0.5, s.Ratio)
	assert.Equal(t, uint16(514), s.Port)
	assert.Equal(t, 1500*time.Millisecond, s.Flush)
	assert.Equal(t, 10*datasize.MB, s.MaxFileSize)
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys)
	require.NotNil(t, s.Optional)
	assert.Equal(t, 7, *s.Optional)
	assert.Equal(t, "/tmp/x.log", s.Renamed)
	assert.Equal(t, level.Warn, s.Threshold)
}

func TestOuterFieldShadowsEmbedded(t *testing.T) {
	var s sample
	require.NoError(t, Set(&s, "Target", "System.err"))
	assert.Equal(t, "System.err", s.Target)
	assert.Empty(t, s.embedded.Target)
}

func TestUnknownAndHidden(t *testing.T) {
	var s sample
	err := Set(&s, "Nope", "1")
	assert.ErrorIs(t, err, ErrNoSuchProperty)

	assert.ErrorIs(t, Set(&s, "Hidden", "x"), ErrNoSuchProperty)
	assert.ErrorIs(t, Set(&s, "private", "x"), ErrNoSuchProperty)
}

func TestConversionFailure(t *testing.T) {
	var s sample
	err := Set(&s, "BufferSize", "lots")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSuchProperty))
	assert.Contains(t, err.Error(), "BufferSize")

	assert.Error(t, Set(&s, "Port", "70000"))
	assert.Error(t, Set(&s, "Append", "maybe"))
}

type custom struct {
	got map[string]string
}

func (c *custom) SetProperty(name, value string) error {
	if c.got == nil {
		c.got = make(map[string]string)
	}
	c.got[name] = value
	return nil
}

func TestSetPrefersPropertySetter(t *testing.T) {
	c := &custom{}
	require.NoError(t, Set(c, "x", "1"))
	assert.Equal(t, map[string]string{"x": "1"}, c.got)
}

func TestNotStruct(t *testing.T) {
	n := 3
	assert.ErrorIs(t, Set(&n, "x", "1"), ErrNotStruct)
	assert.ErrorIs(t, Set(sample{}, "x", "1"), ErrNotStruct)
}

func TestBoolHelpers(t *testing.T) {
	v, err := ParseBool("On")
	require.NoError(t, err)
	assert.True(t, v)

	assert.True(t, ToBoolean("", true))
	assert.True(t, ToBoolean("yes", true))
	assert.False(t, ToBoolean("False", true))
	assert.True(t, ToBoolean(" TRUE ", false))
}
