package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/level"
)

type countingAppender struct {
	name   string
	events []*core.Event
}

func (c *countingAppender) Name() string        { return c.name }
func (c *countingAppender) SetName(name string) { c.name = name }
func (c *countingAppender) Append(e *core.Event) {
	c.events = append(c.events, e)
}
func (c *countingAppender) Close() error { return nil }

func TestRootDefaults(t *testing.T) {
	h := New()
	root := h.Root()

	assert.True(t, root.IsRoot())
	l, ok := root.Level()
	require.True(t, ok)
	assert.Equal(t, level.Debug, l)
	assert.True(t, root.Additive())
	assert.Same(t, root, h.Logger(""))
	assert.Same(t, root, h.Logger(RootName))
}

func TestRootLevelCannotInherit(t *testing.T) {
	h := New()
	h.Root().SetLevel(level.Warn)

	assert.ErrorIs(t, h.Root().ClearLevel(), ErrRootLevelInherit)
	l, ok := h.Root().Level()
	require.True(t, ok)
	assert.Equal(t, level.Warn, l)

	h.Root().SetAdditive(false)
	assert.True(t, h.Root().Additive())
}

func TestNewNodeInherits(t *testing.T) {
	h := New()
	n := h.Logger("com.foo")

	_, ok := n.Level()
	assert.False(t, ok)
	assert.True(t, n.Additive())
	assert.Same(t, n, h.Logger("com.foo"))
	assert.True(t, h.Exists("com.foo"))
	assert.False(t, h.Exists("com"))
}

func TestEffectiveLevel(t *testing.T) {
	h := New()
	h.Root().SetLevel(level.Error)
	h.Logger("com").SetLevel(level.Info)
	h.Logger("com.foo.bar")

	assert.Equal(t, level.Info, h.EffectiveLevel("com.foo.bar"))
	assert.Equal(t, level.Info, h.EffectiveLevel("com.unknown"))
	assert.Equal(t, level.Error, h.EffectiveLevel("org"))
	assert.Equal(t, level.Error, h.EffectiveLevel(""))

	require.NoError(t, h.Logger("com").ClearLevel())
	assert.Equal(t, level.Error, h.EffectiveLevel("com.foo.bar"))
}

func TestParent(t *testing.T) {
	h := New()
	com := h.Logger("com")
	h.Logger("com.foo.bar")

	assert.Same(t, com, h.Parent("com.foo.bar"))
	assert.Same(t, com, h.Parent("com.foo"))
	assert.Same(t, h.Root(), h.Parent("com"))
}

func TestDispatchAdditivity(t *testing.T) {
	h := New()
	rootApp := &countingAppender{name: "root"}
	comApp := &countingAppender{name: "com"}
	fooApp := &countingAppender{name: "foo"}

	h.Root().AddAppender(rootApp)
	h.Logger("com").AddAppender(comApp)
	foo := h.Logger("com.foo")
	foo.AddAppender(fooApp)

	n := h.Dispatch(&core.Event{Logger: "com.foo", Level: level.Info})
	assert.Equal(t, 3, n)

	foo.SetAdditive(false)
	n = h.Dispatch(&core.Event{Logger: "com.foo.x", Level: level.Info})
	assert.Equal(t, 1, n)
	assert.Len(t, fooApp.events, 2)
	assert.Len(t, rootApp.events, 1)

	h.Root().SetLevel(level.Error)
	assert.Equal(t, 0, h.Dispatch(&core.Event{Logger: "org", Level: level.Warn}))
}

func TestRemoveAllAppenders(t *testing.T) {
	h := New()
	n := h.Logger("a")
	n.AddAppender(&countingAppender{name: "x"})
	n.AddAppender(&countingAppender{name: "y"})
	require.Len(t, n.Appenders(), 2)

	n.RemoveAllAppenders()
	assert.Empty(t, n.Appenders())
}

func TestLoggersSorted(t *testing.T) {
	h := New()
	h.Logger("b").SetLevel(level.Info)
	h.Logger("a").SetAdditive(false)
	h.Logger("a.c")

	assert.Equal(t, []string{"a", "a.c", "b"}, h.Loggers())
}
