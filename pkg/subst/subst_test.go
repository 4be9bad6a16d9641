package subst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	s := New(Map{
		"app":     "octolog",
		"dir":     "/var/log/${app}",
		"file":    "${dir}/main.log",
		"env":     "prod",
		"prod.lv": "WARN",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no reference", "plain text", "plain text"},
		{"simple", "${app}", "octolog"},
		{"embedded", "name=${app}!", "name=octolog!"},
		{"recursive value", "${file}", "/var/log/octolog/main.log"},
		{"default unused", "${app:-x}", "octolog"},
		{"default used", "${missing:-fallback}", "fallback"},
		{"empty default", "[${missing:-}]", "[]"},
		{"default with reference", "${missing:-${app}}", "octolog"},
		{"nested name", "${${env}.lv}", "WARN"},
		{"escape", "$${app}", "${app}"},
		{"multiple", "${app}-${env}", "octolog-prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Replace(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceLeavesUnresolved(t *testing.T) {
	s := New(Map{"a": "1"})

	got, err := s.Replace("x=${nope} a=${a}")
	assert.Equal(t, "x=${nope} a=1", got)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestReplaceMalformed(t *testing.T) {
	s := New(nil)

	got, err := s.Replace("oops ${unterminated")
	assert.Equal(t, "oops ${unterminated", got)
	assert.ErrorIs(t, err, ErrMalformed)

	got, err = s.Replace("${}")
	assert.Equal(t, "${}", got)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReplaceCycle(t *testing.T) {
	s := New(Map{"a": "${b}", "b": "${a}"})

	got, err := s.Replace("${a}")
	assert.Equal(t, "${a}", got)
	assert.ErrorIs(t, err, ErrRecursive)
}

func TestPrefixLookups(t *testing.T) {
	t.Setenv("OCTOLOG_TEST_DIR", "/tmp/octolog")

	s := New(nil).WithPrefix("sys", Map{"user.home": "/home/me"})

	got, err := s.Replace("${env:OCTOLOG_TEST_DIR}/${sys:user.home}")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/octolog//home/me", got)

	_, err = s.Replace("${nope:x}")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestChainAndPrefixed(t *testing.T) {
	c := Chain{nil, Map{"a": "1"}, Map{"a": "2", "b": "2"}}
	v, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = c.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	p := Prefixed("cfg.", Map{"x": "y"})
	v, ok = p.Lookup("cfg.x")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
	_, ok = p.Lookup("x")
	assert.False(t, ok)
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "a\nb\tc", Unescape(`a\nb\tc`))
	assert.Equal(t, `q"'\`, Unescape(`q\"\'\\`))
	assert.Equal(t, "trailing\\", Unescape(`trailing\`))
	assert.Equal(t, "plain", Unescape("plain"))
}
