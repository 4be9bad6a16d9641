package app

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HorseArcher567/octolog/pkg/appender"
	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/level"
	"github.com/HorseArcher567/octolog/pkg/receiver"
	"github.com/HorseArcher567/octolog/pkg/subst"
	"github.com/HorseArcher567/octolog/pkg/xlog"
)

const docV1 = `<configuration>
  <appender name="mem" class="Memory">
    <layout class="Pattern">
      <param name="ConversionPattern" value="${layout.pattern}"/>
    </layout>
  </appender>
  <logger name="svc">
    <level value="${svc.level}"/>
  </logger>
  <root>
    <level value="${root.level}"/>
    <appender-ref ref="mem"/>
  </root>
</configuration>`

const docV2 = `<configuration>
  <appender name="mem2" class="Memory"/>
  <root>
    <level value="ERROR"/>
    <appender-ref ref="mem2"/>
  </root>
</configuration>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestApp(t *testing.T, doc string, mutate func(*Config)) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	docPath := filepath.Join(dir, "log4j.xml")
	writeFile(t, docPath, doc)

	propPath := filepath.Join(dir, "props.yaml")
	writeFile(t, propPath, "layout:\n  pattern: \"%p %c - %m%n\"\nsvc:\n  level: WARN\n")

	cfg := &Config{
		Document:      docPath,
		Properties:    map[string]string{"svc.level": "INFO"},
		PropertyFiles: []string{propPath},
	}
	if mutate != nil {
		mutate(cfg)
	}

	a, err := New(cfg, WithLogger(xlog.Discard()), WithLookup(subst.Map{"root.level": "DEBUG"}))
	require.NoError(t, err)
	return a, docPath
}

func memory(t *testing.T, a *App, name string) *appender.Memory {
	t.Helper()
	cur := a.Current()
	require.NotNil(t, cur)
	ap, ok := cur.Appender(name)
	require.True(t, ok)
	m, ok := ap.(*appender.Memory)
	require.True(t, ok)
	return m
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{})
	assert.Error(t, err)

	_, err = New(&Config{Document: "x.xml", PropertyFiles: []string{"/does/not/exist.yaml"}}, WithLogger(xlog.Discard()))
	assert.Error(t, err)
}

func TestReloadSubstitutesAndSwaps(t *testing.T) {
	a, docPath := newTestApp(t, docV1, nil)
	t.Cleanup(func() { _ = a.Close() })

	assert.Nil(t, a.Current())
	assert.Zero(t, a.Dispatch(&core.Event{Logger: "svc", Level: level.Info, Message: "dropped"}))

	require.NoError(t, a.Reload(context.Background()))
	require.NoError(t, a.LastError())

	cur := a.Current()
	// properties 优先于属性文件
	lvl, ok := cur.Hierarchy().Logger("svc").Level()
	require.True(t, ok)
	assert.Equal(t, level.Info, lvl)
	assert.Equal(t, level.Debug, cur.Hierarchy().EffectiveLevel("other"))

	assert.Equal(t, 1, a.Dispatch(&core.Event{Logger: "svc", Level: level.Info, Message: "hello"}))
	mem := memory(t, a, "mem")
	assert.Equal(t, []string{"INFO svc - hello\n"}, mem.Lines())

	// 失败时保留旧配置
	writeFile(t, docPath, "<notconfig/>")
	assert.Error(t, a.Reload(context.Background()))
	assert.Error(t, a.LastError())
	assert.Same(t, cur, a.Current())

	writeFile(t, docPath, docV2)
	require.NoError(t, a.Reload(context.Background()))
	assert.NoError(t, a.LastError())
	assert.NotSame(t, cur, a.Current())
	assert.Equal(t, int64(2), a.Reloads())

	_, ok = a.Current().Appender("mem")
	assert.False(t, ok)
}

func TestRunServesAndReloads(t *testing.T) {
	a, docPath := newTestApp(t, docV1, func(c *Config) {
		c.Watch = true
		c.Debounce = 50 * time.Millisecond
		c.Receiver = &receiver.Config{Network: "udp", Addr: "127.0.0.1:0", Codec: "json"}
		c.Admin = nil
	})

	var hookRan, shutdownRan bool
	a.OnBeforeRun(func(context.Context, *App) error { hookRan = true; return nil })
	a.OnShutdown(func(context.Context, *App) error { shutdownRan = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.ReceiverAddr() != "" }, 5*time.Second, 20*time.Millisecond)
	first := a.Current()
	require.NotNil(t, first)
	mem := memory(t, a, "mem")

	codec, err := receiver.NewCodec("json")
	require.NoError(t, err)
	ev := &core.Event{Time: time.Now(), Logger: "svc", Level: level.Warn, Message: "remote"}
	require.NoError(t, receiver.Send(ctx, "udp", a.ReceiverAddr(), codec, ev))
	require.Eventually(t, func() bool { return len(mem.Lines()) == 1 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "WARN svc - remote\n", mem.Lines()[0])

	writeFile(t, docPath, docV2)
	require.Eventually(t, func() bool { return a.Current() != first }, 5*time.Second, 20*time.Millisecond)
	_, ok := a.Current().Appender("mem2")
	assert.True(t, ok)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.True(t, hookRan)
	assert.True(t, shutdownRan)
	assert.Nil(t, a.Current())
}

func TestRunAdmin(t *testing.T) {
	a, _ := newTestApp(t, docV1, func(c *Config) {
		c.Admin = adminConfig()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool { return a.AdminAddr() != "" }, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + a.AdminAddr() + "/appenders")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var appenders []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&appenders))
	require.Len(t, appenders, 1)
	assert.Equal(t, "mem", appenders[0].Name)

	post, err := http.Post("http://"+a.AdminAddr()+"/reload", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusOK, post.StatusCode)
	assert.Equal(t, int64(2), a.Reloads())
}

func TestRunInitialLoadFailure(t *testing.T) {
	a, _ := newTestApp(t, "<bogus/>", nil)
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial load")
}
