package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkDoc = `<configuration>
  <appender name="out" class="Console">
    <layout class="Pattern"><param name="ConversionPattern" value="${pattern}"/></layout>
  </appender>
  <logger name="svc" additivity="false">
    <level value="WARN"/>
    <appender-ref ref="out"/>
    <appender-ref ref="missing"/>
  </logger>
  <root><appender-ref ref="out"/></root>
</configuration>`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log4j.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCheck(t *testing.T) {
	path := writeDoc(t, checkDoc)

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), &out, path, map[string]string{"pattern": "%m%n"}, false))

	s := out.String()
	assert.Contains(t, s, "Loggers:")
	assert.Contains(t, s, "root")
	assert.Contains(t, s, "svc")
	assert.Contains(t, s, "additive=false")
	assert.Contains(t, s, "out (*appender.Console)")
	assert.Contains(t, s, "No appender named [missing] could be found.")
}

func TestRunCheckStrict(t *testing.T) {
	path := writeDoc(t, checkDoc)

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, path, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStrict))
}

func TestRunCheckNotConfiguration(t *testing.T) {
	path := writeDoc(t, "<beans/>")

	var out bytes.Buffer
	assert.Error(t, runCheck(context.Background(), &out, path, nil, false))
	assert.Empty(t, out.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "octolog version "+version+"\n", out.String())
}
