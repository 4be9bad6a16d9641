package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE log4j:configuration SYSTEM "log4j.dtd">
<log4j:configuration xmlns:log4j="http://jakarta.apache.org/log4j/" debug="true">
  <appender name="A" class="Console">
    <param name="Target" value="System.out"/>
    <layout class="PatternLayout">
      <param name="ConversionPattern" value="%p %m%n"/>
    </layout>
  </appender>
  <logger name="foo" additivity="false">
    <level value="INFO"/>
    <appender-ref ref="A"/>
  </logger>
  <root>
    <level value="WARN"/>
    <appender-ref ref="A"/>
  </root>
</log4j:configuration>
`

func TestParseXML(t *testing.T) {
	root, err := Parse([]byte(sampleXML), FormatXML)
	require.NoError(t, err)

	assert.Equal(t, "log4j:configuration", root.Tag)
	assert.Equal(t, "true", root.Attr("debug"))
	assert.False(t, root.HasAttr("xmlns"))
	require.Len(t, root.Children, 3)

	app := root.Children[0]
	assert.Equal(t, "appender", app.Tag)
	assert.Equal(t, "A", app.Attr("name"))
	assert.Equal(t, "Console", app.Attr("class"))
	assert.Greater(t, app.Line, 0)
	require.Len(t, app.Children, 2)
	assert.Equal(t, "layout", app.Children[1].Tag)

	logger := root.Children[1]
	assert.Equal(t, "false", logger.Attr("additivity"))
	assert.Equal(t, []string{"level", "appender-ref"}, []string{logger.Children[0].Tag, logger.Children[1].Tag})
}

func TestParseXMLPlainRoot(t *testing.T) {
	root, err := Parse([]byte(`<configuration><root/></configuration>`), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, "configuration", root.Tag)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "root", root.Children[0].Tag)
}

func TestParseXMLErrors(t *testing.T) {
	_, err := Parse([]byte(`<configuration><root></configuration>`), FormatXML)
	assert.Error(t, err)

	_, err = Parse([]byte(``), FormatXML)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

const sampleYAML = `
configuration:
  debug: "false"
  appender:
    - name: A
      class: Console
      param:
        - name: x
          value: 1
    - name: B
      class: "Null"
  root:
    level:
      value: WARN
    appender-ref:
      - ref: A
      - ref: B
`

func TestParseYAML(t *testing.T) {
	root, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "configuration", root.Tag)
	assert.Equal(t, "false", root.Attr("debug"))

	apps := root.FindAll("appender")
	require.Len(t, apps, 2)
	assert.Equal(t, "A", apps[0].Attr("name"))
	assert.Equal(t, "B", apps[1].Attr("name"))

	params := apps[0].FindAll("param")
	require.Len(t, params, 1)
	assert.Equal(t, "1", params[0].Attr("value"))

	refs := root.FindAll("appender-ref")
	require.Len(t, refs, 2)
	assert.Equal(t, "A", refs[0].Attr("ref"))
	assert.Equal(t, "B", refs[1].Attr("ref"))
}

func TestParseJSONKeepsOrder(t *testing.T) {
	data := `{"configuration": {
		"logger": [
			{"name": "b", "level": {"value": "INFO"}},
			{"name": "a", "additivity": false}
		],
		"root": {"appender-ref": {"ref": "X"}}
	}}`

	root, err := Parse([]byte(data), FormatJSON)
	require.NoError(t, err)

	loggers := root.FindAll("logger")
	require.Len(t, loggers, 2)
	assert.Equal(t, "b", loggers[0].Attr("name"))
	assert.Equal(t, "a", loggers[1].Attr("name"))
	assert.Equal(t, "false", loggers[1].Attr("additivity"))
	assert.Equal(t, "root", root.Children[2].Tag)
}

func TestParseTOML(t *testing.T) {
	data := `
[configuration]
debug = true

[[configuration.appender]]
name = "A"
class = "Console"

[[configuration.appender.param]]
name = "Target"
value = "System.err"

[configuration.root.level]
value = "ERROR"
`
	root, err := Parse([]byte(data), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "true", root.Attr("debug"))
	apps := root.FindAll("appender")
	require.Len(t, apps, 1)
	assert.Equal(t, "System.err", apps[0].FindAll("param")[0].Attr("value"))
	assert.Equal(t, "ERROR", root.FindAll("level")[0].Attr("value"))
}

func TestStructuredRootMustBeSingle(t *testing.T) {
	_, err := Parse([]byte(`{"a": {}, "b": {}}`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte(`configuration: [1, 2]`), FormatYAML)
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))

	root, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log4j:configuration", root.Tag)

	_, err = ParseFile(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}

func TestDetectAndParseFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("a/b.yml"))
	assert.Equal(t, FormatXML, DetectFormat("log4j.XML"))
	assert.Equal(t, FormatAuto, DetectFormat("log4j.conf"))

	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestElementHelpers(t *testing.T) {
	el := NewElement("appender").SetAttr("name", "A").SetAttr("class", "Console")
	el.Line = 7
	el.Append(NewElement("param"), NewElement("layout").Append(NewElement("param")))

	assert.Len(t, el.FindAll("param"), 2)
	assert.Equal(t, []string{"name", "class"}, el.AttrNames())
	assert.Equal(t, `<appender name="A" class="Console"> (line 7)`, el.Location())
	assert.Equal(t, "", (*Element)(nil).Attr("x"))
}
