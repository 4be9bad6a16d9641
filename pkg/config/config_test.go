package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Basic(t *testing.T) {
	cfg := New()

	cfg.Set("name", "test")
	cfg.Set("port", 8080)
	cfg.Set("enabled", true)

	if val := cfg.GetString("name"); val != "test" {
		t.Errorf("expected 'test', got '%s'", val)
	}
	if val := cfg.GetInt("port"); val != 8080 {
		t.Errorf("expected 8080, got %d", val)
	}
	if val := cfg.GetBool("enabled"); val != true {
		t.Errorf("expected true, got %v", val)
	}
	if cfg.Has("missing") {
		t.Error("missing key should not exist")
	}
	if val := cfg.GetStringWithDefault("missing", "x"); val != "x" {
		t.Errorf("expected default 'x', got '%s'", val)
	}
}

func TestConfig_NestedAccess(t *testing.T) {
	cfg := New()

	cfg.Set("database.host", "localhost")
	cfg.Set("database.port", 3306)
	cfg.Set("database.credentials.username", "admin")

	if val := cfg.GetString("database.host"); val != "localhost" {
		t.Errorf("expected 'localhost', got '%s'", val)
	}
	if val := cfg.GetInt("database.port"); val != 3306 {
		t.Errorf("expected 3306, got %d", val)
	}
	if val := cfg.GetString("database.credentials.username"); val != "admin" {
		t.Errorf("expected 'admin', got '%s'", val)
	}

	// 覆盖非 map 的中间节点
	cfg.Set("database.host.name", "db1")
	if val := cfg.GetString("database.host.name"); val != "db1" {
		t.Errorf("expected 'db1', got '%s'", val)
	}
}

func TestConfig_Lookup(t *testing.T) {
	cfg := New()
	cfg.Set("db.host", "localhost")
	cfg.Set("db.port", 3306)
	cfg.Set("ratio", 0.25)
	cfg.Set("debug", false)
	cfg.Set("list", []any{"a"})

	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"db.host", "localhost", true},
		{"db.port", "3306", true},
		{"ratio", "0.25", true},
		{"debug", "false", true},
		{"db", "", false},
		{"list", "", false},
		{"nope", "", false},
	}
	for _, tt := range tests {
		got, ok := cfg.Lookup(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfig_Unmarshal(t *testing.T) {
	type Server struct {
		Host    string        `yaml:"host"`
		Port    int           `yaml:"port"`
		Timeout time.Duration `yaml:"timeout"`
	}
	type AppConfig struct {
		Name   string `yaml:"name"`
		Server Server `yaml:"server"`
	}

	cfg := New()
	cfg.Set("name", "MyApp")
	cfg.Set("server.host", "0.0.0.0")
	cfg.Set("server.port", 8080)
	cfg.Set("server.timeout", "5s")

	var app AppConfig
	if err := cfg.Unmarshal(&app); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if app.Name != "MyApp" || app.Server.Port != 8080 || app.Server.Timeout != 5*time.Second {
		t.Errorf("unexpected result: %+v", app)
	}

	var srv Server
	if err := cfg.UnmarshalKey("server", &srv); err != nil {
		t.Fatalf("failed to unmarshal key: %v", err)
	}
	if srv.Host != "0.0.0.0" {
		t.Errorf("expected '0.0.0.0', got '%s'", srv.Host)
	}

	if err := cfg.UnmarshalKey("name", &srv); err == nil {
		t.Error("expected error for scalar key")
	}
	if err := cfg.UnmarshalKey("nope", &srv); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatJSON, `{"app": {"name": "x", "port": 1}}`},
		{FormatYAML, "app:\n  name: x\n  port: 1\n"},
		{FormatTOML, "[app]\nname = \"x\"\nport = 1\n"},
	}
	for _, tt := range tests {
		cfg, err := LoadFromBytes([]byte(tt.data), tt.format)
		if err != nil {
			t.Fatalf("%s: %v", tt.format, err)
		}
		if cfg.GetString("app.name") != "x" || cfg.GetInt("app.port") != 1 {
			t.Errorf("%s: unexpected content %v", tt.format, cfg.GetAll())
		}
	}

	if _, err := LoadFromBytes([]byte("x"), Format("ini")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoad_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.json")
	prod := filepath.Join(dir, "prod.yaml")
	writeFileT(t, base, `{"name": "app", "server": {"port": 8080, "host": "a"}}`)
	writeFileT(t, prod, "server:\n  port: 9090\nenv: production\n")

	cfg, err := Load(base, prod)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if cfg.GetString("name") != "app" {
		t.Error("name should be kept from base")
	}
	if cfg.GetInt("server.port") != 9090 {
		t.Error("port should be overridden")
	}
	if cfg.GetString("server.host") != "a" {
		t.Error("host should survive the merge")
	}

	_, err = Load(filepath.Join(dir, "props.ini"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("TEST_HOST", "localhost")
	t.Setenv("TEST_PORT", "3306")

	file := filepath.Join(t.TempDir(), "config.json")
	writeFileT(t, file, `{
		"host": "${TEST_HOST}",
		"port": "${TEST_PORT}",
		"default": "${NONEXISTENT:-default_value}",
		"list": ["${TEST_HOST}"]
	}`)

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("failed to load config with env: %v", err)
	}
	if val := cfg.GetString("host"); val != "localhost" {
		t.Errorf("expected 'localhost', got '%s'", val)
	}
	if val := cfg.GetInt("port"); val != 3306 {
		t.Errorf("expected 3306, got %d", val)
	}
	if val := cfg.GetString("default"); val != "default_value" {
		t.Errorf("expected 'default_value', got '%s'", val)
	}
	if list, _ := cfg.Get("list"); list.([]any)[0] != "localhost" {
		t.Errorf("list not expanded: %v", list)
	}

	raw, err := LoadWithoutEnv(file)
	if err != nil {
		t.Fatal(err)
	}
	if val := raw.GetString("host"); val != "${TEST_HOST}" {
		t.Errorf("expected raw value, got '%s'", val)
	}
}

func TestLoad_UnresolvedEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	writeFileT(t, file, "host: ${OCTOLOG_SURELY_UNSET_VAR}\n")

	if _, err := Load(file); err == nil {
		t.Error("expected error for unresolved variable")
	}
}

func TestMustLoad(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestMustUnmarshal(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "my-app")

	file := filepath.Join(t.TempDir(), "config.yaml")
	writeFileT(t, file, "name: ${TEST_APP_NAME}\nport: 8080\n")

	var c struct {
		Name string `yaml:"name"`
		Port int    `yaml:"port"`
	}
	MustUnmarshal(file, &c)

	if c.Name != "my-app" || c.Port != 8080 {
		t.Errorf("unexpected result: %+v", c)
	}
}

func TestWriteToFile(t *testing.T) {
	dir := t.TempDir()

	cfg := New()
	cfg.Set("app.name", "TestApp")
	cfg.Set("app.port", 8080)

	for _, name := range []string{"out.json", "out.yaml", "out.toml"} {
		path := filepath.Join(dir, name)
		if err := cfg.WriteToFile(path); err != nil {
			t.Fatalf("%s: failed to write: %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("%s: failed to load: %v", name, err)
		}
		if loaded.GetString("app.name") != "TestApp" || loaded.GetInt("app.port") != 8080 {
			t.Errorf("%s: content mismatch %v", name, loaded.GetAll())
		}
	}

	err := cfg.WriteToFile(filepath.Join(dir, "out.ini"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func writeFileT(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
}
