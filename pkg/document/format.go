package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format 配置文档格式
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatAuto Format = "auto" // 根据内容自动检测
)

var (
	// ErrEmptyDocument is returned when the source holds no root element.
	ErrEmptyDocument = errors.New("document: empty document")

	// ErrUnsupportedFormat is returned for unknown format names.
	ErrUnsupportedFormat = errors.New("document: unsupported format")
)

// ParseFile 从文件解析配置文档，格式由扩展名决定，无法识别时按内容检测
func ParseFile(path string) (*Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: failed to read file %s: %w", path, err)
	}

	root, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("document: failed to parse %s: %w", path, err)
	}
	return root, nil
}

// Parse 解析字节流
func Parse(data []byte, format Format) (*Element, error) {
	if format == FormatAuto || format == "" {
		format = sniff(data)
	}

	switch format {
	case FormatXML:
		return parseXML(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatTOML:
		return parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a user-supplied format name ("yml", "XML", ...) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "", "auto":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// DetectFormat 根据文件扩展名检测格式
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return FormatXML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}

// sniff 根据首个非空白字符猜测格式
func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatYAML
	}
	switch trimmed[0] {
	case '<':
		return FormatXML
	case '{':
		return FormatJSON
	case '[':
		return FormatTOML
	default:
		return FormatYAML
	}
}
