package receiver

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/layout"
	"github.com/HorseArcher567/octolog/pkg/level"
)

var (
	// ErrUnknownCodec codec 名称无法识别
	ErrUnknownCodec = errors.New("receiver: unknown codec")

	// ErrEmptyPayload 空数据报
	ErrEmptyPayload = errors.New("receiver: empty payload")
)

// Codec converts events to and from a datagram payload.
type Codec interface {
	Name() string
	Decode(data []byte) (*core.Event, error)
	Encode(e *core.Event) ([]byte, error)
}

// NewCodec returns the codec registered under name: json, xml or proto.
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON{}, nil
	case "xml":
		return XML{}, nil
	case "proto", "protobuf":
		return Proto{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
	}
}

// 事件映射使用的键
const (
	keyTime      = "time"
	keyTimestamp = "timestamp"
	keyLogger    = "logger"
	keyLevel     = "level"
	keyMessage   = "message"
	keyMsg       = "msg"
	keyThread    = "thread"
	keyError     = "error"
	keyNDC       = "ndc"
)

// JSON 每个数据报一个 JSON 对象
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Decode(data []byte) (*core.Event, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPayload
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("receiver: invalid json event: %w", err)
	}
	return fromMap(m)
}

func (JSON) Encode(e *core.Event) ([]byte, error) {
	return json.Marshal(toMap(e, false))
}

// XML 使用与 XML layout 相同的 <event> 结构
type XML struct{}

func (XML) Name() string { return "xml" }

func (XML) Decode(data []byte) (*core.Event, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPayload
	}
	var x layout.XMLEvent
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("receiver: invalid xml event: %w", err)
	}

	e := &core.Event{
		Logger:  x.Logger,
		Level:   level.ToLevel(x.Level, level.Info),
		Message: x.Message,
		Thread:  x.Thread,
		Error:   x.Throwable,
		NDC:     x.NDC,
	}
	if x.Timestamp > 0 {
		e.Time = time.UnixMilli(x.Timestamp)
	} else {
		e.Time = time.Now()
	}
	if x.Properties != nil && len(x.Properties.Data) > 0 {
		e.Fields = make(map[string]any, len(x.Properties.Data))
		for _, d := range x.Properties.Data {
			e.Fields[d.Name] = d.Value
		}
	}
	return e, nil
}

func (XML) Encode(e *core.Event) ([]byte, error) {
	return xml.Marshal(layout.ToXMLEvent(e))
}

// Proto 数据报为 google.protobuf.Struct 的二进制编码，键与 JSON 相同
type Proto struct{}

func (Proto) Name() string { return "proto" }

func (Proto) Decode(data []byte) (*core.Event, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("receiver: invalid proto event: %w", err)
	}
	return fromMap(s.AsMap())
}

func (Proto) Encode(e *core.Event) ([]byte, error) {
	s, err := structpb.NewStruct(toMap(e, true))
	if err != nil {
		return nil, fmt.Errorf("receiver: encode proto event: %w", err)
	}
	return proto.Marshal(s)
}

// fromMap 解析通用键，其余键放入 Fields
func fromMap(m map[string]any) (*core.Event, error) {
	e := &core.Event{Level: level.Info}

	for k, v := range m {
		switch k {
		case keyTime, keyTimestamp:
			t, err := parseTime(v)
			if err != nil {
				return nil, err
			}
			e.Time = t
		case keyLogger:
			e.Logger = toString(v)
		case keyLevel:
			l, err := parseLevel(v)
			if err != nil {
				return nil, err
			}
			e.Level = l
		case keyMessage, keyMsg:
			e.Message = toString(v)
		case keyThread:
			e.Thread = toString(v)
		case keyError:
			e.Error = toString(v)
		case keyNDC:
			e.NDC = toString(v)
		default:
			if e.Fields == nil {
				e.Fields = make(map[string]any)
			}
			if n, ok := v.(json.Number); ok {
				v = n.String()
			}
			e.Fields[k] = v
		}
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	return e, nil
}

// toMap 是 fromMap 的逆操作；structpb 只接受基本类型，strict 时其余值转为字符串
func toMap(e *core.Event, strict bool) map[string]any {
	m := make(map[string]any, len(e.Fields)+7)
	for k, v := range e.Fields {
		if strict {
			switch v.(type) {
			case nil, bool, string, int, int32, int64, uint, uint32, uint64, float32, float64:
			default:
				v = fmt.Sprint(v)
			}
		}
		m[k] = v
	}

	m[keyTime] = e.Time.Format(time.RFC3339Nano)
	m[keyLogger] = e.Logger
	m[keyLevel] = e.Level.String()
	m[keyMessage] = e.Message
	if e.Thread != "" {
		m[keyThread] = e.Thread
	}
	if e.Error != "" {
		m[keyError] = e.Error
	}
	if e.NDC != "" {
		m[keyNDC] = e.NDC
	}
	return m
}

// parseTime 接受 RFC3339 字符串或毫秒时间戳
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case string:
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
			return time.UnixMilli(ms), nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("receiver: invalid time %q: %w", t, err)
		}
		return parsed, nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return time.Time{}, fmt.Errorf("receiver: invalid timestamp %s: %w", t, err)
			}
			ms = int64(math.Round(f))
		}
		return time.UnixMilli(ms), nil
	case float64:
		return time.UnixMilli(int64(math.Round(t))), nil
	default:
		return time.Time{}, fmt.Errorf("receiver: invalid time %v", v)
	}
}

func parseLevel(v any) (level.Level, error) {
	switch t := v.(type) {
	case string:
		return level.Parse(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("receiver: invalid level %s: %w", t, err)
		}
		return level.Level(n), nil
	case float64:
		return level.Level(int(t)), nil
	default:
		return 0, fmt.Errorf("receiver: invalid level %v", v)
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
