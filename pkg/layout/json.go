package layout

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// JSON 每个事件输出一行 JSON，由 zapcore 编码
type JSON struct {
	TimeKey    string
	MessageKey string
	LoggerKey  string
	LevelKey   string

	// Fields 为 false 时不输出事件的附加字段
	Fields bool

	enc zapcore.Encoder
}

// NewJSON creates a JSON layout with the default keys.
func NewJSON() *JSON {
	j := &JSON{
		TimeKey:    "time",
		MessageKey: "message",
		LoggerKey:  "logger",
		LevelKey:   "level",
		Fields:     true,
	}
	_ = j.Activate()
	return j
}

// Activate rebuilds the encoder after the keys were changed.
func (j *JSON) Activate() error {
	j.enc = zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        j.TimeKey,
		MessageKey:     j.MessageKey,
		NameKey:        j.LoggerKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})
	return nil
}

func (j *JSON) Format(e *core.Event) []byte {
	if j.enc == nil {
		_ = j.Activate()
	}

	// 级别不走 zapcore.Level，TRACE/ALL 等没有对应值
	fields := make([]zap.Field, 0, len(e.Fields)+3)
	if j.LevelKey != "" {
		fields = append(fields, zap.String(j.LevelKey, e.Level.String()))
	}
	if e.Thread != "" {
		fields = append(fields, zap.String("thread", e.Thread))
	}
	if e.NDC != "" {
		fields = append(fields, zap.String("ndc", e.NDC))
	}
	if e.Error != "" {
		fields = append(fields, zap.String("error", e.Error))
	}
	if j.Fields {
		for _, k := range sortedKeys(e.Fields) {
			fields = append(fields, zap.Any(k, e.Fields[k]))
		}
	}

	buf, err := j.enc.EncodeEntry(zapcore.Entry{
		Time:       e.Time,
		LoggerName: e.Logger,
		Message:    e.Message,
	}, fields)
	if err != nil {
		return []byte(e.Message + "\n")
	}
	defer buf.Free()
	return append([]byte(nil), buf.Bytes()...)
}
