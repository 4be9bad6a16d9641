package layout

import (
	"encoding/xml"
	"fmt"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// XMLEvent 事件的 XML 形式，receiver 的 XML 解码器使用同一结构
type XMLEvent struct {
	XMLName    xml.Name       `xml:"event"`
	Logger     string         `xml:"logger,attr"`
	Level      string         `xml:"level,attr"`
	Timestamp  int64          `xml:"timestamp,attr"`
	Thread     string         `xml:"thread,attr,omitempty"`
	Message    string         `xml:"message"`
	NDC        string         `xml:"NDC,omitempty"`
	Throwable  string         `xml:"throwable,omitempty"`
	Properties *XMLProperties `xml:"properties,omitempty"`
}

// XMLProperties holds the event fields.
type XMLProperties struct {
	Data []XMLData `xml:"data"`
}

// XMLData is one name/value field.
type XMLData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ToXMLEvent converts an event into its XML form.
func ToXMLEvent(e *core.Event) *XMLEvent {
	x := &XMLEvent{
		Logger:    e.Logger,
		Level:     e.Level.String(),
		Timestamp: e.Time.UnixMilli(),
		Thread:    e.Thread,
		Message:   e.Message,
		NDC:       e.NDC,
		Throwable: e.Error,
	}
	if len(e.Fields) > 0 {
		x.Properties = &XMLProperties{}
		for _, k := range sortedKeys(e.Fields) {
			x.Properties.Data = append(x.Properties.Data, XMLData{Name: k, Value: fmt.Sprint(e.Fields[k])})
		}
	}
	return x
}

// XML 输出 <event> 元素，每个事件一行
type XML struct {
	// Properties 为 false 时不输出附加字段
	Properties bool
}

// NewXML creates an XML layout.
func NewXML() *XML {
	return &XML{Properties: true}
}

func (l *XML) Format(e *core.Event) []byte {
	x := ToXMLEvent(e)
	if !l.Properties {
		x.Properties = nil
	}
	out, err := xml.Marshal(x)
	if err != nil {
		return []byte(e.Message + "\n")
	}
	return append(out, '\n')
}
