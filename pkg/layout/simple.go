// Package layout provides the built-in event formatters.
package layout

import (
	"github.com/HorseArcher567/octolog/pkg/core"
)

// Simple 输出 "LEVEL - message"
type Simple struct{}

// NewSimple creates a Simple layout.
func NewSimple() *Simple {
	return &Simple{}
}

func (*Simple) Format(e *core.Event) []byte {
	b := make([]byte, 0, len(e.Message)+16)
	b = append(b, e.Level.String()...)
	b = append(b, " - "...)
	b = append(b, e.Message...)
	return append(b, '\n')
}
