package builtin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/layout"
	"github.com/HorseArcher567/octolog/pkg/propset"
	"github.com/HorseArcher567/octolog/pkg/registry"
)

// ttccOptions 的字段与 log4j TTCCLayout 的参数同名
type ttccOptions struct {
	DateFormat        string
	ThreadPrinting    bool
	CategoryPrefixing bool
	ContextPrinting   bool
}

// buildTTCC produces a Pattern layout equivalent to TTCCLayout:
// "time [thread] LEVEL logger ndc - message".
func buildTTCC(ctx registry.BuildContext, el *document.Element) (any, error) {
	opts := ttccOptions{
		DateFormat:        "RELATIVE",
		ThreadPrinting:    true,
		CategoryPrefixing: true,
		ContextPrinting:   true,
	}

	for _, child := range el.Children {
		if child.Tag != "param" {
			ctx.Warn("Unrecognized element in TTCC layout.", "element", child.Location())
			continue
		}
		if err := ctx.SetParameter(&opts, child); err != nil {
			if errors.Is(err, propset.ErrNoSuchProperty) {
				ctx.Warn("Unknown property.", "element", child.Location(), "error", err)
				continue
			}
			return nil, err
		}
	}

	p, err := layout.NewPatternWith(ttccPattern(opts))
	if err != nil {
		return nil, fmt.Errorf("ttcc: %w", err)
	}
	return p, nil
}

func ttccPattern(o ttccOptions) string {
	var b strings.Builder
	switch strings.ToUpper(o.DateFormat) {
	case "", "NULL":
	case "RELATIVE":
		b.WriteString("%r ")
	default:
		fmt.Fprintf(&b, "%%d{%s} ", o.DateFormat)
	}
	if o.ThreadPrinting {
		b.WriteString("[%t] ")
	}
	b.WriteString("%-5p ")
	if o.CategoryPrefixing {
		b.WriteString("%c ")
	}
	if o.ContextPrinting {
		b.WriteString("%x ")
	}
	b.WriteString("- %m%n")
	return b.String()
}
