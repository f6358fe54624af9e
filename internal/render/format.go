// Package render prints the lifecycle of a span as indented, column aligned
// and styled terminal lines.
//
// A Renderer receives Start, Event, Exception and End calls and writes lines
// to a Printer. Layout is computed by ColumnsLayout, decoration is provided
// by a Style. Renderers nest: a child renderer writes through its parent,
// which prefixes every line with its own decoration.
package render

import (
	"strings"

	"github.com/muesli/termenv"
)

// Formatter transforms text, typically by adding escape sequences.
type Formatter func(s string) string

// Identity returns s unchanged.
func Identity(s string) string { return s }

// text styling used by all styles; always ANSI so that output is stable
// and can be stripped by PlainPrinter when the terminal has no colors.
var sgr = termenv.ANSI

func styled(s string, apply func(termenv.Style) termenv.Style) string {
	if s == "" {
		return s
	}
	return apply(sgr.String(s)).String()
}

// Bold renders s in bold.
func Bold(s string) string {
	return styled(s, termenv.Style.Bold)
}

// Red renders s in red.
func Red(s string) string {
	return styled(s, func(st termenv.Style) termenv.Style { return st.Foreground(sgr.Color("1")) })
}

// BoldRed renders s in bold red.
func BoldRed(s string) string {
	return styled(s, func(st termenv.Style) termenv.Style { return st.Foreground(sgr.Color("1")).Bold() })
}

// ColorFormatter returns a Formatter that colors text with color, given as
// "#rrggbb" or an ANSI color index. The color is converted to what profile
// supports; an empty or invalid color yields Identity.
func ColorFormatter(profile termenv.Profile, color string) Formatter {
	c := profile.Color(strings.TrimSpace(color))
	if c == nil {
		return Identity
	}
	return func(s string) string {
		if s == "" {
			return s
		}
		return profile.String(s).Foreground(c).String()
	}
}
