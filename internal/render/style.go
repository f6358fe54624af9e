package render

import (
	"fmt"
	"strings"
)

// Style decorates the lines a block renderer prints. The set of styles is
// closed; use one of the constants.
type Style int

const (
	// StyleSolid draws a box: ╭──╴ header, │ content, ╰──╴ footer.
	StyleSolid Style = iota
	// StyleDotted marks the header with ▶/▷ and content with ·.
	StyleDotted
	// StyleNone prints content as is and indents children with blanks.
	StyleNone
)

var styleNames = map[Style]string{
	StyleSolid:  "solid",
	StyleDotted: "dotted",
	StyleNone:   "none",
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, error) {
	for style, n := range styleNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return style, nil
		}
	}
	return 0, fmt.Errorf("unknown style %q (must be \"solid\", \"dotted\" or \"none\")", name)
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

const (
	solidTop    = "╭──╴"
	solidSide   = "│"
	solidBottom = "╰──╴"
	dottedFirst = "▶"
	dottedMore  = "▷"
	dottedDot   = "·"
)

// Indent returns the number of columns the style prefixes lines of nested
// renderers with.
func (s Style) Indent() int {
	switch s {
	case StyleNone:
		return 4
	default:
		return 2
	}
}

// contentIndent returns the number of columns the style prefixes its own
// content lines with.
func (s Style) contentIndent() int {
	switch s {
	case StyleNone:
		return 0
	default:
		return 2
	}
}

// Start renders the header for a span named name.
func (s Style) Start(name string, deco Formatter) (string, bool) {
	lines := strings.Split(name, "\n")
	var b strings.Builder
	switch s {
	case StyleSolid:
		b.WriteString(deco(solidTop) + Bold(lines[0]))
		for _, line := range lines[1:] {
			b.WriteString("\n" + deco(solidSide) + "   " + line)
		}
		b.WriteString("\n" + deco(solidSide))
	case StyleDotted:
		b.WriteString(deco(dottedFirst) + " " + Bold(lines[0]))
		for _, line := range lines[1:] {
			b.WriteString("\n" + deco(dottedMore) + " " + line)
		}
	default:
		b.WriteString(name)
	}
	return b.String(), true
}

// Content renders one line of already laid out content.
func (s Style) Content(line string, deco Formatter) (string, bool) {
	switch s {
	case StyleSolid:
		return deco(solidSide) + " " + line, true
	case StyleDotted:
		return deco(dottedDot) + " " + line, true
	default:
		return line, true
	}
}

// Parent renders a line printed by a nested renderer.
func (s Style) Parent(line string, deco Formatter) (string, bool) {
	switch s {
	case StyleNone:
		return strings.Repeat(" ", s.Indent()) + line, true
	default:
		return s.Content(line, deco)
	}
}

// End renders the footer for the outcome rv after applying transform.
// It reports false if transform suppressed the outcome.
func (s Style) End(rv ReturnValue, transform ReturnValueTransform, deco Formatter) (string, bool) {
	if transform != nil {
		rv = transform(rv)
	}
	if rv == nil {
		return "", false
	}

	switch s {
	case StyleSolid:
		if !rv.Successful() {
			return Red(failureSymbol) + "\n" + deco(solidBottom) + Bold(rv.Text()), true
		}
		return deco(solidSide) + "\n" + deco(solidBottom) + formatReturnValue(rv), true
	case StyleDotted:
		if !rv.Successful() {
			return BoldRed(formatReturnValue(rv)), true
		}
		return Bold(formatReturnValue(rv)), true
	default:
		return formatReturnValue(rv), true
	}
}
