package ansi

import (
	"strings"
	"unicode"
	"unicode/utf8"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
	"mvdan.cc/xurls/v2"
)

var urlPattern = xurls.Strict()

// cluster is one grapheme cluster of visible text.
type cluster struct {
	text  string
	pos   int // logical position of the first rune
	runes int
	width int
}

func (c cluster) isSpace() bool {
	r, _ := utf8.DecodeRuneInString(c.text)
	return c.runes == 1 && unicode.IsSpace(r) && r != '\n'
}

func (c cluster) isNewline() bool {
	return c.text == "\n" || c.text == "\r\n"
}

// clusters splits the visible text of s into grapheme clusters.
func (s *String) clusters() []cluster {
	var out []cluster
	pos := 0
	for _, t := range s.tokens {
		if t.Kind != TextToken {
			continue
		}
		rest := t.Value
		state := -1
		for len(rest) > 0 {
			var c string
			var boundaries int
			c, rest, boundaries, state = uniseg.StepString(rest, state)
			n := utf8.RuneCountInString(c)
			// same measure as Width, so wrapped lines fit their padding
			width := boundaries >> uniseg.ShiftWidth
			out = append(out, cluster{text: c, pos: pos, runes: n, width: width})
			pos += n
		}
	}
	return out
}

// StringWidth returns the number of terminal cells the visible part of s
// occupies.
func StringWidth(s string) int {
	return Parse(s).Width()
}

// Width returns the number of terminal cells the visible text occupies.
func (s *String) Width() int {
	if s == nil {
		return 0
	}
	w := 0
	for _, t := range s.tokens {
		if t.Kind == TextToken {
			w += uniseg.StringWidth(t.Value)
		}
	}
	return w
}

// Lines splits s at line feeds. Every line carries the style that is active
// at its start and resets what is still active at its end.
// An empty String yields one empty line.
func (s *String) Lines() []*String {
	var lines []*String
	start := 0
	for _, c := range s.clusters() {
		if !c.isNewline() {
			continue
		}
		lines = append(lines, s.mustSub(start, c.pos))
		start = c.pos + c.runes
	}
	return append(lines, s.mustSub(start, s.Len()))
}

// Wrap splits s into lines that are at most width cells wide. Lines break at
// white space; words wider than width are broken into pieces unless they
// contain a URL, which is always kept in one piece even if it overflows.
// Existing line feeds are kept. A non-positive width only splits lines.
func (s *String) Wrap(width int) []*String {
	lines := s.Lines()
	if width <= 0 {
		return lines
	}
	var out []*String
	for _, line := range lines {
		out = append(out, line.wrapLine(width)...)
	}
	return out
}

type word struct {
	clusters []cluster
	width    int
}

func (w word) start() int { return w.clusters[0].pos }
func (w word) end() int {
	last := w.clusters[len(w.clusters)-1]
	return last.pos + last.runes
}

func (w word) text() string {
	var b strings.Builder
	for _, c := range w.clusters {
		b.WriteString(c.text)
	}
	return b.String()
}

func (s *String) wrapLine(width int) []*String {
	if s.Width() <= width {
		return []*String{s}
	}

	var out []*String
	lineStart, lineEnd, lineWidth := 0, 0, 0
	inLine := false
	pendingSpace := 0
	var current word

	emit := func() {
		out = append(out, s.mustSub(lineStart, lineEnd))
		inLine = false
		lineWidth = 0
	}

	place := func(w word) {
		switch {
		case !inLine:
			lineStart, lineEnd, lineWidth, inLine = w.start(), w.end(), w.width, true
		case lineWidth+pendingSpace+w.width <= width:
			lineEnd = w.end()
			lineWidth += pendingSpace + w.width
		default:
			emit()
			lineStart, lineEnd, lineWidth, inLine = w.start(), w.end(), w.width, true
		}
		pendingSpace = 0
	}

	flushWord := func() {
		if len(current.clusters) == 0 {
			return
		}
		w := current
		current = word{}
		if w.width <= width || urlPattern.MatchString(w.text()) {
			place(w)
			return
		}
		for _, piece := range splitWord(w, width) {
			place(piece)
		}
	}

	leading := true
	for _, c := range s.clusters() {
		if c.isSpace() && !leading {
			flushWord()
			pendingSpace += c.width
			continue
		}
		// indentation sticks to the first word
		if !c.isSpace() {
			leading = false
		}
		current.clusters = append(current.clusters, c)
		current.width += c.width
	}
	flushWord()
	if inLine {
		emit()
	}
	if len(out) == 0 {
		return []*String{s}
	}
	return out
}

// splitWord breaks w into pieces of at most width cells.
func splitWord(w word, width int) []word {
	var pieces []word
	var piece word
	for _, c := range w.clusters {
		if piece.width+c.width > width && len(piece.clusters) > 0 {
			pieces = append(pieces, piece)
			piece = word{}
		}
		piece.clusters = append(piece.clusters, c)
		piece.width += c.width
	}
	if len(piece.clusters) > 0 {
		pieces = append(pieces, piece)
	}
	return pieces
}

// PadEnd appends spaces until s is width cells wide.
func (s *String) PadEnd(width int) *String {
	missing := width - s.Width()
	if missing <= 0 {
		return s
	}
	return Concat(s, FromTokens(Text(strings.Repeat(" ", missing))))
}

// Truncate shortens s to at most width cells, ending with tail if anything
// was cut off.
func (s *String) Truncate(width int, tail string) *String {
	if s.Width() <= width {
		return s
	}
	return Parse(xansi.Truncate(s.String(), width, tail))
}

// mustSub slices with bounds the caller derived from s itself.
func (s *String) mustSub(start, end int) *String {
	sub, err := s.SubSequence(start, end)
	if err != nil {
		return empty
	}
	return sub
}
