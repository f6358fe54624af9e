package render

import (
	"io"
	"sync"

	"github.com/bkahlert/kommons-sub008/internal/ansi"
)

// Printer consumes one rendered terminal line at a time.
type Printer func(line string)

// PrefixPrinter returns a Printer that transforms each line with prefix
// before passing it to parent.
func PrefixPrinter(prefix Formatter, parent Printer) Printer {
	return func(line string) {
		parent(prefix(line))
	}
}

// PlainPrinter removes all escape sequences before passing lines to parent.
func PlainPrinter(parent Printer) Printer {
	return func(line string) {
		parent(ansi.Parse(line).Plain())
	}
}

// WriterPrinter writes each line followed by a line feed to w.
// Writes are serialized so the printer can be shared between goroutines.
func WriterPrinter(w io.Writer) Printer {
	var mu sync.Mutex
	return func(line string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = io.WriteString(w, line+"\n")
	}
}

// LinesPrinter collects printed lines. It is safe for concurrent use.
type LinesPrinter struct {
	mu    sync.Mutex
	lines []string
}

// Print appends line.
func (p *LinesPrinter) Print(line string) {
	p.mu.Lock()
	p.lines = append(p.lines, line)
	p.mu.Unlock()
}

// Lines returns the lines printed so far.
func (p *LinesPrinter) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

// Plain returns the lines printed so far without escape sequences.
func (p *LinesPrinter) Plain() []string {
	lines := p.Lines()
	for i, l := range lines {
		lines[i] = ansi.Parse(l).Plain()
	}
	return lines
}
