package render

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"go.opentelemetry.io/otel/trace"

	"github.com/bkahlert/kommons-sub008/internal/ansi"
	"github.com/bkahlert/kommons-sub008/internal/log"
)

// BlockRenderer prints every call immediately as one or more decorated
// lines. Attribute values are laid out in columns and word wrapped.
type BlockRenderer struct {
	settings Settings
	layout   ColumnsLayout
}

// NewBlockRenderer creates a block renderer. The layout loses the width
// the style needs for decorating content lines, which fails with
// ErrLayoutTooNarrow if no room is left.
func NewBlockRenderer(settings Settings) (*BlockRenderer, error) {
	settings = settings.withDefaults()
	layout, err := settings.Layout.ShrinkBy(settings.Style.contentIndent())
	if err != nil {
		return nil, fmt.Errorf("block renderer: %w", err)
	}
	return &BlockRenderer{settings: settings, layout: layout}, nil
}

// Layout returns the layout content is arranged in.
func (b *BlockRenderer) Layout() ColumnsLayout {
	return b.layout
}

func (b *BlockRenderer) print(text string) {
	for _, line := range strings.Split(text, "\n") {
		b.settings.Printer(line)
	}
}

func (b *BlockRenderer) content(line string) {
	if text, ok := b.settings.Style.Content(line, b.settings.DecorationFormatter); ok {
		b.print(text)
	}
}

func (b *BlockRenderer) Start(traceID trace.TraceID, spanID trace.SpanID, name string) {
	formatted, ok := b.settings.NameFormatter(name)
	if !ok {
		return
	}
	if text, ok := b.settings.Style.Start(formatted, b.settings.DecorationFormatter); ok {
		b.print(text)
	}
}

func (b *BlockRenderer) Event(name string, attributes Attributes) {
	cells := b.layout.Extract(attributes)
	if !anyPresent(cells) {
		log.Debug(log.CatRender, "event without column values dropped", "event", name, "keys", attributes.Keys())
		return
	}
	for _, line := range b.joinColumns(cells) {
		b.content(line)
	}
}

// joinColumns wraps each cell to its width and merges the wrapped cells
// row by row.
func (b *BlockRenderer) joinColumns(cells []Cell) []string {
	wrapped := make([][]*ansi.String, len(cells))
	rows := 0
	for i, cell := range cells {
		if !cell.Present {
			continue
		}
		wrapped[i] = b.settings.formatValue(cell.Value, cell.Width).Wrap(cell.Width)
		rows = max(rows, len(wrapped[i]))
	}

	gap := strings.Repeat(" ", b.layout.Gap())
	lines := make([]string, rows)
	for row := range lines {
		var line strings.Builder
		for i, cell := range cells {
			if i > 0 {
				line.WriteString(gap)
			}
			text := ansi.Empty()
			if row < len(wrapped[i]) {
				text = wrapped[i][row]
			}
			line.WriteString(text.PadEnd(cell.Width).String())
		}
		lines[row] = line.String()
	}
	return lines
}

func (b *BlockRenderer) Exception(err error, attributes Attributes) {
	if len(attributes) > 0 {
		b.Event("exception", attributes.With(b.layout.Primary().Name, Red(errorMessage(err))))
		return
	}
	for _, line := range wrapText(fmt.Sprintf("%+v", err), b.layout.TotalWidth()) {
		b.content(Red(line))
	}
}

func (b *BlockRenderer) End(result ReturnValue) {
	text, ok := b.settings.Style.End(result, b.settings.ReturnValueTransform, b.settings.DecorationFormatter)
	if !ok || ansi.Parse(text).IsBlank() {
		return
	}
	width := b.settings.Layout.TotalWidth()
	for _, line := range strings.Split(text, "\n") {
		if ansi.StringWidth(line) <= width {
			b.settings.Printer(line)
			continue
		}
		for _, part := range wrapText(line, width) {
			b.settings.Printer(part)
		}
	}
}

// ChildRenderer creates a renderer whose layout is narrower by the style's
// indent and whose lines are decorated by Style.Parent. The provider
// defaults to Block.
func (b *BlockRenderer) ChildRenderer(provider RendererProvider) (Renderer, error) {
	layout, err := b.settings.Layout.ShrinkBy(b.settings.Style.Indent())
	if err != nil {
		return nil, fmt.Errorf("child renderer: %w", err)
	}
	if provider == nil {
		provider = Block
	}
	child := b.settings
	child.Layout = layout
	child.Printer = PrefixPrinter(b.parentLine, b.settings.Printer)
	return provider(child)
}

func (b *BlockRenderer) parentLine(line string) string {
	if text, ok := b.settings.Style.Parent(line, b.settings.DecorationFormatter); ok {
		return text
	}
	return line
}

func anyPresent(cells []Cell) bool {
	for _, c := range cells {
		if c.Present {
			return true
		}
	}
	return false
}

func errorMessage(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

// wrapText word wraps s to width and hard wraps what is still too long.
// Tabs are expanded to four spaces first.
func wrapText(s string, width int) []string {
	s = strings.ReplaceAll(s, "\t", "    ")
	if width > 0 {
		s = wrap.String(wordwrap.String(s, width), width)
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
