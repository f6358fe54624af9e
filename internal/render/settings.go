package render

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/bkahlert/kommons-sub008/internal/ansi"
)

// Renderer turns the lifecycle of one span into printed lines.
// Renderers are used by a single goroutine and only once: Start, any
// number of Event and Exception calls, then End.
type Renderer interface {
	Start(traceID trace.TraceID, spanID trace.SpanID, name string)
	Event(name string, attributes Attributes)
	Exception(err error, attributes Attributes)
	End(result ReturnValue)
	// ChildRenderer creates a renderer for a nested span whose lines are
	// printed through this renderer.
	ChildRenderer(provider RendererProvider) (Renderer, error)
}

// RendererProvider creates a renderer for the given settings.
type RendererProvider func(settings Settings) (Renderer, error)

// NameFormatter formats a span name. Returning false suppresses the header.
type NameFormatter func(name string) (string, bool)

// ContentFormatter formats an attribute value. Returning false renders the
// value as empty.
type ContentFormatter func(value any) (string, bool)

// Settings configure a renderer.
type Settings struct {
	// Style decorates block renderers. Default: StyleSolid.
	Style Style
	// Layout arranges attribute values in columns. Default: DefaultLayout.
	Layout ColumnsLayout
	// NameFormatter formats span names. Default: unchanged.
	NameFormatter NameFormatter
	// ContentFormatter formats attribute values. Default: DefaultContentFormatter.
	ContentFormatter ContentFormatter
	// DecorationFormatter formats borders and markers. Default: Identity.
	DecorationFormatter Formatter
	// ReturnValueTransform adapts outcomes before they are rendered. Default: unchanged.
	ReturnValueTransform ReturnValueTransform
	// Printer receives the rendered lines. Default: discard.
	Printer Printer
	// Cache tokenizes rendered text. Default: no caching.
	Cache *ansi.Cache
}

// DefaultColumns are the columns of DefaultLayout.
var DefaultColumns = []Column{
	{Name: "description", Width: 80},
	{Name: "status", Width: 40},
}

// DefaultGap separates the columns of DefaultLayout.
const DefaultGap = 5

// DefaultLayout returns the layout used if Settings.Layout is unset.
func DefaultLayout() ColumnsLayout {
	layout, err := NewColumnsLayout(DefaultColumns, DefaultGap, 0)
	if err != nil {
		panic(fmt.Sprintf("default layout: %v", err))
	}
	return layout
}

// DefaultContentFormatter formats errors by their message, fmt.Stringers
// with String and everything else with %v. Nil values are suppressed.
func DefaultContentFormatter(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case error:
		return v.Error(), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

func identityName(name string) (string, bool) { return name, true }

// withDefaults fills unset fields.
func (s Settings) withDefaults() Settings {
	if len(s.Layout.widths) == 0 {
		s.Layout = DefaultLayout()
	}
	if s.NameFormatter == nil {
		s.NameFormatter = identityName
	}
	if s.ContentFormatter == nil {
		s.ContentFormatter = DefaultContentFormatter
	}
	if s.DecorationFormatter == nil {
		s.DecorationFormatter = Identity
	}
	if s.ReturnValueTransform == nil {
		s.ReturnValueTransform = IdentityTransform
	}
	if s.Printer == nil {
		s.Printer = func(string) {}
	}
	return s
}

// formatValue renders value for a column of the given width.
func (s Settings) formatValue(value any, width int) *ansi.String {
	if r, ok := value.(Renderable); ok {
		value = r.Render(width)
	}
	text, ok := s.ContentFormatter(value)
	if !ok {
		return ansi.Empty()
	}
	return s.Cache.Parse(text)
}

// Block creates block renderers.
func Block(settings Settings) (Renderer, error) {
	return NewBlockRenderer(settings)
}

// OneLine creates one-line renderers.
func OneLine(settings Settings) (Renderer, error) {
	return NewOneLineRenderer(settings), nil
}

// Compact creates compact renderers.
func Compact(settings Settings) (Renderer, error) {
	return NewCompactRenderer(settings)
}
