package render

import (
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

const lineFeedMarker = "⏎"

// OneLineRenderer collects everything that happens in a span and prints it
// as a single line when the span ends.
type OneLineRenderer struct {
	settings Settings

	mu       sync.Mutex // children may print from other goroutines
	messages []string
}

// NewOneLineRenderer creates a one-line renderer.
func NewOneLineRenderer(settings Settings) *OneLineRenderer {
	return &OneLineRenderer{settings: settings.withDefaults()}
}

func (o *OneLineRenderer) add(message string) {
	if message == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, message)
}

func (o *OneLineRenderer) Start(traceID trace.TraceID, spanID trace.SpanID, name string) {
	if formatted, ok := o.settings.NameFormatter(name); ok {
		o.add(formatted)
	}
}

// Event adds the value of the primary column, if any.
func (o *OneLineRenderer) Event(name string, attributes Attributes) {
	primary := o.settings.Layout.Primary()
	value, ok := attributes.Get(primary.Name)
	if !ok || value == nil {
		return
	}
	o.add(o.settings.formatValue(value, primary.Width).String())
}

func (o *OneLineRenderer) Exception(err error, attributes Attributes) {
	o.add(Red(errorMessage(err)))
}

func (o *OneLineRenderer) End(result ReturnValue) {
	if rv := o.settings.ReturnValueTransform(result); rv != nil {
		text := formatReturnValue(rv)
		if !rv.Successful() {
			text = Red(text)
		}
		o.add(text)
	}

	separator := " " + o.settings.DecorationFormatter("❱") + " "
	o.mu.Lock()
	line := strings.Join(o.messages, separator)
	o.mu.Unlock()
	line = strings.NewReplacer("\r\n", lineFeedMarker, "\n", lineFeedMarker).Replace(line)
	o.settings.Printer(line)
}

// ChildRenderer creates a renderer whose output becomes part of this line.
// The provider defaults to OneLine.
func (o *OneLineRenderer) ChildRenderer(provider RendererProvider) (Renderer, error) {
	if provider == nil {
		provider = OneLine
	}
	child := o.settings
	child.Printer = o.add
	return provider(child)
}
