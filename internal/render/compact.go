package render

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/bkahlert/kommons-sub008/internal/log"
)

// Command is one recorded renderer call.
type Command interface {
	Apply(r Renderer)
}

type StartCommand struct {
	TraceID trace.TraceID
	SpanID  trace.SpanID
	Name    string
}

func (c StartCommand) Apply(r Renderer) { r.Start(c.TraceID, c.SpanID, c.Name) }

type EventCommand struct {
	Name       string
	Attributes Attributes
}

func (c EventCommand) Apply(r Renderer) { r.Event(c.Name, c.Attributes) }

type ExceptionCommand struct {
	Err        error
	Attributes Attributes
}

func (c ExceptionCommand) Apply(r Renderer) { r.Exception(c.Err, c.Attributes) }

type EndCommand struct {
	Result ReturnValue
}

func (c EndCommand) Apply(r Renderer) { r.End(c.Result) }

// Replay applies commands to r in order.
func Replay(commands []Command, r Renderer) {
	for _, c := range commands {
		c.Apply(r)
	}
}

// PrefersOneLine reports whether a span is best rendered on one line:
// apart from its start, End is the only recorded call.
func PrefersOneLine(commands []Command) bool {
	var others []Command
	for _, c := range commands {
		if _, ok := c.(StartCommand); !ok {
			others = append(others, c)
		}
	}
	if len(others) != 1 {
		return false
	}
	_, ok := others[0].(EndCommand)
	return ok
}

// CompactRenderer records all calls until the span ends and then replays
// them into a OneLineRenderer or, if the span had anything to show apart
// from its outcome, into a BlockRenderer. Creating a child renderer
// settles on a BlockRenderer right away.
type CompactRenderer struct {
	settings Settings
	commands []Command
	delegate Renderer
}

// NewCompactRenderer creates a compact renderer. It fails like
// NewBlockRenderer if the layout is too narrow for a block.
func NewCompactRenderer(settings Settings) (*CompactRenderer, error) {
	settings = settings.withDefaults()
	if _, err := settings.Layout.ShrinkBy(settings.Style.contentIndent()); err != nil {
		return nil, fmt.Errorf("compact renderer: %w", err)
	}
	return &CompactRenderer{settings: settings}, nil
}

func (c *CompactRenderer) handle(cmd Command) {
	if c.delegate != nil {
		cmd.Apply(c.delegate)
		return
	}
	c.commands = append(c.commands, cmd)
}

// settle replays the recorded commands into r, which handles all further
// calls.
func (c *CompactRenderer) settle(r Renderer) {
	c.delegate = r
	Replay(c.commands, r)
	c.commands = nil
}

func (c *CompactRenderer) block() Renderer {
	block, err := NewBlockRenderer(c.settings)
	if err != nil {
		// checked by NewCompactRenderer
		log.ErrorErr(log.CatRender, "falling back to one-line rendering", err)
		return NewOneLineRenderer(c.settings)
	}
	return block
}

func (c *CompactRenderer) Start(traceID trace.TraceID, spanID trace.SpanID, name string) {
	c.handle(StartCommand{TraceID: traceID, SpanID: spanID, Name: name})
}

func (c *CompactRenderer) Event(name string, attributes Attributes) {
	c.handle(EventCommand{Name: name, Attributes: attributes})
}

func (c *CompactRenderer) Exception(err error, attributes Attributes) {
	c.handle(ExceptionCommand{Err: err, Attributes: attributes})
}

func (c *CompactRenderer) End(result ReturnValue) {
	if c.delegate != nil {
		c.delegate.End(result)
		return
	}
	c.commands = append(c.commands, EndCommand{Result: result})
	if PrefersOneLine(c.commands) {
		c.settle(NewOneLineRenderer(c.settings))
	} else {
		c.settle(c.block())
	}
}

// ChildRenderer settles on block rendering and creates a child of the block.
// The provider defaults to Compact.
func (c *CompactRenderer) ChildRenderer(provider RendererProvider) (Renderer, error) {
	if c.delegate == nil {
		c.settle(c.block())
	}
	if provider == nil {
		provider = Compact
	}
	return c.delegate.ChildRenderer(provider)
}
