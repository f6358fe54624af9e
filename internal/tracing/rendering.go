// Package tracing records spans with OpenTelemetry and renders their
// lifecycle to the terminal as they happen.
package tracing

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bkahlert/kommons-sub008/internal/log"
	"github.com/bkahlert/kommons-sub008/internal/render"
)

// RenderingTracer starts spans with an underlying tracer and renders each
// of them. Spans started within another rendered span are rendered by a
// child of the parent's renderer; all other spans get a root renderer.
type RenderingTracer struct {
	trace.Tracer
	settings render.Settings
	provider render.RendererProvider
}

// NewRenderingTracer wraps tracer. Root renderers are created by provider
// from settings; a nil provider means render.Compact.
func NewRenderingTracer(tracer trace.Tracer, settings render.Settings, provider render.RendererProvider) *RenderingTracer {
	if provider == nil {
		provider = render.Compact
	}
	return &RenderingTracer{Tracer: tracer, settings: settings, provider: provider}
}

// Start starts a span and its renderer. If no renderer can be created, the
// span is returned unrendered.
func (t *RenderingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	parent, _ := trace.SpanFromContext(ctx).(*renderingSpan)

	ctx, span := t.Tracer.Start(ctx, name, opts...)

	var renderer render.Renderer
	var err error
	if parent != nil {
		renderer, err = parent.childRenderer(t.provider)
	} else {
		renderer, err = t.provider(t.settings)
	}
	if err != nil {
		log.ErrorErr(log.CatTrace, "span not rendered", err, "span", name)
		return ctx, span
	}

	rs := &renderingSpan{Span: span, renderer: renderer}
	sc := span.SpanContext()
	renderer.Start(sc.TraceID(), sc.SpanID(), name)
	startCfg := trace.NewSpanStartConfig(opts...)
	if attrs := startCfg.Attributes(); len(attrs) > 0 {
		renderer.Event(name, FromOTel(attrs))
	}
	return trace.ContextWithSpan(ctx, rs), rs
}

// renderingSpan forwards everything to the recorded span and mirrors
// events, errors and the end to its renderer.
type renderingSpan struct {
	trace.Span

	mu       sync.Mutex
	renderer render.Renderer
	status   codes.Code
	desc     string
	lastErr  error
	value    render.ReturnValue
	ended    bool
}

func (s *renderingSpan) childRenderer(provider render.RendererProvider) (render.Renderer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, errors.New("parent span already ended")
	}
	return s.renderer.ChildRenderer(provider)
}

func (s *renderingSpan) AddEvent(name string, opts ...trace.EventOption) {
	s.Span.AddEvent(name, opts...)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		eventCfg := trace.NewEventConfig(opts...)
		s.renderer.Event(name, FromOTel(eventCfg.Attributes()))
	}
}

func (s *renderingSpan) RecordError(err error, opts ...trace.EventOption) {
	s.Span.RecordError(err, opts...)
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		s.lastErr = err
		eventCfg := trace.NewEventConfig(opts...)
		s.renderer.Exception(err, FromOTel(eventCfg.Attributes()))
	}
}

func (s *renderingSpan) SetStatus(code codes.Code, description string) {
	s.Span.SetStatus(code, description)
	s.mu.Lock()
	defer s.mu.Unlock()
	// Ok is final, Error overrides Unset only
	switch {
	case s.status == codes.Ok:
	case code == codes.Ok, code == codes.Error:
		s.status, s.desc = code, description
	}
}

// setReturnValue makes End render rv instead of the outcome derived from
// the status.
func (s *renderingSpan) setReturnValue(rv render.ReturnValue) {
	s.mu.Lock()
	s.value = rv
	s.mu.Unlock()
}

func (s *renderingSpan) End(opts ...trace.SpanEndOption) {
	s.Span.End(opts...)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.renderer.End(s.returnValue())
}

func (s *renderingSpan) returnValue() render.ReturnValue {
	if s.value != nil {
		return s.value
	}
	if s.status != codes.Error {
		return render.Successful{}
	}
	if s.desc != "" {
		return render.Failed{Err: errors.New(s.desc)}
	}
	return render.Failed{Err: s.lastErr}
}

// FromOTel converts OpenTelemetry attributes to render attributes keeping
// their order.
func FromOTel(kvs []attribute.KeyValue) render.Attributes {
	attrs := make(render.Attributes, 0, len(kvs))
	for _, kv := range kvs {
		attrs = append(attrs, render.Attribute{Key: string(kv.Key), Value: kv.Value.AsInterface()})
	}
	return attrs
}
