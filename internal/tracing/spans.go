package tracing

// Attribute keys understood by the default render layout.
const (
	AttrDescription = "description"
	AttrStatus      = "status"
)

// Attribute keys OpenTelemetry attaches to exception events.
const (
	AttrExceptionType    = "exception.type"
	AttrExceptionMessage = "exception.message"
)

// EventException is the name OpenTelemetry gives events recorded by
// Span.RecordError.
const EventException = "exception"

// Span and event names used by the demo command.
const (
	SpanDemo          = "kommons.demo"
	SpanPrefixStep    = "step."
	EventStepProgress = "step.progress"
)
