package render

import "fmt"

const (
	successSymbol = "✔︎"
	failureSymbol = "ϟ"
)

// ReturnValue is the outcome of a span: either Successful or Failed.
type ReturnValue interface {
	// Successful reports whether the span completed without failure.
	Successful() bool
	// Symbol returns the glyph that stands for the outcome.
	Symbol() string
	// Text returns a textual representation of the outcome, or "" if there
	// is nothing to show beyond the symbol.
	Text() string

	returnValue()
}

// Successful is the outcome of a span that completed normally.
type Successful struct {
	Value    any
	HasValue bool
}

func (Successful) Successful() bool { return true }
func (Successful) Symbol() string   { return successSymbol }
func (s Successful) Text() string {
	if !s.HasValue || s.Value == nil {
		return ""
	}
	return fmt.Sprint(s.Value)
}
func (Successful) returnValue() {}

// Failed is the outcome of a span that ended with an error.
type Failed struct {
	Err error
}

func (Failed) Successful() bool { return false }
func (Failed) Symbol() string   { return failureSymbol }
func (f Failed) Text() string {
	if f.Err == nil {
		return "failed"
	}
	return f.Err.Error()
}
func (Failed) returnValue() {}

// ReturnValueOf converts the usual (value, error) pair into a ReturnValue.
// A nil value counts as no value.
func ReturnValueOf(value any, err error) ReturnValue {
	if err != nil {
		return Failed{Err: err}
	}
	return Successful{Value: value, HasValue: value != nil}
}

// ReturnValueTransform may replace or, by returning nil, suppress the
// outcome before it is rendered.
type ReturnValueTransform func(ReturnValue) ReturnValue

// IdentityTransform returns rv unchanged.
func IdentityTransform(rv ReturnValue) ReturnValue { return rv }

// formatReturnValue renders symbol and text, e.g. "✔︎ 42" or "ϟ boom".
func formatReturnValue(rv ReturnValue) string {
	if text := rv.Text(); text != "" {
		return rv.Symbol() + " " + text
	}
	return rv.Symbol()
}
