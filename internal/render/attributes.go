package render

import "fmt"

// Renderable is a value that renders itself for a given number of columns.
type Renderable interface {
	Render(columns int) string
}

// Attribute is one key/value pair attached to an event.
type Attribute struct {
	Key   string
	Value any
}

// Attributes is an ordered list of attributes. Keys are expected to be
// unique; Get returns the first match.
type Attributes []Attribute

// Attrs builds Attributes from alternating keys and values.
// Keys are formatted with %v; an unpaired trailing key gets a nil value.
func Attrs(kv ...any) Attributes {
	attrs := make(Attributes, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		var value any
		if i+1 < len(kv) {
			value = kv[i+1]
		}
		attrs = append(attrs, Attribute{Key: fmt.Sprint(kv[i]), Value: value})
	}
	return attrs
}

// Get returns the value stored for key.
func (a Attributes) Get(key string) (any, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// With returns a copy of a with key set to value. An existing entry keeps
// its position.
func (a Attributes) With(key string, value any) Attributes {
	out := make(Attributes, 0, len(a)+1)
	replaced := false
	for _, attr := range a {
		if attr.Key == key {
			attr.Value = value
			replaced = true
		}
		out = append(out, attr)
	}
	if !replaced {
		out = append(out, Attribute{Key: key, Value: value})
	}
	return out
}

// Keys returns the keys in order.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a))
	for i, attr := range a {
		keys[i] = attr.Key
	}
	return keys
}
