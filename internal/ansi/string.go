package ansi

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// ErrIndexOutOfBounds is returned for logical positions outside a String.
var ErrIndexOutOfBounds = errors.New("index out of bounds")

// String is an immutable text whose positions count visible runes only.
// Escape sequences take no logical space but are kept in place, so slices
// render with the same styling they had in the original text.
type String struct {
	tokens []Token
	length int
	raw    string
}

var empty = &String{}

// Empty returns the empty String.
func Empty() *String {
	return empty
}

// Parse tokenizes s.
func Parse(s string) *String {
	if s == "" {
		return empty
	}
	return build(Tokenize(s))
}

// FromTokens builds a String from tokens. Adjacent text tokens are merged
// and empty text tokens dropped, so equal renderings compare equal.
func FromTokens(tokens ...Token) *String {
	return build(tokens)
}

// Concat joins strings without adding any escape sequences.
func Concat(parts ...*String) *String {
	var tokens []Token
	for _, p := range parts {
		if p != nil {
			tokens = append(tokens, p.tokens...)
		}
	}
	return build(tokens)
}

func build(tokens []Token) *String {
	normalized := make([]Token, 0, len(tokens))
	length := 0
	var raw strings.Builder
	for _, t := range tokens {
		if t.Kind == TextToken && t.Value == "" {
			continue
		}
		raw.WriteString(t.Value)
		length += t.Len()
		if n := len(normalized); n > 0 && t.Kind == TextToken && normalized[n-1].Kind == TextToken {
			normalized[n-1].Value += t.Value
			continue
		}
		normalized = append(normalized, t)
	}
	if len(normalized) == 0 {
		return empty
	}
	return &String{tokens: normalized, length: length, raw: raw.String()}
}

// Len returns the number of visible runes.
func (s *String) Len() int {
	if s == nil {
		return 0
	}
	return s.length
}

// IsEmpty reports whether s has no visible runes.
func (s *String) IsEmpty() bool {
	return s.Len() == 0
}

// IsBlank reports whether s has no visible runes apart from white space.
func (s *String) IsBlank() bool {
	return strings.TrimSpace(s.Plain()) == ""
}

// Tokens returns a copy of the tokens s consists of.
func (s *String) Tokens() []Token {
	if s == nil {
		return nil
	}
	return append([]Token(nil), s.tokens...)
}

// String returns the text including all escape sequences.
func (s *String) String() string {
	if s == nil {
		return ""
	}
	return s.raw
}

// Plain returns the visible text with all escape sequences removed.
func (s *String) Plain() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for _, t := range s.tokens {
		if t.Kind == TextToken {
			b.WriteString(t.Value)
		}
	}
	return b.String()
}

// RuneAt returns the visible rune at logical position i.
func (s *String) RuneAt(i int) (rune, error) {
	if i < 0 || i >= s.Len() {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, s.Len())
	}
	pos := 0
	for _, t := range s.tokens {
		n := t.Len()
		if i < pos+n {
			return runeAt(t.Value, i-pos), nil
		}
		pos += n
	}
	return 0, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, s.Len())
}

// SubSequence returns the visible runes in [start, end) as a String that
// renders correctly on its own: the style active at start is re-established
// by a single leading escape sequence, escape sequences inside the range are
// kept verbatim, and a style still active at end is switched off by a
// trailing escape sequence.
func (s *String) SubSequence(start, end int) (*String, error) {
	if start < 0 || end > s.Len() || start > end {
		return nil, fmt.Errorf("%w: range [%d, %d), length %d", ErrIndexOutOfBounds, start, end, s.Len())
	}
	if start == 0 && end == s.Len() {
		return s, nil
	}
	if start == end {
		return empty, nil
	}

	var state State
	var out []Token
	started := false
	pos := 0
	for _, t := range s.tokens {
		if pos >= end {
			break
		}
		if t.Kind == EscapeToken {
			state.Apply(t.Params())
			if started {
				out = append(out, t)
			}
			continue
		}

		n := t.Len()
		if pos+n <= start {
			pos += n
			continue
		}
		if !started {
			started = true
			if prefix, ok := state.Token(); ok {
				out = append(out, prefix)
			}
		}
		out = append(out, Text(runeSlice(t.Value, max(start-pos, 0), min(end-pos, n))))
		pos += n
	}
	if reset, ok := state.ResetToken(); ok {
		out = append(out, reset)
	}
	return build(out), nil
}

// StateAt returns the style in effect right before the visible rune at
// logical position i. Positions at or beyond the end report the style in
// effect after the last token.
func (s *String) StateAt(i int) State {
	var state State
	if s == nil {
		return state
	}
	pos := 0
	for _, t := range s.tokens {
		if t.Kind == EscapeToken {
			state.Apply(t.Params())
			continue
		}
		pos += t.Len()
		if pos > i {
			break
		}
	}
	return state
}

// Equal reports whether both strings consist of the same tokens.
func (s *String) Equal(other *String) bool {
	if s == other {
		return true
	}
	a, b := s.Tokens(), other.Tokens()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func (s *String) Hash() uint64 {
	d := xxhash.New()
	for _, t := range s.Tokens() {
		_, _ = d.Write([]byte{byte(t.Kind)})
		_, _ = d.WriteString(t.Value)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// runeAt returns the i-th rune of s.
func runeAt(s string, i int) rune {
	for _, r := range s {
		if i == 0 {
			return r
		}
		i--
	}
	return utf8.RuneError
}

// runeSlice returns the runes [from, to) of s.
func runeSlice(s string, from, to int) string {
	start, end := len(s), len(s)
	n := 0
	for byteIdx := range s {
		if n == from {
			start = byteIdx
		}
		if n == to {
			end = byteIdx
			break
		}
		n++
	}
	return s[start:end]
}
