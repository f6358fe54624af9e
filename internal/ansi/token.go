// Package ansi models text that contains SGR escape sequences.
//
// Text is split into tokens that are either visible text runs or single
// escape sequences. String builds on these tokens and offers indexing,
// slicing and wrapping in terms of visible (logical) positions while keeping
// the escape state of every slice intact.
package ansi

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Escape is the ESC control character that opens an escape sequence.
const Escape = '\x1b'

// TokenKind distinguishes text runs from escape sequences.
type TokenKind int

const (
	TextToken TokenKind = iota
	EscapeToken
)

func (k TokenKind) String() string {
	switch k {
	case TextToken:
		return "text"
	case EscapeToken:
		return "escape"
	default:
		return "unknown"
	}
}

// Token is either a run of literal text or exactly one escape sequence.
type Token struct {
	Kind  TokenKind
	Value string
}

// Text returns a text token.
func Text(s string) Token {
	return Token{Kind: TextToken, Value: s}
}

// Esc returns an escape token for the given raw sequence.
func Esc(seq string) Token {
	return Token{Kind: EscapeToken, Value: seq}
}

// SGR returns the escape token ESC [ params m.
func SGR(params ...string) Token {
	return Esc("\x1b[" + strings.Join(params, ";") + "m")
}

// Len returns the logical length: the number of visible runes for text and
// zero for escape sequences.
func (t Token) Len() int {
	if t.Kind == EscapeToken {
		return 0
	}
	return utf8.RuneCountInString(t.Value)
}

// Params returns the parameter part of an escape token, e.g. "3;36" for
// ESC[3;36m. Text tokens have no params.
func (t Token) Params() string {
	if t.Kind != EscapeToken || len(t.Value) < 3 {
		return ""
	}
	return t.Value[2 : len(t.Value)-1]
}

// GoString renders the token for debugging output.
func (t Token) GoString() string {
	if t.Kind == EscapeToken {
		return "escape " + strconv.Quote(t.Value)
	}
	return "text " + strconv.Quote(t.Value) + " (" + strconv.Itoa(t.Len()) + ")"
}

// Tokenize splits s into text and escape tokens.
//
// Only SGR sequences (ESC [ params m, with params made of digits, ';' and ':')
// become escape tokens. Every other use of ESC, including a sequence cut off
// by the end of input, stays part of the surrounding text.
func Tokenize(s string) []Token {
	if s == "" {
		return nil
	}

	var tokens []Token
	textStart := 0
	i := 0
	for i < len(s) {
		if s[i] != Escape {
			i++
			continue
		}
		end := sgrEnd(s, i)
		if end < 0 {
			i++
			continue
		}
		if textStart < i {
			tokens = append(tokens, Text(s[textStart:i]))
		}
		tokens = append(tokens, Esc(s[i:end]))
		i = end
		textStart = end
	}
	if textStart < len(s) {
		tokens = append(tokens, Text(s[textStart:]))
	}
	return tokens
}

// sgrEnd returns the index just past the SGR sequence starting at i,
// or -1 if no complete SGR sequence starts there.
func sgrEnd(s string, i int) int {
	if i+1 >= len(s) || s[i+1] != '[' {
		return -1
	}
	for j := i + 2; j < len(s); j++ {
		switch c := s[j]; {
		case c >= '0' && c <= '9', c == ';', c == ':':
			continue
		case c == 'm':
			return j + 1
		default:
			return -1
		}
	}
	return -1
}
