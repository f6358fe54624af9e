package ansi

import (
	"strconv"
	"strings"
)

// category groups SGR codes that overwrite each other.
type category int

const (
	catIntensity category = iota
	catItalic
	catUnderline
	catBlink
	catInverse
	catConceal
	catStrike
	catForeground
	catBackground
	catOverline
	numCategories
)

// offCodes holds the code that switches each category back to neutral.
var offCodes = [numCategories]string{
	catIntensity:  "22",
	catItalic:     "23",
	catUnderline:  "24",
	catBlink:      "25",
	catInverse:    "27",
	catConceal:    "28",
	catStrike:     "29",
	catForeground: "39",
	catBackground: "49",
	catOverline:   "55",
}

// State is the graphic rendition in effect at some position of a text.
// For every category only the most recent code is kept.
// The zero value is the neutral state.
type State struct {
	codes [numCategories]string
}

// IsZero reports whether no style is active.
func (s State) IsZero() bool {
	for _, c := range s.codes {
		if c != "" {
			return false
		}
	}
	return true
}

// Codes returns the active codes in category order.
func (s State) Codes() []string {
	var codes []string
	for _, c := range s.codes {
		if c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// Apply updates the state with the parameters of one SGR sequence.
func (s *State) Apply(params string) {
	if params == "" {
		*s = State{}
		return
	}

	parts := strings.Split(params, ";")
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		head, _, _ := strings.Cut(part, ":")
		code, err := strconv.Atoi(head)
		if head == "" {
			code, err = 0, nil
		}
		if err != nil {
			continue
		}

		switch {
		case code == 0:
			*s = State{}
		case code == 1 || code == 2:
			s.codes[catIntensity] = part
		case code == 3:
			s.codes[catItalic] = part
		case code == 4 || code == 21:
			s.codes[catUnderline] = part
		case code == 5 || code == 6:
			s.codes[catBlink] = part
		case code == 7:
			s.codes[catInverse] = part
		case code == 8:
			s.codes[catConceal] = part
		case code == 9:
			s.codes[catStrike] = part
		case code == 53:
			s.codes[catOverline] = part
		case code == 38:
			n := extendedColorLen(part, parts[i:])
			s.codes[catForeground] = strings.Join(parts[i:i+n], ";")
			i += n - 1
		case code == 48:
			n := extendedColorLen(part, parts[i:])
			s.codes[catBackground] = strings.Join(parts[i:i+n], ";")
			i += n - 1
		case code >= 30 && code <= 37, code >= 90 && code <= 97:
			s.codes[catForeground] = part
		case code >= 40 && code <= 47, code >= 100 && code <= 107:
			s.codes[catBackground] = part
		default:
			if c, ok := offCategory(code); ok {
				s.codes[c] = ""
			}
		}
	}
}

// offCategory returns the category a neutralizing code applies to.
func offCategory(code int) (category, bool) {
	switch code {
	case 22:
		return catIntensity, true
	case 23:
		return catItalic, true
	case 24:
		return catUnderline, true
	case 25:
		return catBlink, true
	case 27:
		return catInverse, true
	case 28:
		return catConceal, true
	case 29:
		return catStrike, true
	case 39:
		return catForeground, true
	case 49:
		return catBackground, true
	case 55:
		return catOverline, true
	}
	return 0, false
}

// extendedColorLen returns how many parameters an extended color starting
// with 38 or 48 spans: 38;5;n takes three, 38;2;r;g;b five. The colon form
// 38:2::r:g:b is a single parameter.
func extendedColorLen(part string, rest []string) int {
	if strings.Contains(part, ":") || len(rest) < 2 {
		return 1
	}
	n := 1
	switch rest[1] {
	case "5":
		n = 3
	case "2":
		n = 5
	}
	if n > len(rest) {
		n = len(rest)
	}
	return n
}

// Token returns one escape token that establishes the state from neutral.
// ok is false for the neutral state.
func (s State) Token() (t Token, ok bool) {
	codes := s.Codes()
	if len(codes) == 0 {
		return Token{}, false
	}
	return SGR(codes...), true
}

// ResetToken returns one escape token that switches every active category
// back to neutral without touching inactive ones.
// ok is false for the neutral state.
func (s State) ResetToken() (t Token, ok bool) {
	var codes []string
	for c, code := range s.codes {
		if code != "" {
			codes = append(codes, offCodes[c])
		}
	}
	if len(codes) == 0 {
		return Token{}, false
	}
	return SGR(codes...), true
}
