package ansi

import (
	"strings"
	"testing"
	"unicode/utf8"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestString_LengthExcludesEscapes(t *testing.T) {
	red := "\x1b[31mred\x1b[39m"
	s := Parse(red)

	require.Equal(t, 3, s.Len())
	require.Greater(t, len(red), s.Len(), "raw length must exceed logical length")
	require.Equal(t, red, s.String())
	require.Equal(t, "red", s.Plain())
}

func TestString_Empty(t *testing.T) {
	s := Parse("")
	require.Equal(t, 0, s.Len())
	require.True(t, s.IsEmpty())
	require.True(t, s.IsBlank())
	require.Same(t, Empty(), s)
}

func TestString_IsBlank(t *testing.T) {
	require.True(t, Parse("\x1b[1m  \x1b[22m").IsBlank())
	require.False(t, Parse("\x1b[1m x \x1b[22m").IsBlank())
}

func TestString_RuneAt(t *testing.T) {
	s := Parse(importantFixture)

	r, err := s.RuneAt(0)
	require.NoError(t, err)
	require.Equal(t, 'I', r)

	r, err = s.RuneAt(25)
	require.NoError(t, err)
	require.Equal(t, 'n', r)

	r, err = s.RuneAt(40)
	require.NoError(t, err)
	require.Equal(t, '.', r)
}

func TestString_RuneAtMultiByte(t *testing.T) {
	s := Parse("\x1b[1mä😀\x1b[22mü")

	r, err := s.RuneAt(1)
	require.NoError(t, err)
	require.Equal(t, '😀', r)

	r, err = s.RuneAt(2)
	require.NoError(t, err)
	require.Equal(t, 'ü', r)
}

func TestString_RuneAtOutOfBounds(t *testing.T) {
	s := Parse(importantFixture)

	_, err := s.RuneAt(s.Len())
	require.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = s.RuneAt(-1)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = Parse("").RuneAt(0)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestString_SubSequence(t *testing.T) {
	s := Parse(importantFixture)

	tests := []struct {
		name       string
		start, end int
		want       string
	}{
		{
			name:  "carries italic, underline and color",
			start: 0, end: 9,
			want: "\x1b[3;4;36mImportant\x1b[23;24;39m",
		},
		{
			name:  "underline switched off before start",
			start: 11, end: 20,
			want: "\x1b[3;36mThis line\x1b[23;39m",
		},
		{
			name:  "strike through active at start",
			start: 25, end: 27,
			want: "\x1b[3;9;36mno\x1b[23;29;39m",
		},
		{
			name:  "inner escapes kept verbatim",
			start: 24, end: 28,
			want: "\x1b[3;36m \x1b[9mno\x1b[29m \x1b[23;39m",
		},
		{
			name:  "empty range",
			start: 5, end: 5,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := s.SubSequence(tt.start, tt.end)
			require.NoError(t, err)
			require.Equal(t, tt.want, sub.String())
			require.Equal(t, tt.end-tt.start, sub.Len())
		})
	}
}

func TestString_SubSequenceFullRangeIsSameInstance(t *testing.T) {
	s := Parse(importantFixture)

	sub, err := s.SubSequence(0, s.Len())
	require.NoError(t, err)
	require.Same(t, s, sub)
}

func TestString_SubSequenceUnstyled(t *testing.T) {
	sub, err := Parse("hello world").SubSequence(6, 11)
	require.NoError(t, err)
	require.Equal(t, "world", sub.String())
}

func TestString_SubSequenceAfterReset(t *testing.T) {
	sub, err := Parse("\x1b[1mbold\x1b[0m plain").SubSequence(5, 10)
	require.NoError(t, err)
	require.Equal(t, "plain", sub.String(), "no style is active after the reset")
}

func TestString_SubSequenceMostRecentCodeWins(t *testing.T) {
	sub, err := Parse("\x1b[31mab\x1b[32mcd\x1b[4mef").SubSequence(4, 6)
	require.NoError(t, err)
	require.Equal(t, "\x1b[4;32mef\x1b[24;39m", sub.String())
}

func TestString_SubSequenceOutOfBounds(t *testing.T) {
	s := Parse(importantFixture)

	_, err := s.SubSequence(0, s.Len()+1)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = s.SubSequence(-1, 2)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = s.SubSequence(3, 2)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestString_StateAt(t *testing.T) {
	s := Parse("\x1b[1ma\x1b[31mb\x1b[0mc")

	require.Equal(t, []string{"1"}, s.StateAt(0).Codes())
	require.Equal(t, []string{"1", "31"}, s.StateAt(1).Codes())
	require.True(t, s.StateAt(2).IsZero())
	require.True(t, s.StateAt(3).IsZero())
}

func TestString_EqualAndHash(t *testing.T) {
	a := Parse("ab")
	b := Concat(Parse("a"), Parse("b"))
	c := Parse("\x1b[1mab")

	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())
	require.False(t, a.Equal(c))
	require.NotEqual(t, a.Hash(), c.Hash())
	require.True(t, Empty().Equal(FromTokens(Text(""))))
}

func TestFromTokens_MergesText(t *testing.T) {
	s := FromTokens(Text("a"), Text(""), Text("b"), SGR("1"), Text("c"))

	require.Equal(t, []Token{Text("ab"), Esc("\x1b[1m"), Text("c")}, s.Tokens())
	require.Equal(t, 3, s.Len())
}

// ===========================================================================
// Property-Based Tests (using pgregory.net/rapid)
// ===========================================================================

var (
	textPieces   = []string{"a", "bc", "Hello", " ", "ä", "日本", "😀", "\n", "x y"}
	escapePieces = []string{"\x1b[31m", "\x1b[0m", "\x1b[1;4m", "\x1b[38;2;1;2;3m", "\x1b[24m", "\x1b[m", "\x1b[3;36m", "\x1b[23;39m"}
)

func ansiText() *rapid.Generator[string] {
	return rapid.Custom(func(rt *rapid.T) string {
		pieces := rapid.SliceOf(rapid.SampledFrom(append(append([]string{}, textPieces...), escapePieces...))).Draw(rt, "pieces")
		return strings.Join(pieces, "")
	})
}

func TestProperty_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := ansiText().Draw(rt, "s")
		require.Equal(t, s, Parse(s).String())
	})
}

func TestProperty_LengthCountsVisibleRunes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := ansiText().Draw(rt, "s")
		require.Equal(t, utf8.RuneCountInString(xansi.Strip(s)), Parse(s).Len())
	})
}

func TestProperty_PlainMatchesStrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := ansiText().Draw(rt, "s")
		plain := Parse(s).Plain()
		require.NotContains(t, plain, "\x1b")
		require.Equal(t, xansi.Strip(s), plain)
	})
}

func TestProperty_SubSequenceLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := Parse(ansiText().Draw(rt, "s"))
		a := rapid.IntRange(0, s.Len()).Draw(rt, "a")
		b := rapid.IntRange(a, s.Len()).Draw(rt, "b")

		sub, err := s.SubSequence(a, b)
		require.NoError(t, err)
		require.Equal(t, b-a, sub.Len())
		require.Equal(t, string([]rune(s.Plain())[a:b]), sub.Plain())
	})
}

func TestProperty_SubSequenceIsSelfContained(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := Parse(ansiText().Draw(rt, "s"))
		a := rapid.IntRange(0, s.Len()).Draw(rt, "a")
		b := rapid.IntRange(a, s.Len()).Draw(rt, "b")
		if a == 0 && b == s.Len() {
			return
		}

		sub, err := s.SubSequence(a, b)
		require.NoError(t, err)
		reparsed := Parse(sub.String())
		require.True(t, reparsed.StateAt(reparsed.Len()).IsZero(), "slice %q leaks style", sub.String())
		if a < b {
			require.Equal(t, s.StateAt(a).Codes(), reparsed.StateAt(0).Codes())
		}
	})
}

func TestProperty_FullRangePreservesVisibleText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := Parse(ansiText().Draw(rt, "s"))
		sub, err := s.SubSequence(0, s.Len())
		require.NoError(t, err)
		require.Equal(t, s.Plain(), sub.Plain())
	})
}

func TestProperty_OutOfBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := Parse(ansiText().Draw(rt, "s"))
		_, err := s.RuneAt(s.Len())
		require.ErrorIs(t, err, ErrIndexOutOfBounds)
		_, err = s.SubSequence(0, s.Len()+1)
		require.ErrorIs(t, err, ErrIndexOutOfBounds)
	})
}
