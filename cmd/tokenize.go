package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bkahlert/kommons-sub008/internal/ansi"
)

var interpretEscapes bool

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [text...]",
	Short: "Split text into text and escape sequence tokens",
	Long: `Split text into text and SGR escape sequence tokens and print one token per line.

Text is taken from the arguments or, if there are none, from stdin.

Examples:
  # Escapes typed as \e are interpreted with -e
  kommons tokenize -e '\e[31mred\e[39m plain'

  # Inspect colored output of another program
  ls --color=always | kommons tokenize`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd, args, interpretEscapes)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		s := ansi.Parse(text)
		out := cmd.OutOrStdout()
		for _, t := range s.Tokens() {
			fmt.Fprintln(out, t.GoString())
		}
		fmt.Fprintf(out, "length %d, raw length %d\n", s.Len(), len(s.String()))
		return nil
	},
}

var sliceCmd = &cobra.Command{
	Use:   "slice START END [text...]",
	Short: "Print the self-contained subsequence between two logical positions",
	Long: `Print the subsequence of text between START (inclusive) and END (exclusive).

Positions count visible characters only. The result starts with the style
active at START and resets whatever is still active at END.

Examples:
  kommons slice -e 0 3 '\e[1mbold\e[22m text'
  echo 'some text' | kommons slice 5 9`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid start %q: %w", args[0], err)
		}
		end, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid end %q: %w", args[1], err)
		}
		text, err := readText(cmd, args[2:], interpretEscapes)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		sub, err := ansi.Parse(text).SubSequence(start, end)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strconv.Quote(sub.String()))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{tokenizeCmd, sliceCmd} {
		c.Flags().BoolVarP(&interpretEscapes, "interpret", "e", false, `interpret \e, \033, \x1b, \n and \t`)
		rootCmd.AddCommand(c)
	}
}
