package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bkahlert/kommons-sub008/internal/ansi"
)

var (
	wrapPad      bool
	wrapTruncate bool
)

const defaultWrapWidth = 80

var wrapCmd = &cobra.Command{
	Use:   "wrap [text...]",
	Short: "Word wrap text without breaking escape sequences",
	Long: `Word wrap text to the given width. Every output line carries the style
active at its start and resets it at its end. URLs are never broken.

The width is taken from --width (default 80).

Examples:
  ls --color=always | kommons wrap -w 40
  kommons wrap -e -w 10 --pad '\e[44mwhite space everywhere\e[49m'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd, args, interpretEscapes)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		width := cfg.Render.Width
		if width <= 0 {
			width = defaultWrapWidth
		}

		s := ansi.Parse(text)
		var lines []*ansi.String
		if wrapTruncate {
			for _, line := range s.Lines() {
				lines = append(lines, line.Truncate(width, "…"))
			}
		} else {
			lines = s.Wrap(width)
		}

		out := cmd.OutOrStdout()
		for _, line := range lines {
			if wrapPad {
				line = line.PadEnd(width)
			}
			fmt.Fprintln(out, line.String())
		}
		return nil
	},
}

func init() {
	wrapCmd.Flags().BoolVarP(&interpretEscapes, "interpret", "e", false, `interpret \e, \033, \x1b, \n and \t`)
	wrapCmd.Flags().BoolVar(&wrapPad, "pad", false, "pad lines with blanks to the full width")
	wrapCmd.Flags().BoolVar(&wrapTruncate, "truncate", false, "truncate long lines instead of wrapping them")
	rootCmd.AddCommand(wrapCmd)
}
