package cmd

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/bkahlert/kommons-sub008/internal/render"
)

// escapeReplacer turns escape notations typed on a shell into the
// characters they stand for.
var escapeReplacer = strings.NewReplacer(`\x1b`, "\x1b", `\033`, "\x1b", `\e`, "\x1b", `\n`, "\n", `\t`, "\t")

// readText returns args joined by blanks or, without args, all of stdin.
func readText(cmd *cobra.Command, args []string, interpret bool) (string, error) {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		text = strings.TrimSuffix(string(data), "\n")
	}
	if interpret {
		text = escapeReplacer.Replace(text)
	}
	return text, nil
}

// outputProfile returns the color profile of the command's output.
// Anything but a terminal gets termenv.Ascii unless CLICOLOR_FORCE is set.
func outputProfile(cmd *cobra.Command) termenv.Profile {
	return termenv.NewOutput(cmd.OutOrStdout()).EnvColorProfile()
}

// terminalSettings returns the configured render settings printing to the
// command's output. Escape sequences are removed for outputs without colors.
func terminalSettings(cmd *cobra.Command) (render.Settings, error) {
	profile := outputProfile(cmd)
	printer := render.WriterPrinter(cmd.OutOrStdout())
	if profile == termenv.Ascii {
		printer = render.PlainPrinter(printer)
	}
	return cfg.Render.Settings(profile, printer)
}
