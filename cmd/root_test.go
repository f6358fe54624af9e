package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/bkahlert/kommons-sub008/internal/ansi"
)

const testConfig = `render:
  renderer: one-line
  style: solid
  gap: 2
  columns:
    - name: description
      width: 20
    - name: status
      width: 10
`

// writeConfig writes content to a config file in a temporary directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command with a fresh viper instance and all flags
// reset to their defaults.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("KOMMONS_DEBUG", "")
	viper.Reset()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestTokenizeCmd(t *testing.T) {
	out, err := execute(t, "", "--config", writeConfig(t, testConfig), "tokenize", "-e", `\e[31mred\e[39m plain`)
	require.NoError(t, err)

	require.Equal(t, strings.Join([]string{
		`escape "\x1b[31m"`,
		`text "red" (3)`,
		`escape "\x1b[39m"`,
		`text " plain" (6)`,
		"length 9, raw length 19",
		"",
	}, "\n"), out)
}

func TestTokenizeCmd_ReadsStdin(t *testing.T) {
	out, err := execute(t, "\x1b[1mbold\x1b[0m\n", "--config", writeConfig(t, testConfig), "tokenize")
	require.NoError(t, err)

	require.Contains(t, out, `text "bold" (4)`)
	require.Contains(t, out, "length 4, raw length 12")
}

func TestSliceCmd(t *testing.T) {
	out, err := execute(t, "", "--config", writeConfig(t, testConfig), "slice", "-e", "0", "3", `\e[1mbold\e[22m text`)
	require.NoError(t, err)
	require.Equal(t, `"\x1b[1mbol\x1b[22m"`+"\n", out)
}

func TestSliceCmd_OutOfBounds(t *testing.T) {
	_, err := execute(t, "", "--config", writeConfig(t, testConfig), "slice", "2", "10", "text")
	require.ErrorIs(t, err, ansi.ErrIndexOutOfBounds)
}

func TestSliceCmd_InvalidPosition(t *testing.T) {
	_, err := execute(t, "", "--config", writeConfig(t, testConfig), "slice", "x", "1", "text")
	require.ErrorContains(t, err, `invalid start "x"`)
}

func TestWrapCmd(t *testing.T) {
	out, err := execute(t, "aaa bbb ccc ddd\n", "--config", writeConfig(t, testConfig), "wrap", "-w", "7")
	require.NoError(t, err)
	require.Equal(t, "aaa bbb\nccc ddd\n", out)
}

func TestWrapCmd_PadAndTruncate(t *testing.T) {
	out, err := execute(t, "", "--config", writeConfig(t, testConfig), "wrap", "-w", "5", "--pad", "--truncate", "ab\nabcdefgh")
	require.NoError(t, err)
	require.Equal(t, "ab   \nabcd…\n", out)
}

func TestColumnsCmd(t *testing.T) {
	stdin := `{"description":"compile","status":"ok"}` + "\n" +
		`{"description":"test","status":"2 skipped"}` + "\n"

	out, err := execute(t, stdin, "--config", writeConfig(t, testConfig), "columns", "--name", "build")
	require.NoError(t, err)
	require.Equal(t, "build ❱ compile ❱ test ❱ ✔︎\n", out)
}

func TestColumnsCmd_InvalidLine(t *testing.T) {
	stdin := `{"description":"compile"}` + "\n" + "not json\n"

	out, err := execute(t, stdin, "--config", writeConfig(t, testConfig), "columns")
	require.EqualError(t, err, "1 invalid line(s)")
	require.True(t, strings.HasPrefix(out, "columns ❱ compile ❱ line 2: "), out)
	require.Contains(t, out, "ϟ 1 invalid line(s)")
}

func TestColumnsCmd_BlockRenderer(t *testing.T) {
	stdin := `{"description":"compile","status":"ok"}` + "\n"

	out, err := execute(t, stdin, "--config", writeConfig(t, testConfig), "--renderer", "block", "--style", "none", "columns")
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"columns",
		"compile               ok        ",
		"✔︎",
		"",
	}, "\n"), out)
}

func TestTraceCmd(t *testing.T) {
	out, err := execute(t, "", "--config", writeConfig(t, testConfig), "trace")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "kommons.demo ❱ step.prepare ❱ ✔︎ ❱ step.download ❱ chunk 1 of 3"), out)
	require.Contains(t, out, "chunk 3 of 3 ❱ ✔︎ 3 chunks ❱ step.publish ❱ Publishing results")
	require.True(t, strings.HasSuffix(out, "❱ ✔︎ ❱ ✔︎\n"), out)
	require.Equal(t, 1, strings.Count(out, "\n"), "one-line renders everything on one line")
}

func TestTraceCmd_Fail(t *testing.T) {
	out, err := execute(t, "", "--config", writeConfig(t, testConfig), "trace", "--fail")
	require.ErrorIs(t, err, errCollectorUnreachable)

	require.Contains(t, out, "publish results: collector unreachable ❱ check the collector endpoint")
	require.True(t, strings.HasSuffix(out, "ϟ publish results: collector unreachable\n"), out)
}

func TestTraceCmd_ExportsSpans(t *testing.T) {
	tracesPath := filepath.Join(t.TempDir(), "traces.jsonl")
	config := testConfig + "tracing:\n  enabled: true\n  exporter: file\n  file_path: " + tracesPath + "\n"

	_, err := execute(t, "", "--config", writeConfig(t, config), "trace")
	require.NoError(t, err)

	data, err := os.ReadFile(tracesPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, string(data), `"name":"kommons.demo"`)
	require.Contains(t, string(data), `"name":"step.download"`)
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := execute(t, "", "--config", writeConfig(t, testConfig), "--renderer", "fancy", "tokenize", "x")
	require.ErrorContains(t, err, "invalid configuration")
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "", "--config", writeConfig(t, testConfig), "config", "init", path)
	require.NoError(t, err)
	require.Equal(t, "wrote "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "renderer: compact")
}

func TestConfigSaveCmd(t *testing.T) {
	path := writeConfig(t, testConfig+"tracing:\n  enabled: false\n")

	out, err := execute(t, "", "--config", path, "--style", "dotted", "-w", "100", "config", "save")
	require.NoError(t, err)
	require.Equal(t, "saved render options to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "style: dotted")
	require.Contains(t, string(data), "width: 100")
	require.Contains(t, string(data), "enabled: false")

	// the saved options are picked up without flags
	out, err = execute(t, `{"description":"x"}`+"\n", "--config", path, "--renderer", "one-line", "columns")
	require.NoError(t, err)
	require.Equal(t, "columns ❱ x ❱ ✔︎\n", out)
}

func TestParseAttributes_KeepsKeyOrder(t *testing.T) {
	attrs, err := parseAttributes(`{"status":"ok","description":"step","count":2,"nested":{"a":true}}`)
	require.NoError(t, err)

	require.Equal(t, []string{"status", "description", "count", "nested"}, attrs.Keys())
	count, _ := attrs.Get("count")
	require.Equal(t, float64(2), count)
	nested, _ := attrs.Get("nested")
	require.Equal(t, map[string]any{"a": true}, nested)
}

func TestParseAttributes_Invalid(t *testing.T) {
	for _, line := range []string{`[1,2]`, `"text"`, `{"a":1`, `{"a"}`} {
		_, err := parseAttributes(line)
		require.Error(t, err, line)
	}
}
