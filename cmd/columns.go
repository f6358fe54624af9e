package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/bkahlert/kommons-sub008/internal/log"
	"github.com/bkahlert/kommons-sub008/internal/render"
)

var columnsName string

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Render JSON objects from stdin as column aligned events",
	Long: `Read one JSON object per line from stdin and render each as an event of
a single span. Keys matching a configured column fill that column; all other
keys are ignored. The one-line renderer only shows the widest column.

Examples:
  printf '%s\n' '{"description":"compile","status":"ok"}' \
    '{"description":"test","status":"2 skipped"}' | kommons columns --name build

  # Narrow output with dotted decoration
  kommons columns -w 60 --style dotted < events.jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := terminalSettings(cmd)
		if err != nil {
			return err
		}
		renderer, err := cfg.Render.Provider()(settings)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		return renderColumns(cmd.InOrStdin(), renderer, columnsName)
	},
}

// renderColumns renders every JSON object line of r as an event. Invalid
// lines are rendered as exceptions and make the span fail.
func renderColumns(r io.Reader, renderer render.Renderer, name string) error {
	renderer.Start(trace.TraceID{}, trace.SpanID{}, name)

	invalid := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		attrs, err := parseAttributes(line)
		if err != nil {
			invalid++
			log.Warn(log.CatCmd, "invalid line", "line", n, "error", err)
			renderer.Exception(fmt.Errorf("line %d: %w", n, err), nil)
			continue
		}
		renderer.Event("row", attrs)
	}

	err := scanner.Err()
	if err == nil && invalid > 0 {
		err = fmt.Errorf("%d invalid line(s)", invalid)
	}
	renderer.End(render.ReturnValueOf(nil, err))
	return err
}

// parseAttributes decodes a JSON object keeping the order of its keys.
func parseAttributes(line string) (render.Attributes, error) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	iter := json.BorrowIterator([]byte(line))
	defer json.ReturnIterator(iter)

	var attrs render.Attributes
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, errors.New("expected a JSON object")
	}
	iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
		attrs = append(attrs, render.Attribute{Key: key, Value: it.Read()})
		return it.Error == nil
	})
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, iter.Error
	}
	return attrs, nil
}

func init() {
	columnsCmd.Flags().StringVarP(&columnsName, "name", "n", "columns", "name of the rendered span")
	rootCmd.AddCommand(columnsCmd)
}
