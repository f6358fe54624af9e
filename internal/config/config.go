// Package config provides configuration types, defaults and persistence for kommons.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"

	"github.com/bkahlert/kommons-sub008/internal/ansi"
	"github.com/bkahlert/kommons-sub008/internal/log"
	"github.com/bkahlert/kommons-sub008/internal/render"
	"github.com/bkahlert/kommons-sub008/internal/tracing"
)

// Config holds all configuration options for kommons.
type Config struct {
	Render  RenderConfig  `mapstructure:"render"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// ColumnConfig defines one column of the render layout.
type ColumnConfig struct {
	Name  string `mapstructure:"name"`
	Width int    `mapstructure:"width"`
}

// RenderConfig holds span rendering options.
type RenderConfig struct {
	// Renderer selects how spans are printed.
	// Options: "block", "one-line", "compact"
	// Default: "compact"
	Renderer string `mapstructure:"renderer"`

	// Style decorates block rendered spans.
	// Options: "solid", "dotted", "none"
	// Default: "solid"
	Style string `mapstructure:"style"`

	// Columns attribute values are laid out in.
	// Default: description (80) and status (40)
	Columns []ColumnConfig `mapstructure:"columns"`

	// Gap is the number of blanks between columns. Default: 5
	Gap int `mapstructure:"gap"`

	// Width scales the columns to this total width; 0 keeps the configured widths.
	Width int `mapstructure:"width"`

	// DecorationColor colors borders and separators, e.g. "#5f87af" or "4".
	// Empty disables coloring.
	DecorationColor string `mapstructure:"decoration_color"`
}

// TracingConfig holds span export configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded and exported.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/kommons/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName identifies kommons in exported spans.
	// Default: "kommons"
	ServiceName string `mapstructure:"service_name"`
}

// DefaultTracesFilePath returns ~/.config/kommons/traces/traces.jsonl or an
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kommons", "traces", "traces.jsonl")
}

// DefaultColumns returns the columns of render.DefaultLayout.
func DefaultColumns() []ColumnConfig {
	cols := make([]ColumnConfig, len(render.DefaultColumns))
	for i, c := range render.DefaultColumns {
		cols[i] = ColumnConfig{Name: c.Name, Width: c.Width}
	}
	return cols
}

// ValidateColumns checks column configuration for errors.
// Returns nil if columns are valid or empty (will use defaults).
func ValidateColumns(cols []ColumnConfig) error {
	seen := make(map[string]bool, len(cols))
	for i, col := range cols {
		if col.Name == "" {
			return fmt.Errorf("column %d: name is required", i)
		}
		if col.Width <= 0 {
			return fmt.Errorf("column %d (%s): width must be positive, got %d", i, col.Name, col.Width)
		}
		if seen[col.Name] {
			return fmt.Errorf("column %d (%s): duplicate name", i, col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

// ValidateRender checks render configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateRender(r RenderConfig) error {
	switch r.Renderer {
	case "", "block", "one-line", "compact":
	default:
		return fmt.Errorf("render.renderer must be \"block\", \"one-line\", or \"compact\", got %q", r.Renderer)
	}
	if r.Style != "" {
		if _, err := render.ParseStyle(r.Style); err != nil {
			return fmt.Errorf("render.style: %w", err)
		}
	}
	if err := ValidateColumns(r.Columns); err != nil {
		return fmt.Errorf("render.columns: %w", err)
	}
	if r.Gap < 0 {
		return fmt.Errorf("render.gap must not be negative, got %d", r.Gap)
	}
	if r.Width < 0 {
		return fmt.Errorf("render.width must not be negative, got %d", r.Width)
	}
	if _, err := r.Layout(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	// the file exporter falls back to DefaultTracesFilePath
	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// Validate checks the complete configuration.
func (c Config) Validate() error {
	if err := ValidateRender(c.Render); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// Layout returns the configured columns layout.
func (r RenderConfig) Layout() (render.ColumnsLayout, error) {
	cols := r.Columns
	if len(cols) == 0 {
		cols = DefaultColumns()
	}
	columns := make([]render.Column, len(cols))
	for i, c := range cols {
		columns[i] = render.Column{Name: c.Name, Width: c.Width}
	}
	return render.NewColumnsLayout(columns, r.Gap, r.Width)
}

// Provider returns the configured root renderer provider.
func (r RenderConfig) Provider() render.RendererProvider {
	switch r.Renderer {
	case "block":
		return render.Block
	case "one-line":
		return render.OneLine
	default:
		return render.Compact
	}
}

// Settings builds renderer settings printing to printer. Decoration is
// colored as far as profile supports it.
func (r RenderConfig) Settings(profile termenv.Profile, printer render.Printer) (render.Settings, error) {
	layout, err := r.Layout()
	if err != nil {
		return render.Settings{}, err
	}
	style := render.StyleSolid
	if r.Style != "" {
		if style, err = render.ParseStyle(r.Style); err != nil {
			return render.Settings{}, err
		}
	}
	deco := render.Identity
	if r.DecorationColor != "" {
		deco = render.ColorFormatter(profile, r.DecorationColor)
	}
	return render.Settings{
		Style:               style,
		Layout:              layout,
		DecorationFormatter: deco,
		Printer:             printer,
		Cache:               ansi.NewCache(),
	}, nil
}

// Tracing converts the configuration for tracing.NewProvider. An empty
// file path of the file exporter is replaced by DefaultTracesFilePath.
func (t TracingConfig) Tracing() tracing.Config {
	filePath := t.FilePath
	if filePath == "" && (t.Exporter == "file" || t.Exporter == "") {
		filePath = DefaultTracesFilePath()
	}
	exporter := t.Exporter
	if exporter == "" {
		exporter = "file"
	}
	return tracing.Config{
		Enabled:      t.Enabled,
		Exporter:     exporter,
		FilePath:     expandHome(filePath),
		OTLPEndpoint: t.OTLPEndpoint,
		SampleRate:   t.SampleRate,
		ServiceName:  t.ServiceName,
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Render: RenderConfig{
			Renderer: "compact",
			Style:    "solid",
			Columns:  DefaultColumns(),
			Gap:      render.DefaultGap,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // derived at runtime
			OTLPEndpoint: tracing.DefaultOTLPEndpoint,
			SampleRate:   1.0,
			ServiceName:  tracing.DefaultServiceName,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Kommons Configuration

# Span rendering
render:
  renderer: compact     # block, one-line, or compact (default)
  style: solid          # solid (default), dotted, or none
  gap: 5                # blanks between columns
  # width: 120          # scale the columns to this total width
  # decoration_color: "#5f87af"  # color of borders and separators

  # Columns attribute values are laid out in; the widest is the primary
  # column shown by the one-line renderer
  columns:
    - name: description
      width: 80
    - name: status
      width: 40

# Span export
# tracing:
#   enabled: false                 # Enable/disable span export (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/kommons/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#   service_name: kommons
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
