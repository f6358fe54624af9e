package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/bkahlert/kommons-sub008/internal/render"
)

func TestValidateColumns_Empty(t *testing.T) {
	require.NoError(t, ValidateColumns(nil), "empty columns should be valid (uses defaults)")
}

func TestValidateColumns(t *testing.T) {
	tests := []struct {
		name    string
		cols    []ColumnConfig
		wantErr string
	}{
		{name: "valid", cols: []ColumnConfig{{Name: "description", Width: 80}, {Name: "status", Width: 40}}},
		{name: "missing name", cols: []ColumnConfig{{Width: 10}}, wantErr: "column 0: name is required"},
		{name: "zero width", cols: []ColumnConfig{{Name: "a", Width: 10}, {Name: "b"}}, wantErr: "column 1 (b): width must be positive"},
		{name: "duplicate", cols: []ColumnConfig{{Name: "a", Width: 1}, {Name: "a", Width: 2}}, wantErr: "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumns(tt.cols)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRender(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RenderConfig
		wantErr string
	}{
		{name: "defaults", cfg: Defaults().Render},
		{name: "empty", cfg: RenderConfig{}},
		{name: "block", cfg: RenderConfig{Renderer: "block", Style: "Dotted"}},
		{name: "unknown renderer", cfg: RenderConfig{Renderer: "fancy"}, wantErr: "render.renderer must be"},
		{name: "unknown style", cfg: RenderConfig{Style: "wavy"}, wantErr: "render.style"},
		{name: "negative gap", cfg: RenderConfig{Gap: -1}, wantErr: "render.gap must not be negative"},
		{name: "negative width", cfg: RenderConfig{Width: -1}, wantErr: "render.width must not be negative"},
		{
			name:    "width too small for columns",
			cfg:     RenderConfig{Columns: []ColumnConfig{{Name: "a", Width: 1}, {Name: "b", Width: 1}, {Name: "c", Width: 100}}, Width: 20},
			wantErr: render.ErrLayoutTooNarrow.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRender(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracingConfig
		wantErr string
	}{
		{name: "defaults", cfg: Defaults().Tracing},
		{name: "enabled file without path", cfg: TracingConfig{Enabled: true, Exporter: "file"}},
		{name: "sample rate too high", cfg: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate must be between"},
		{name: "sample rate negative", cfg: TracingConfig{SampleRate: -0.1}, wantErr: "sample_rate must be between"},
		{name: "unknown exporter", cfg: TracingConfig{Exporter: "jaeger"}, wantErr: "tracing.exporter must be"},
		{name: "otlp without endpoint", cfg: TracingConfig{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint is required"},
		{name: "disabled otlp without endpoint", cfg: TracingConfig{Exporter: "otlp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRenderConfig_Layout(t *testing.T) {
	layout, err := RenderConfig{Gap: 5}.Layout()
	require.NoError(t, err)
	require.Equal(t, render.DefaultLayout().Widths(), layout.Widths())

	layout, err = RenderConfig{
		Columns: []ColumnConfig{{Name: "a", Width: 30}, {Name: "b", Width: 10}},
		Gap:     2,
		Width:   22,
	}.Layout()
	require.NoError(t, err)
	require.Equal(t, []int{15, 5}, layout.Widths())
	require.Equal(t, 22, layout.TotalWidth())
}

func TestRenderConfig_Provider(t *testing.T) {
	settings := render.Settings{}

	r, err := RenderConfig{Renderer: "block"}.Provider()(settings)
	require.NoError(t, err)
	require.IsType(t, &render.BlockRenderer{}, r)

	r, err = RenderConfig{Renderer: "one-line"}.Provider()(settings)
	require.NoError(t, err)
	require.IsType(t, &render.OneLineRenderer{}, r)

	r, err = RenderConfig{}.Provider()(settings)
	require.NoError(t, err)
	require.IsType(t, &render.CompactRenderer{}, r)
}

func TestRenderConfig_Settings(t *testing.T) {
	printer := &render.LinesPrinter{}
	settings, err := RenderConfig{Style: "none", Gap: 1, DecorationColor: "1"}.Settings(termenv.ANSI, printer.Print)
	require.NoError(t, err)

	require.Equal(t, render.StyleNone, settings.Style)
	require.Equal(t, 1, settings.Layout.Gap())
	require.Equal(t, "\x1b[31m❱\x1b[0m", settings.DecorationFormatter("❱"))
	require.NotNil(t, settings.Cache)

	settings, err = RenderConfig{}.Settings(termenv.Ascii, printer.Print)
	require.NoError(t, err)
	require.Equal(t, render.StyleSolid, settings.Style)
	require.Equal(t, "x", settings.DecorationFormatter("x"))

	_, err = RenderConfig{Style: "wavy"}.Settings(termenv.ANSI, printer.Print)
	require.Error(t, err)
}

func TestTracingConfig_Tracing(t *testing.T) {
	cfg := TracingConfig{Enabled: true, SampleRate: 0.5}.Tracing()
	require.True(t, cfg.Enabled)
	require.Equal(t, "file", cfg.Exporter)
	require.Equal(t, DefaultTracesFilePath(), cfg.FilePath)
	require.Equal(t, 0.5, cfg.SampleRate)

	cfg = TracingConfig{Exporter: "stdout"}.Tracing()
	require.Empty(t, cfg.FilePath)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg = TracingConfig{Exporter: "file", FilePath: "~/traces.jsonl"}.Tracing()
	require.Equal(t, filepath.Join(home, "traces.jsonl"), cfg.FilePath)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, cfg.Validate())
	require.Equal(t, "compact", cfg.Render.Renderer)
	require.Equal(t, "solid", cfg.Render.Style)
	require.Equal(t, render.DefaultGap, cfg.Render.Gap)
	require.Equal(t, DefaultColumns(), cfg.Render.Columns)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	defaults := Defaults()
	require.Equal(t, defaults.Render, cfg.Render)
	require.NoError(t, cfg.Validate())
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
