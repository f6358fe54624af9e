package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bkahlert/kommons-sub008/internal/log"
	"github.com/bkahlert/kommons-sub008/internal/render"
	"github.com/bkahlert/kommons-sub008/internal/tracing"
)

var errCollectorUnreachable = errors.New("collector unreachable")

var traceFail bool

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Render a demo of nested spans",
	Long: `Run a few nested demo steps as OpenTelemetry spans and render them with
the configured renderer and style. With tracing enabled in the configuration
the spans are exported as well.

Examples:
  kommons trace
  kommons trace --renderer block --style dotted -w 100
  kommons trace --fail`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := tracing.NewProvider(cfg.Tracing.Tracing())
		if err != nil {
			return fmt.Errorf("creating tracing provider: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(ctx); err != nil {
				log.ErrorErr(log.CatTrace, "shutting down tracing", err)
			}
		}()

		settings, err := terminalSettings(cmd)
		if err != nil {
			return err
		}
		tracer := tracing.NewRenderingTracer(provider.Tracer(), settings, cfg.Render.Provider())
		return runDemo(cmd.Context(), tracer, traceFail)
	},
}

// runDemo runs the demo steps. With fail set, the last step fails.
func runDemo(ctx context.Context, tracer trace.Tracer, fail bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return tracing.Do(ctx, tracer, tracing.SpanDemo, func(ctx context.Context) error {
		if err := tracing.Do(ctx, tracer, tracing.SpanPrefixStep+"prepare", func(context.Context) error {
			return nil
		}); err != nil {
			return err
		}

		if _, err := tracing.Run(ctx, tracer, tracing.SpanPrefixStep+"download", downloadChunks); err != nil {
			return err
		}

		return tracing.Do(ctx, tracer, tracing.SpanPrefixStep+"publish", func(ctx context.Context) error {
			span := trace.SpanFromContext(ctx)
			span.AddEvent(tracing.EventStepProgress, trace.WithAttributes(
				attribute.String(tracing.AttrDescription, "Publishing results to "+render.Bold("https://example.com/kommons/results")+" for later inspection by anyone interested"),
				attribute.String(tracing.AttrStatus, "pending"),
			))
			if !fail {
				return nil
			}
			err := errors.WithHint(
				errors.Wrap(errCollectorUnreachable, "publish results"),
				"check the collector endpoint")
			span.RecordError(err)
			for _, hint := range errors.GetAllHints(err) {
				span.AddEvent("hint", trace.WithAttributes(attribute.String(tracing.AttrDescription, hint)))
			}
			return err
		})
	})
}

func downloadChunks(ctx context.Context) (string, error) {
	span := trace.SpanFromContext(ctx)
	const chunks = 3
	for i := 1; i <= chunks; i++ {
		span.AddEvent(tracing.EventStepProgress, trace.WithAttributes(
			attribute.String(tracing.AttrDescription, fmt.Sprintf("chunk %d of %d", i, chunks)),
			attribute.String(tracing.AttrStatus, render.Bold("ok")),
		))
	}
	return fmt.Sprintf("%d chunks", chunks), nil
}

func init() {
	traceCmd.Flags().BoolVar(&traceFail, "fail", false, "make the last step fail")
	rootCmd.AddCommand(traceCmd)
}
