package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"scribe/internal/event"
	"scribe/internal/metrics"
	"scribe/internal/pipeline"
)

func newDemoCommand(ctx *commandContext) *cobra.Command {
	var rounds int
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate sample traffic through the configured pipeline",
		Long: `Demo drives the pipeline with a spread of severities, extras, and an
exception-flavored record per round. With metrics enabled in the
configuration, dispatch counters are served over HTTP for the duration of the
run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var opts []pipeline.Option
			var observer *metrics.Observer
			if cfg.Metrics.Enabled {
				observer = metrics.NewObserver()
				opts = append(opts, pipeline.WithObserver(observer))
			}

			p, err := pipeline.FromConfig(cfg, opts...)
			if err != nil {
				return err
			}
			defer p.Close()

			if observer != nil {
				mux := http.NewServeMux()
				mux.Handle("/metrics", observer.Handler())
				server := &http.Server{Addr: cfg.Metrics.Bind, Handler: mux}
				go func() { _ = server.ListenAndServe() }()
				defer server.Close()
				fmt.Fprintf(cmd.OutOrStdout(), "serving metrics on http://%s/metrics\n", cfg.Metrics.Bind)
			}

			p.Infof("Logging setup complete.")
			for round := 1; round <= rounds; round++ {
				worker := p.WithFields(event.Fields{"round": round})
				worker.Debugf("starting round %d of %d", round, rounds)
				worker.Infof("processed %d items", round*3)
				_ = worker.Emit(event.Warning, "queue depth is %d", []any{round * 7}, event.Fields{"queue": "ingest"})
				worker.Exception(errors.New("upstream unavailable"), "round %d failed", round)
				if interval > 0 && round < rounds {
					time.Sleep(interval)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 3, "Number of demo rounds")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Pause between rounds")
	return cmd
}
