package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/event"
	"scribe/internal/pipeline"
)

func newEmitCommand(ctx *commandContext) *cobra.Command {
	var levelFlag string
	var extraFlags []string

	cmd := &cobra.Command{
		Use:   "emit <message> [args...]",
		Short: "Emit one record through the configured pipeline",
		Long: `Emit builds the configured pipeline, dispatches a single record, and
shuts the pipeline down. Positional arguments after the message template are
substituted printf-style.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			level, err := event.ParseSeverity(levelFlag)
			if err != nil {
				return err
			}
			extras, err := parseExtras(extraFlags)
			if err != nil {
				return err
			}

			p, err := pipeline.FromConfig(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			templateArgs := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				templateArgs = append(templateArgs, arg)
			}
			return p.Emit(level, args[0], templateArgs, extras)
		},
	}

	cmd.Flags().StringVarP(&levelFlag, "level", "l", "info", "Record severity")
	cmd.Flags().StringArrayVarP(&extraFlags, "extra", "e", nil, "Extra field as key=value (repeatable)")
	return cmd
}

func parseExtras(pairs []string) (event.Fields, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	extras := make(event.Fields, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("extra %q is not key=value", pair)
		}
		extras[strings.TrimSpace(key)] = value
	}
	return extras, nil
}
