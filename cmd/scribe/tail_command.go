package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/archive"
	"scribe/internal/pipeline"
)

func newTailCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show recent records from the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Archive.Enabled {
				return errors.New("archive is not enabled in the configuration")
			}
			path, err := pipeline.ResolveSinkPath(cfg.Archive.Path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("archive database: %w", err)
			}

			store, err := archive.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.Tail(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "archive is empty")
				return nil
			}

			headers := []string{"Time", "Level", "Logger", "Message", "Extras"}
			tableRows := make([][]string, 0, len(rows))
			for _, row := range rows {
				tableRows = append(tableRows, []string{
					row.Time.Local().Format(time.DateTime),
					row.Level,
					row.Logger,
					row.Message,
					renderExtras(row.Extras),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, tableRows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum records to show")
	return cmd
}

func renderExtras(extras map[string]any) string {
	if len(extras) == 0 {
		return ""
	}
	encoded, err := json.Marshal(extras)
	if err != nil {
		return fmt.Sprint(extras)
	}
	return string(encoded)
}
