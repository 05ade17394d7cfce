package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foodreel/internal/config"
	"foodreel/internal/pipeline"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Merge freshly scraped items into the items document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.logger()
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve source: %w", err)
			}
			runner, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}
			stats, err := runner.Ingest(cmd.Context(), source, dryRun)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %d, updated %d, unchanged %d", stats.Added, stats.Updated, stats.Unchanged)
			if stats.DroppedWithoutID > 0 {
				fmt.Fprintf(out, ", dropped %d without id", stats.DroppedWithoutID)
			}
			if dryRun {
				fmt.Fprint(out, " (dry run)")
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the merge without writing the items document")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print merge statistics as JSON")
	return cmd
}
