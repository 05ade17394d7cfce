package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"foodreel/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify, enrich, and merge every item into the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.logger()
			if err != nil {
				return err
			}
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}
			result, runErr := runner.Run(signalCtx, dryRun)
			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else if runErr == nil || result.Total > 0 {
				printRunSummary(cmd, result)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Process items without writing the documents")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func printRunSummary(cmd *cobra.Command, result pipeline.Result) {
	status := newStatusPrinter(cmd.OutOrStdout())
	status.header("Run "+result.RunID)
	status.line("Items", statusInfo, fmt.Sprintf("%d total, %d skipped", result.Total, result.Skipped))
	status.line("Extracted", statusOK, strconv.Itoa(result.Extracted))
	status.line("Enriched", statusOK, strconv.Itoa(result.Enriched))

	unresolvedKind := statusOK
	unresolvedMsg := "0"
	if result.Unresolved > 0 {
		unresolvedKind = statusWarn
		unresolvedMsg = fmt.Sprintf("%d (%s); see `foodreel unresolved`", result.Unresolved, strings.Join(result.UnresolvedIDs, ", "))
	}
	status.line("Unresolved", unresolvedKind, unresolvedMsg)

	erroredKind := statusOK
	if result.Errored > 0 {
		erroredKind = statusWarn
	}
	status.line("Errored", erroredKind, strconv.Itoa(result.Errored))
	for _, problem := range result.Problems {
		status.line("Inconsistent", statusWarn, problem.String())
	}

	switch {
	case result.Interrupted:
		status.line("Documents", statusWarn, "interrupted; nothing written")
	case result.DryRun:
		status.line("Documents", statusInfo, "dry run; nothing written")
	case result.Saved:
		status.line("Documents", statusOK, "written")
	default:
		status.line("Documents", statusError, "not written")
	}
}
