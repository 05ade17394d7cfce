package main

import (
	"errors"

	"github.com/spf13/cobra"

	"foodreel/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify paths, documents, ledger, and credentials before a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				status := newStatusPrinter(cmd.OutOrStdout())
				status.header("Preflight")
				for _, r := range results {
					status.line(r.Name, checkKind(r), r.Detail)
				}
			}
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print check results as JSON")
	return cmd
}

func checkKind(r preflight.Result) statusKind {
	switch {
	case !r.Passed:
		return statusError
	case r.Warning:
		return statusWarn
	default:
		return statusOK
	}
}
