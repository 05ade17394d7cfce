package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"foodreel/internal/ledger"
)

func (c *commandContext) withLedger(fn func(*ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg.Paths.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newUnresolvedCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "unresolved",
		Short: "List items that need a manual restaurant override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				items, err := store.Unresolved(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No items need an override")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						item.ItemID,
						strconv.Itoa(item.Attempts),
						item.FirstSeenAt.Local().Format(time.DateTime),
						truncate(item.Caption, 60),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Item", "Runs", "First Seen", "Caption"},
					rows,
					1,
				))
				fmt.Fprintln(out, "Add entries to the overrides file to resolve these items.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the queue as JSON")
	return cmd
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				runs, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.StartedAt.Local().Format(time.DateTime),
						run.Status,
						yesNo(run.DryRun),
						strconv.Itoa(run.Total),
						strconv.Itoa(run.Extracted),
						strconv.Itoa(run.Enriched),
						strconv.Itoa(run.Unresolved),
						strconv.Itoa(run.Errored),
						run.Duration().Round(time.Millisecond).String(),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Status", "Dry", "Items", "Extracted", "Enriched", "Unresolved", "Errored", "Took"},
					rows,
					4, 5, 6, 7, 8, 9,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}
