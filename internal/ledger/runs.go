package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// RecordRun inserts or replaces a run row.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs
		(id, started_at, finished_at, dry_run, status, total, extracted, enriched, skipped, unresolved, errored, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt), boolToInt(run.DryRun), run.Status,
		run.Total, run.Extracted, run.Enriched, run.Skipped, run.Unresolved, run.Errored, nullableString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// Runs returns up to limit runs, newest first. A non-positive limit returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, dry_run, status, total, extracted, enriched, skipped, unresolved, errored, error_message
		FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run               Run
			started, finished string
			dryRun            int
			errMsg            sql.NullString
		)
		if err := rows.Scan(&run.ID, &started, &finished, &dryRun, &run.Status,
			&run.Total, &run.Extracted, &run.Enriched, &run.Skipped, &run.Unresolved, &run.Errored, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		run.DryRun = dryRun != 0
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
