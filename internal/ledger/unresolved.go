package ledger

import (
	"context"
	"fmt"
	"time"
)

// Pending is an item the current run could not classify.
type Pending struct {
	ItemID  string
	Caption string
}

// SyncUnresolved makes the queue equal to pending: new ids are added,
// ids seen again get their attempt counter bumped, and ids no longer
// pending are removed.
func (s *Store) SyncUnresolved(ctx context.Context, runID string, at time.Time, pending []Pending) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unresolved tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TEMP TABLE IF NOT EXISTS pending_ids (item_id TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("create pending table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pending_ids"); err != nil {
		return fmt.Errorf("reset pending table: %w", err)
	}

	stamp := formatTime(at)
	for _, item := range pending {
		if item.ItemID == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO pending_ids (item_id) VALUES (?)", item.ItemID); err != nil {
			return fmt.Errorf("stage pending %s: %w", item.ItemID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO unresolved_items
			(item_id, caption, first_seen_run, last_seen_run, first_seen_at, last_seen_at, attempts)
			VALUES (?, ?, ?, ?, ?, ?, 1)
			ON CONFLICT(item_id) DO UPDATE SET
				caption = excluded.caption,
				last_seen_run = excluded.last_seen_run,
				last_seen_at = excluded.last_seen_at,
				attempts = unresolved_items.attempts + 1`,
			item.ItemID, item.Caption, runID, runID, stamp, stamp,
		); err != nil {
			return fmt.Errorf("upsert unresolved %s: %w", item.ItemID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM unresolved_items WHERE item_id NOT IN (SELECT item_id FROM pending_ids)"); err != nil {
		return fmt.Errorf("clear resolved items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unresolved: %w", err)
	}
	return nil
}

// Unresolved lists the needs-override queue, oldest first.
func (s *Store) Unresolved(ctx context.Context) ([]UnresolvedItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id, caption, first_seen_run, last_seen_run, first_seen_at, last_seen_at, attempts
		FROM unresolved_items ORDER BY first_seen_at, item_id`)
	if err != nil {
		return nil, fmt.Errorf("query unresolved: %w", err)
	}
	defer rows.Close()

	items := []UnresolvedItem{}
	for rows.Next() {
		var (
			item        UnresolvedItem
			first, last string
		)
		if err := rows.Scan(&item.ItemID, &item.Caption, &item.FirstSeenRun, &item.LastSeenRun, &first, &last, &item.Attempts); err != nil {
			return nil, fmt.Errorf("scan unresolved: %w", err)
		}
		item.FirstSeenAt = parseTime(first)
		item.LastSeenAt = parseTime(last)
		items = append(items, item)
	}
	return items, rows.Err()
}
