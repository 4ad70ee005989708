package postgres

import (
	"context"
	"fmt"

	"jewelerp/internal/core"
)

// Append writes all rows of one posting inside a single database
// transaction. The posting is validated first, so an unbalanced or
// malformed event never reaches the table.
func (s *Store) Append(ctx context.Context, posting core.Posting) error {
	posting.Normalize()
	if err := posting.Validate(); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, line := range posting.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO general_ledger_entries (entry_date, account_code, description, debit, credit, related_id, related_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, posting.Date, line.AccountCode, line.Description, line.Debit, line.Credit, line.RelatedID, line.RelatedType)
		if err != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ledger entries: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]core.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, entry_date::text, account_code, description, debit, credit, related_id, related_type
		FROM general_ledger_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		var e core.LedgerEntry
		if err := rows.Scan(&e.ID, &e.EntryDate, &e.AccountCode, &e.Description,
			&e.Debit, &e.Credit, &e.RelatedID, &e.RelatedType); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
