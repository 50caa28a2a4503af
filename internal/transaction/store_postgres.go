package transaction

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresStore persists one row per transaction keyed by identifier, with
// the full aggregate (documents, payments, escrow, audit log) as a JSONB
// column. The aggregate is always loaded and saved whole, matching the
// orchestrator's exclusive-ownership model.
//
// Schema:
//
//	CREATE TABLE transactions (
//	    id         TEXT PRIMARY KEY,
//	    phase      TEXT NOT NULL,
//	    record     JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, tx *Transaction) error {
	record, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction %s: %w", tx.ID, err)
	}
	query := `
		INSERT INTO transactions (id, phase, record, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET phase = EXCLUDED.phase,
		    record = EXCLUDED.record,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, tx.ID, tx.Phase.String(), record, tx.CreatedAt, tx.UpdatedAt); err != nil {
		return fmt.Errorf("save transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Transaction, error) {
	var record []byte
	err := s.db.QueryRowContext(ctx, `SELECT record FROM transactions WHERE id = $1`, id).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find transaction %s: %w", id, err)
	}
	return unmarshalTransaction(record)
}

func (s *PostgresStore) List(ctx context.Context) ([]*Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM transactions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, err := unmarshalTransaction(record)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func unmarshalTransaction(record []byte) (*Transaction, error) {
	var tx Transaction
	if err := json.Unmarshal(record, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}
	return &tx, nil
}
