// Package store provides the SQLite-backed transaction ledger and model
// bank persistence.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spendcast/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// defaultBankName keys the single model bank a forecasting service owns.
const defaultBankName = "main"

// Store wraps the spendcast database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTransactions upserts transactions into the ledger.
func (s *Store) SaveTransactions(txns []model.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range txns {
		_, err = tx.Exec(`INSERT OR REPLACE INTO transactions
			(id, date, amount, category, description, imported_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Date.UTC().Format(time.RFC3339), t.Amount, t.Category, t.Description, now,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadTransactions reads the full ledger in date order.
func (s *Store) LoadTransactions() ([]model.Transaction, error) {
	rows, err := s.db.Query(`SELECT id, date, amount, category, description
		FROM transactions ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr string
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &dateStr, &t.Amount, &t.Category, &desc); err != nil {
			return nil, err
		}
		if desc.Valid {
			t.Description = desc.String
		}
		t.Date, _ = time.Parse(time.RFC3339, dateStr)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// CountTransactions returns the ledger size.
func (s *Store) CountTransactions() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&n)
	return n, err
}

// SaveBank serializes the model bank and replaces the stored one.
func (s *Store) SaveBank(bank model.Bank) error {
	blob, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("encoding model bank: %w", err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO model_banks (name, blob, saved_at)
		VALUES (?, ?, ?)`,
		defaultBankName, string(blob), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// LoadBank restores the stored model bank. A missing or corrupt blob is
// reported as not found, so the caller retrains instead of failing.
func (s *Store) LoadBank() (model.Bank, bool, error) {
	var blob string
	err := s.db.QueryRow("SELECT blob FROM model_banks WHERE name = ?", defaultBankName).Scan(&blob)
	if err == sql.ErrNoRows {
		return model.Bank{}, false, nil
	}
	if err != nil {
		return model.Bank{}, false, err
	}
	var bank model.Bank
	if err := json.Unmarshal([]byte(blob), &bank); err != nil {
		return model.Bank{}, false, nil
	}
	return bank, true, nil
}
