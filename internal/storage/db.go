package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"reponex/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS catalog_files (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  supplier TEXT NOT NULL,
  source TEXT NOT NULL,
  loadedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_catalog_files_supplier ON catalog_files(supplier);

CREATE TABLE IF NOT EXISTS catalog_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fileId INTEGER NOT NULL,
  product TEXT NOT NULL,
  priceUsd REAL,
  supplier TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(fileId) REFERENCES catalog_files(id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_entries_file ON catalog_entries(fileId);
CREATE INDEX IF NOT EXISTS idx_catalog_entries_product ON catalog_entries(product);

CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  supplier TEXT NOT NULL DEFAULT '',
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS restock_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  salesSource TEXT NOT NULL,
  threshold REAL NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS restock_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  position INTEGER NOT NULL,
  product TEXT NOT NULL,
  quantity REAL NOT NULL,
  price REAL,
  supplier TEXT NOT NULL,
  FOREIGN KEY(runId) REFERENCES restock_runs(id)
);
CREATE INDEX IF NOT EXISTS idx_restock_items_run ON restock_items(runId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceCatalogFile stores the entries of one decoded price list, replacing
// any previous load of the same file name. Entry order is preserved: the
// index scan depends on load order for its tie-break.
func (d *DB) ReplaceCatalogFile(name, supplier, source string, entries []internal.CatalogEntry) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing sql.NullInt64
	err = tx.QueryRow(`SELECT id FROM catalog_files WHERE name = ?`, name).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if existing.Valid {
		if _, err := tx.Exec(`DELETE FROM catalog_entries WHERE fileId = ?`, existing.Int64); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`DELETE FROM catalog_files WHERE id = ?`, existing.Int64); err != nil {
			return 0, err
		}
	}

	result, err := tx.Exec(`INSERT INTO catalog_files (name, supplier, source) VALUES (?, ?, ?)`, name, supplier, source)
	if err != nil {
		return 0, err
	}
	fileID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO catalog_entries (fileId, product, priceUsd, supplier) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.Exec(fileID, entry.Product, entry.PriceUSD, entry.Supplier); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return fileID, nil
}

// ListCatalogEntries returns every stored entry in load order.
func (d *DB) ListCatalogEntries() ([]internal.CatalogEntry, error) {
	rows, err := d.conn.Query(`
SELECT e.product, e.priceUsd, e.supplier
FROM catalog_entries e
JOIN catalog_files f ON f.id = e.fileId
ORDER BY f.id ASC, e.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CatalogEntry
	for rows.Next() {
		var entry internal.CatalogEntry
		var price sql.NullFloat64
		if err := rows.Scan(&entry.Product, &price, &entry.Supplier); err != nil {
			return nil, err
		}
		if price.Valid {
			v := price.Float64
			entry.PriceUSD = &v
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (d *DB) ClearCatalog() error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM catalog_entries`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM catalog_files`); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) CountCatalogEntries() (int, error) {
	var count int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM catalog_entries`).Scan(&count)
	return count, err
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, supplier, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, supplier, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  supplier=excluded.supplier,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, supplier, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, supplier, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.Supplier, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustEmailByProviderMessageID(provider, messageID string) (internal.EmailRow, error) {
	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, fmt.Errorf("email not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, supplier, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.Supplier, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

// InsertRestockRun records one completed restock computation and its items.
func (d *DB) InsertRestockRun(traceID, salesSource string, threshold float64, counts map[string]int, timings map[string]float64, items []internal.RestockRecord) (int64, error) {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)

	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
INSERT INTO restock_runs (traceId, salesSource, threshold, countsJson, timingsJson)
VALUES (?, ?, ?, ?, ?)
`, traceID, salesSource, threshold, string(countsJSON), string(timingsJSON))
	if err != nil {
		return 0, err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO restock_items (runId, position, product, quantity, price, supplier) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.Exec(runID, i, item.Product, item.QuantityToReplace, item.Price, item.Supplier); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (d *DB) GetRestockItems(runID int64) ([]internal.RestockRecord, error) {
	rows, err := d.conn.Query(`
SELECT product, quantity, price, supplier
FROM restock_items WHERE runId = ? ORDER BY position ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RestockRecord
	for rows.Next() {
		var item internal.RestockRecord
		var price sql.NullFloat64
		if err := rows.Scan(&item.Product, &item.QuantityToReplace, &price, &item.Supplier); err != nil {
			return nil, err
		}
		if price.Valid {
			v := price.Float64
			item.Price = &v
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
