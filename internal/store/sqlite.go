package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/filing-intake/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS extracted_records (
	id            TEXT PRIMARY KEY,
	document_type TEXT NOT NULL,
	file_id       TEXT NOT NULL,
	file_name     TEXT NOT NULL,
	fingerprint   TEXT NOT NULL,
	payload       TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_extracted_records_fingerprint ON extracted_records(fingerprint);
CREATE INDEX IF NOT EXISTS idx_extracted_records_file_id ON extracted_records(file_id);
CREATE INDEX IF NOT EXISTS idx_extracted_records_document_type ON extracted_records(document_type);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRecord(ctx context.Context, rec model.ExtractedRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", eris.Wrap(err, "sqlite: create record")
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	payload, err := marshalPayload(rec)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal payload")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extracted_records (id, document_type, file_id, file_name, fingerprint, payload, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(rec.DocumentType), rec.FileID, rec.FileName, rec.Fingerprint, string(payload), now,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert record")
	}
	return id, nil
}

func (s *SQLiteStore) SearchByFingerprint(ctx context.Context, fingerprint string) ([]model.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE fingerprint = ? ORDER BY created_at DESC`,
		fingerprint,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search by fingerprint")
	}
	defer rows.Close()

	return scanSQLRecords(rows)
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM extracted_records WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete record %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: record not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*model.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE id = ?`,
		id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get record %s", id)
	}
	return rec, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.StoredRecord, error) {
	query := `SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE 1=1`
	var args []any

	if filter.DocumentType != "" {
		query += ` AND document_type = ?`
		args = append(args, string(filter.DocumentType))
	}
	if filter.FileID != "" {
		query += ` AND file_id = ?`
		args = append(args, filter.FileID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	return scanSQLRecords(rows)
}

func scanSQLRecords(rows *sql.Rows) ([]model.StoredRecord, error) {
	var records []model.StoredRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate records")
}
