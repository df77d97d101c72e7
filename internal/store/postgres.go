package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/filing-intake/internal/db"
	"github.com/sells-group/filing-intake/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot record operations.
var preparedStatements = map[string]string{
	"insert_record":         `INSERT INTO extracted_records (id, document_type, file_id, file_name, fingerprint, payload, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"search_by_fingerprint": `SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE fingerprint = $1 ORDER BY created_at DESC`,
	"delete_record":         `DELETE FROM extracted_records WHERE id = $1`,
	"get_record":            `SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS extracted_records (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	document_type TEXT NOT NULL,
	file_id       TEXT NOT NULL,
	file_name     TEXT NOT NULL,
	fingerprint   TEXT NOT NULL,
	payload       JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_extracted_records_fingerprint ON extracted_records(fingerprint);
CREATE INDEX IF NOT EXISTS idx_extracted_records_file_id ON extracted_records(file_id);
CREATE INDEX IF NOT EXISTS idx_extracted_records_document_type ON extracted_records(document_type);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRecord(ctx context.Context, rec model.ExtractedRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", eris.Wrap(err, "postgres: create record")
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	payload, err := marshalPayload(rec)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal payload")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO extracted_records (id, document_type, file_id, file_name, fingerprint, payload, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, string(rec.DocumentType), rec.FileID, rec.FileName, rec.Fingerprint, payload, now,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert record")
	}
	return id, nil
}

func (s *PostgresStore) SearchByFingerprint(ctx context.Context, fingerprint string) ([]model.StoredRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE fingerprint = $1 ORDER BY created_at DESC`,
		fingerprint,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search by fingerprint")
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresStore) DeleteRecord(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM extracted_records WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete record %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: record not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetRecord(ctx context.Context, id string) (*model.StoredRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE id = $1`,
		id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get record %s", id)
	}
	return rec, nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.StoredRecord, error) {
	query := `SELECT id, document_type, file_id, file_name, fingerprint, payload, created_at FROM extracted_records WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.DocumentType != "" {
		query += ` AND document_type = ` + arg(string(filter.DocumentType))
	}
	if filter.FileID != "" {
		query += ` AND file_id = ` + arg(filter.FileID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	return scanRecords(rows)
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func scanRecords(rows pgx.Rows) ([]model.StoredRecord, error) {
	var records []model.StoredRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "iterate records")
}
