package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/filing-intake/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func recordColumns() []string {
	return []string{"id", "document_type", "file_id", "file_name", "fingerprint", "payload", "created_at"}
}

func TestPostgresStore_CreateRecord(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO extracted_records`).
		WithArgs(pgxmock.AnyArg(), "10-k", "f1", "annual.pdf", "h1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.CreateRecord(context.Background(), testRecord("f1", "h1"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRecord_InvalidRejectedBeforeQuery(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rec := model.ExtractedRecord{DocumentType: model.Form8K, FileID: "f1"}
	_, err := s.CreateRecord(context.Background(), rec)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SearchByFingerprint(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	payload, err := json.Marshal(&model.Form10KData{TotalRevenue: "100M"})
	require.NoError(t, err)

	rows := pgxmock.NewRows(recordColumns()).
		AddRow("rec-1", "10-k", "f1", "annual.pdf", "h1", payload, time.Now().UTC()).
		AddRow("rec-2", "10-k", "f2", "annual-copy.pdf", "h1", payload, time.Now().UTC())

	mock.ExpectQuery(`SELECT .+ FROM extracted_records WHERE fingerprint = \$1`).
		WithArgs("h1").
		WillReturnRows(rows)

	matches, err := s.SearchByFingerprint(context.Background(), "h1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "rec-1", matches[0].ID)
	require.NotNil(t, matches[1].Record.Form10K)
	assert.Equal(t, "100M", matches[1].Record.Form10K.TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteRecord_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM extracted_records WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteRecord(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRecord_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM extracted_records WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRecord(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get record")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRecords_WithFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	payload, err := json.Marshal(&model.Form8KData{Events: []model.Event8K{{Category: "Item 2.02"}}})
	require.NoError(t, err)

	rows := pgxmock.NewRows(recordColumns()).
		AddRow("rec-1", "8-k", "f1", "current.pdf", "h9", payload, time.Now().UTC())

	mock.ExpectQuery(`SELECT .+ FROM extracted_records WHERE 1=1 AND document_type = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("8-k", 100).
		WillReturnRows(rows)

	records, err := s.ListRecords(context.Background(), RecordFilter{DocumentType: model.Form8K})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Record.Form8K)
	assert.Equal(t, "Item 2.02", records[0].Record.Form8K.Events[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}
