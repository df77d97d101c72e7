package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/filing-intake/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRecord(fileID, fingerprint string) model.ExtractedRecord {
	return model.ExtractedRecord{
		DocumentType: model.Form10K,
		Form10K: &model.Form10KData{
			TotalRevenue:     "100M",
			NetIncome:        "10M",
			TotalAssets:      "500M",
			TotalLiabilities: "300M",
		},
		FileID:      fileID,
		FileName:    "annual.pdf",
		Fingerprint: fingerprint,
	}
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := s.CreateRecord(ctx, testRecord("f1", "h1"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, model.Form10K, got.Record.DocumentType)
	require.NotNil(t, got.Record.Form10K)
	assert.Equal(t, "100M", got.Record.Form10K.TotalRevenue)
	assert.Nil(t, got.Record.Form10Q)
	assert.Nil(t, got.Record.Form8K)
	assert.Equal(t, "h1", got.Record.Fingerprint)
}

func TestSQLiteStore_CreateRejectsInvalidRecord(t *testing.T) {
	s := newTestSQLiteStore(t)

	rec := model.ExtractedRecord{DocumentType: model.Form10K, FileID: "f1"}
	_, err := s.CreateRecord(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload slot")
}

func TestSQLiteStore_SearchByFingerprint(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id1, err := s.CreateRecord(ctx, testRecord("f1", "h1"))
	require.NoError(t, err)
	_, err = s.CreateRecord(ctx, testRecord("f2", "h2"))
	require.NoError(t, err)

	matches, err := s.SearchByFingerprint(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, id1, matches[0].ID)

	none, err := s.SearchByFingerprint(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_DeleteRecord(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := s.CreateRecord(ctx, testRecord("f1", "h1"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(ctx, id))

	_, err = s.GetRecord(ctx, id)
	require.Error(t, err)

	err = s.DeleteRecord(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListRecords_Filters(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.CreateRecord(ctx, testRecord("f1", "h1"))
	require.NoError(t, err)

	quarterly := model.ExtractedRecord{
		DocumentType: model.Form10Q,
		Form10Q:      &model.Form10QData{QuarterlyRevenue: "25M"},
		FileID:       "f2",
		FileName:     "quarterly.pdf",
		Fingerprint:  "h2",
	}
	_, err = s.CreateRecord(ctx, quarterly)
	require.NoError(t, err)

	all, err := s.ListRecords(ctx, RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tenQs, err := s.ListRecords(ctx, RecordFilter{DocumentType: model.Form10Q})
	require.NoError(t, err)
	require.Len(t, tenQs, 1)
	assert.Equal(t, "f2", tenQs[0].Record.FileID)

	byFile, err := s.ListRecords(ctx, RecordFilter{FileID: "f1"})
	require.NoError(t, err)
	require.Len(t, byFile, 1)
	assert.Equal(t, model.Form10K, byFile[0].Record.DocumentType)
}
