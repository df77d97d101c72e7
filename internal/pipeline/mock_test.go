package pipeline

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/filing-intake/internal/docai"
	"github.com/sells-group/filing-intake/internal/model"
	"github.com/sells-group/filing-intake/internal/store"
	"github.com/sells-group/filing-intake/pkg/filestore"
)

// --- filestore.Client ---

type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) GetFile(ctx context.Context, fileID string) (*filestore.FileMetadata, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filestore.FileMetadata), args.Error(1)
}

func (m *mockFileStore) GetDownloadURL(ctx context.Context, fileID string) (string, error) {
	args := m.Called(ctx, fileID)
	return args.String(0), args.Error(1)
}

// --- Downloader ---

type mockDownloader struct {
	mock.Mock
}

func (m *mockDownloader) DownloadToFile(ctx context.Context, rawURL, path string) (int64, error) {
	args := m.Called(ctx, rawURL, path)
	return args.Get(0).(int64), args.Error(1)
}

// --- convert.Converter ---

type mockConverter struct {
	mock.Mock
}

func (m *mockConverter) Convert(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// --- docai.Classifier ---

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, rules docai.RuleSet, docPath string) (model.Classification, error) {
	args := m.Called(ctx, rules, docPath)
	return args.Get(0).(model.Classification), args.Error(1)
}

// --- docai.Extractor ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, agent docai.AgentConfig, src docai.SourceText) (json.RawMessage, error) {
	args := m.Called(ctx, agent, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// --- store.Store ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SearchByFingerprint(ctx context.Context, fingerprint string) ([]model.StoredRecord, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredRecord), args.Error(1)
}

func (m *mockStore) CreateRecord(ctx context.Context, rec model.ExtractedRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *mockStore) DeleteRecord(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) GetRecord(ctx context.Context, id string) (*model.StoredRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredRecord), args.Error(1)
}

func (m *mockStore) ListRecords(ctx context.Context, filter store.RecordFilter) ([]model.StoredRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredRecord), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
