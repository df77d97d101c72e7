package store

import (
	"context"

	"github.com/sells-group/filing-intake/internal/model"
)

// RecordFilter specifies criteria for listing stored records.
type RecordFilter struct {
	DocumentType model.DocumentType `json:"document_type,omitempty"`
	FileID       string             `json:"file_id,omitempty"`
	Limit        int                `json:"limit,omitempty"`
	Offset       int                `json:"offset,omitempty"`
}

// Store is the keyed record store the pipeline persists into. It must be
// safe for concurrent use by independent runs.
type Store interface {
	// SearchByFingerprint returns every stored record whose content
	// fingerprint matches exactly. Used by the record stage's dedup gate.
	SearchByFingerprint(ctx context.Context, fingerprint string) ([]model.StoredRecord, error)

	// CreateRecord persists a record and returns its assigned identifier.
	CreateRecord(ctx context.Context, rec model.ExtractedRecord) (string, error)

	// DeleteRecord removes a record by id.
	DeleteRecord(ctx context.Context, id string) error

	// GetRecord fetches a record by id.
	GetRecord(ctx context.Context, id string) (*model.StoredRecord, error)

	// ListRecords returns records matching the filter, newest first.
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.StoredRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
