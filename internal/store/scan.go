package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/filing-intake/internal/model"
)

// ErrRecordNotFound is returned by GetRecord when no row matches.
var ErrRecordNotFound = eris.New("record not found")

func marshalPayload(rec model.ExtractedRecord) ([]byte, error) {
	switch rec.DocumentType {
	case model.Form10K:
		return json.Marshal(rec.Form10K)
	case model.Form10Q:
		return json.Marshal(rec.Form10Q)
	case model.Form8K:
		return json.Marshal(rec.Form8K)
	}
	return nil, eris.Errorf("store: no payload for document type %q", rec.DocumentType)
}

func unmarshalPayload(rec *model.ExtractedRecord, payload []byte) error {
	switch rec.DocumentType {
	case model.Form10K:
		rec.Form10K = &model.Form10KData{}
		return json.Unmarshal(payload, rec.Form10K)
	case model.Form10Q:
		rec.Form10Q = &model.Form10QData{}
		return json.Unmarshal(payload, rec.Form10Q)
	case model.Form8K:
		rec.Form8K = &model.Form8KData{}
		return json.Unmarshal(payload, rec.Form8K)
	}
	return eris.Errorf("store: no payload slot for document type %q", rec.DocumentType)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*model.StoredRecord, error) {
	var sr model.StoredRecord
	var docType string
	var payload []byte

	err := row.Scan(&sr.ID, &docType, &sr.Record.FileID, &sr.Record.FileName, &sr.Record.Fingerprint, &payload, &sr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan record")
	}

	sr.Record.DocumentType = model.DocumentType(docType)
	if err := unmarshalPayload(&sr.Record, payload); err != nil {
		return nil, eris.Wrap(err, "unmarshal payload")
	}
	return &sr, nil
}
