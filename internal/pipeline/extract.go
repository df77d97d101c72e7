package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/filing-intake/internal/docai"
	"github.com/sells-group/filing-intake/internal/model"
	"github.com/sells-group/filing-intake/internal/resilience"
)

// runExtract pulls the form-specific payload out of the document text and
// builds the record headed for storage. The fingerprint is the sha256 of the
// downloaded bytes, not the converted text, so re-uploads of the same file
// dedupe even if conversion output drifts.
func (p *Pipeline) runExtract(ctx context.Context, event model.FileClassifiedEvent) (model.RecordExtractedEvent, error) {
	p.emitter.Info("Extracting data from %s filing: %s", event.DocumentType, event.Filename)

	out, err := retryStage(ctx, p, "extract", func(ctx context.Context) (model.RecordExtractedEvent, error) {
		content, err := os.ReadFile(event.FilePath)
		if err != nil {
			return model.RecordExtractedEvent{}, eris.Wrapf(err, "read downloaded file %s", event.FilePath)
		}
		sum := sha256.Sum256(content)
		fingerprint := hex.EncodeToString(sum[:])

		agent, err := docai.AgentFor(event.DocumentType)
		if err != nil {
			return model.RecordExtractedEvent{}, &resilience.UnknownDocumentTypeError{Type: string(event.DocumentType)}
		}

		payload, err := p.extractor.Extract(ctx, agent, docai.SourceText{
			Text:     event.Text,
			Filename: event.Filename,
		})
		if err != nil {
			return model.RecordExtractedEvent{}, eris.Wrapf(err, "extract %s", event.Filename)
		}

		rec := model.ExtractedRecord{
			DocumentType: event.DocumentType,
			FileID:       event.FileID,
			FileName:     event.Filename,
			Fingerprint:  fingerprint,
		}

		switch event.DocumentType {
		case model.Form10K:
			var data model.Form10KData
			if err := json.Unmarshal(payload, &data); err != nil {
				return model.RecordExtractedEvent{}, eris.Wrap(err, "decode 10-K payload")
			}
			rec.Form10K = &data
		case model.Form10Q:
			var data model.Form10QData
			if err := json.Unmarshal(payload, &data); err != nil {
				return model.RecordExtractedEvent{}, eris.Wrap(err, "decode 10-Q payload")
			}
			rec.Form10Q = &data
		case model.Form8K:
			var data model.Form8KData
			if err := json.Unmarshal(payload, &data); err != nil {
				return model.RecordExtractedEvent{}, eris.Wrap(err, "decode 8-K payload")
			}
			rec.Form8K = &data
		}

		if err := rec.Validate(); err != nil {
			return model.RecordExtractedEvent{}, resilience.NewValidationError(err)
		}

		return model.NewRecordExtractedEvent(event, rec), nil
	})
	if err != nil {
		p.emitter.Error("Error extracting data from %s: %v", event.Filename, err)
		return model.RecordExtractedEvent{}, err
	}

	p.emitter.Info("Successfully extracted data from %s", event.Filename)
	return out, nil
}
