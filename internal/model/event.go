package model

// Stage events form the pipeline's linear contract: each variant carries
// exactly what the next stage needs, and each constructor takes the
// predecessor event, so a later event cannot exist without a valid earlier
// one. The orchestrator dispatches on the concrete type.

// StageEvent is the sum type dispatched by the pipeline loop.
type StageEvent interface {
	stageEvent()
}

// FileEvent starts a run: a file identifier and nothing else.
type FileEvent struct {
	FileID string
}

// FileDownloadedEvent follows a successful download.
type FileDownloadedEvent struct {
	FileID   string
	FilePath string
	Filename string
}

// FileConvertedEvent follows a successful text conversion.
type FileConvertedEvent struct {
	FileID   string
	FilePath string
	Filename string
	Text     string
}

// FileClassifiedEvent follows a successful classification.
type FileClassifiedEvent struct {
	FileID       string
	FilePath     string
	Filename     string
	Text         string
	DocumentType DocumentType
	Confidence   float64
}

// RecordExtractedEvent follows a successful extraction and carries the fully
// populated record headed for storage.
type RecordExtractedEvent struct {
	Record ExtractedRecord
}

func (FileEvent) stageEvent()            {}
func (FileDownloadedEvent) stageEvent()  {}
func (FileConvertedEvent) stageEvent()   {}
func (FileClassifiedEvent) stageEvent()  {}
func (RecordExtractedEvent) stageEvent() {}

// NewFileDownloadedEvent builds the download result from the start event.
func NewFileDownloadedEvent(prev FileEvent, filePath, filename string) FileDownloadedEvent {
	return FileDownloadedEvent{
		FileID:   prev.FileID,
		FilePath: filePath,
		Filename: filename,
	}
}

// NewFileConvertedEvent builds the conversion result from the download event.
func NewFileConvertedEvent(prev FileDownloadedEvent, text string) FileConvertedEvent {
	return FileConvertedEvent{
		FileID:   prev.FileID,
		FilePath: prev.FilePath,
		Filename: prev.Filename,
		Text:     text,
	}
}

// NewFileClassifiedEvent builds the classification result from the
// conversion event.
func NewFileClassifiedEvent(prev FileConvertedEvent, docType DocumentType, confidence float64) FileClassifiedEvent {
	return FileClassifiedEvent{
		FileID:       prev.FileID,
		FilePath:     prev.FilePath,
		Filename:     prev.Filename,
		Text:         prev.Text,
		DocumentType: docType,
		Confidence:   confidence,
	}
}

// NewRecordExtractedEvent wraps the extracted record produced from the
// classification event.
func NewRecordExtractedEvent(_ FileClassifiedEvent, rec ExtractedRecord) RecordExtractedEvent {
	return RecordExtractedEvent{Record: rec}
}

// Classification is the result returned by the classification collaborator.
// Confidence is 0.0 when the service omits it, never absent downstream.
type Classification struct {
	Type       DocumentType `json:"type"`
	Confidence float64      `json:"confidence"`
}
