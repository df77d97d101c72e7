package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// DocumentType identifies the SEC form category assigned by classification.
type DocumentType string

const (
	Form10K DocumentType = "10-k"
	Form10Q DocumentType = "10-q"
	Form8K  DocumentType = "8-k"
)

// KnownDocumentTypes lists the categories the pipeline can extract.
func KnownDocumentTypes() []DocumentType {
	return []DocumentType{Form10K, Form10Q, Form8K}
}

// Valid reports whether t is one of the known form categories.
func (t DocumentType) Valid() bool {
	switch t {
	case Form10K, Form10Q, Form8K:
		return true
	}
	return false
}

// Form10KData holds the figures extracted from an annual report.
type Form10KData struct {
	TotalRevenue     string `json:"total_revenue,omitempty"`
	NetIncome        string `json:"net_income,omitempty"`
	TotalAssets      string `json:"total_assets,omitempty"`
	TotalLiabilities string `json:"total_liabilities,omitempty"`
}

// Form10QData holds the figures extracted from a quarterly report.
type Form10QData struct {
	QuarterlyRevenue   string `json:"quarterly_revenue,omitempty"`
	QuarterlyNetIncome string `json:"quarterly_net_income,omitempty"`
	TotalAssets        string `json:"total_assets,omitempty"`
	TotalLiabilities   string `json:"total_liabilities,omitempty"`
}

// Event8K is a single reported event in a current report.
type Event8K struct {
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// Form8KData holds the events extracted from a current report.
type Form8KData struct {
	Events []Event8K `json:"events,omitempty"`
}

// ExtractedRecord is the typed output of the extract stage. Exactly one
// payload slot is populated and it must match DocumentType; the fingerprint
// is the sha256 of the downloaded bytes and keys deduplication.
type ExtractedRecord struct {
	DocumentType DocumentType `json:"document_type"`
	Form10K      *Form10KData `json:"form_10k_data,omitempty"`
	Form10Q      *Form10QData `json:"form_10q_data,omitempty"`
	Form8K       *Form8KData  `json:"form_8k_data,omitempty"`
	FileID       string       `json:"file_id"`
	FileName     string       `json:"file_name"`
	Fingerprint  string       `json:"fingerprint"`
}

// Validate enforces the one-populated-slot invariant.
func (r ExtractedRecord) Validate() error {
	populated := 0
	if r.Form10K != nil {
		populated++
		if r.DocumentType != Form10K {
			return eris.Errorf("record: 10-K payload under document type %q", r.DocumentType)
		}
	}
	if r.Form10Q != nil {
		populated++
		if r.DocumentType != Form10Q {
			return eris.Errorf("record: 10-Q payload under document type %q", r.DocumentType)
		}
	}
	if r.Form8K != nil {
		populated++
		if r.DocumentType != Form8K {
			return eris.Errorf("record: 8-K payload under document type %q", r.DocumentType)
		}
	}
	if populated != 1 {
		return eris.Errorf("record: expected exactly one payload slot, got %d", populated)
	}
	return nil
}

// StoredRecord is an ExtractedRecord as persisted by the store, with its
// assigned identifier.
type StoredRecord struct {
	ID        string          `json:"id"`
	Record    ExtractedRecord `json:"record"`
	CreatedAt time.Time       `json:"created_at"`
}
