// Package convert turns a downloaded document into markdown text. The heavy
// lifting happens in the Mistral OCR API; a local pdftotext fallback covers
// air-gapped setups.
package convert

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/filing-intake/internal/config"
)

// Converter extracts markdown text from a local document file.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// NewConverter creates a Converter based on config.
func NewConverter(cfg config.ConvertConfig) (Converter, error) {
	switch cfg.Provider {
	case "mistral", "":
		if cfg.APIKey == "" {
			return nil, eris.New("convert: mistral provider requires api_key")
		}
		return NewMistralConverter(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "local":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("convert: unknown provider %q", cfg.Provider)
	}
}
