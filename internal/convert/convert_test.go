package convert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/filing-intake/internal/config"
)

func TestNewConverter(t *testing.T) {
	t.Run("mistral requires api key", func(t *testing.T) {
		_, err := NewConverter(config.ConvertConfig{Provider: "mistral"})
		assert.Error(t, err)
	})

	t.Run("mistral with api key", func(t *testing.T) {
		conv, err := NewConverter(config.ConvertConfig{Provider: "mistral", APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &MistralConverter{}, conv)
	})

	t.Run("empty provider defaults to mistral", func(t *testing.T) {
		conv, err := NewConverter(config.ConvertConfig{APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &MistralConverter{}, conv)
	})

	t.Run("local", func(t *testing.T) {
		conv, err := NewConverter(config.ConvertConfig{Provider: "local"})
		require.NoError(t, err)
		assert.IsType(t, &PdfToText{}, conv)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewConverter(config.ConvertConfig{Provider: "carrier-pigeon"})
		assert.Error(t, err)
	})
}

func TestMistralConverterConvert(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "filing.pdf")
	require.NoError(t, os.WriteFile(docPath, []byte("%PDF-1.4 fake"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req mistralOCRRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pixtral-large-latest", req.Model)
		assert.Equal(t, "document_url", req.Document.Type)
		assert.True(t, strings.HasPrefix(req.Document.DocumentURL, "data:application/pdf;base64,"))

		resp := mistralOCRResponse{Pages: []mistralOCRPage{
			{Index: 0, Markdown: "# Page one"},
			{Index: 1, Markdown: "Page two body"},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	conv := NewMistralConverter("test-key", "", srv.URL)
	text, err := conv.Convert(context.Background(), docPath)
	require.NoError(t, err)
	assert.Equal(t, "# Page one\n\nPage two body", text)
}

func TestMistralConverterConvertAPIError(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "filing.pdf")
	require.NoError(t, os.WriteFile(docPath, []byte("%PDF-1.4"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid document", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	conv := NewMistralConverter("test-key", "", srv.URL)
	_, err := conv.Convert(context.Background(), docPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestMistralConverterConvertMissingFile(t *testing.T) {
	conv := NewMistralConverter("test-key", "", "http://unused.invalid")
	_, err := conv.Convert(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestPdfToTextDefaultsBinary(t *testing.T) {
	p := NewPdfToText("")
	assert.Equal(t, "pdftotext", p.binPath)
}

func TestPdfToTextMissingBinary(t *testing.T) {
	p := NewPdfToText(filepath.Join(t.TempDir(), "no-such-binary"))
	_, err := p.Convert(context.Background(), "whatever.pdf")
	assert.Error(t, err)
}
