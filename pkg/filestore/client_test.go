package filestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/files/file-123", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"file-123","name":"acme_10k.pdf","size_bytes":2048}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	meta, err := c.GetFile(context.Background(), "file-123")
	require.NoError(t, err)
	assert.Equal(t, "file-123", meta.ID)
	assert.Equal(t, "acme_10k.pdf", meta.Name)
	assert.Equal(t, int64(2048), meta.SizeBytes)
}

func TestGetFileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.GetFile(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetDownloadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/files/file-123/content", r.URL.Path)
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/file-123?sig=abc"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	url, err := c.GetDownloadURL(context.Background(), "file-123")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/file-123?sig=abc", url)
}

func TestGetDownloadURLEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.GetDownloadURL(context.Background(), "file-123")
	assert.Error(t, err)
}
