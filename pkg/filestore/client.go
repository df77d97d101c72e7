// Package filestore provides a client for the managed file storage service
// that holds uploaded filings awaiting processing.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the file storage operations used by the pipeline.
type Client interface {
	// GetFile fetches metadata for a stored file.
	GetFile(ctx context.Context, fileID string) (*FileMetadata, error)
	// GetDownloadURL returns a URL from which the file content can be fetched.
	GetDownloadURL(ctx context.Context, fileID string) (string, error)
}

// FileMetadata describes a stored file.
type FileMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type downloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Option configures the filestore client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new file storage client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) GetFile(ctx context.Context, fileID string) (*FileMetadata, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/api/v1/files/%s", c.baseURL, fileID))
	if err != nil {
		return nil, eris.Wrapf(err, "filestore: get file %s", fileID)
	}

	var meta FileMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, eris.Wrap(err, "filestore: unmarshal file metadata")
	}
	return &meta, nil
}

func (c *httpClient) GetDownloadURL(ctx context.Context, fileID string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/api/v1/files/%s/content", c.baseURL, fileID))
	if err != nil {
		return "", eris.Wrapf(err, "filestore: get download url %s", fileID)
	}

	var resp downloadURLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", eris.Wrap(err, "filestore: unmarshal download url")
	}
	if resp.URL == "" {
		return "", eris.New("filestore: empty download url")
	}
	return resp.URL, nil
}

func (c *httpClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, eris.New("not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
