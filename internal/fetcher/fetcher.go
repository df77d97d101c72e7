// Package fetcher streams document bytes from the URLs the file store hands
// out. HTTP(S) is the common case; some stores still issue ftp:// links.
package fetcher

import (
	"context"
	"io"
	"net/url"

	"github.com/rotisserie/eris"
)

// Downloader streams a remote file to a local path.
type Downloader interface {
	// Download returns a reader over the remote bytes. The caller closes it.
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)
	// DownloadToFile writes the remote bytes to path. Returns bytes written.
	DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error)
}

// Dispatcher routes downloads to a transport by URL scheme.
type Dispatcher struct {
	http Downloader
	ftp  Downloader
}

// NewDispatcher creates a Dispatcher over the given transports.
func NewDispatcher(httpFetcher, ftpFetcher Downloader) *Dispatcher {
	return &Dispatcher{http: httpFetcher, ftp: ftpFetcher}
}

func (d *Dispatcher) forURL(rawURL string) (Downloader, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse url %s", rawURL)
	}
	switch u.Scheme {
	case "http", "https":
		return d.http, nil
	case "ftp":
		return d.ftp, nil
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}
}

func (d *Dispatcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	dl, err := d.forURL(rawURL)
	if err != nil {
		return nil, err
	}
	return dl.Download(ctx, rawURL)
}

func (d *Dispatcher) DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error) {
	dl, err := d.forURL(rawURL)
	if err != nil {
		return 0, err
	}
	return dl.DownloadToFile(ctx, rawURL, path)
}
