package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/filing-intake/internal/model"
)

// runDownload resolves the file's metadata and download URL, then fetches the
// content to a scratch file under the OS temp dir.
func (p *Pipeline) runDownload(ctx context.Context, event model.FileEvent) (model.FileDownloadedEvent, error) {
	p.emitter.Info("Downloading file %s", event.FileID)

	out, err := retryStage(ctx, p, "download", func(ctx context.Context) (model.FileDownloadedEvent, error) {
		meta, err := p.files.GetFile(ctx, event.FileID)
		if err != nil {
			return model.FileDownloadedEvent{}, eris.Wrapf(err, "get file metadata %s", event.FileID)
		}

		url, err := p.files.GetDownloadURL(ctx, event.FileID)
		if err != nil {
			return model.FileDownloadedEvent{}, eris.Wrapf(err, "get download url %s", event.FileID)
		}

		path := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%s", uuid.NewString()[:8], safeFilename(meta.Name)))
		n, err := p.downloader.DownloadToFile(ctx, url, path)
		if err != nil {
			return model.FileDownloadedEvent{}, eris.Wrapf(err, "download %s", event.FileID)
		}

		zap.L().Debug("pipeline: downloaded file",
			zap.String("file_id", event.FileID),
			zap.String("path", path),
			zap.Int64("bytes", n),
		)

		return model.NewFileDownloadedEvent(event, path, meta.Name), nil
	})
	if err != nil {
		p.emitter.Error("Error downloading file %s: %v", event.FileID, err)
		return model.FileDownloadedEvent{}, err
	}

	p.emitter.Info("Downloaded file %s", out.Filename)
	return out, nil
}
