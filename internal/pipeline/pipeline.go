// Package pipeline orchestrates the processing of a single filing: download,
// convert to markdown, classify the form type, extract structured data, and
// record the result with content-based deduplication. Stages communicate
// through typed events and each stage call is wrapped in the same
// constant-delay retry policy.
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/filing-intake/internal/convert"
	"github.com/sells-group/filing-intake/internal/docai"
	"github.com/sells-group/filing-intake/internal/model"
	"github.com/sells-group/filing-intake/internal/progress"
	"github.com/sells-group/filing-intake/internal/resilience"
	"github.com/sells-group/filing-intake/internal/store"
	"github.com/sells-group/filing-intake/pkg/filestore"
)

// Downloader fetches a remote document to a local file.
type Downloader interface {
	DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error)
}

// Pipeline runs one filing end-to-end. All collaborators are injected; the
// zero value is not usable.
type Pipeline struct {
	files      filestore.Client
	downloader Downloader
	converter  convert.Converter
	classifier docai.Classifier
	extractor  docai.Extractor
	rules      docai.RuleSet
	store      store.Store
	emitter    *progress.Emitter
	retry      resilience.RetryConfig
}

// New creates a Pipeline with all dependencies.
func New(
	files filestore.Client,
	downloader Downloader,
	converter convert.Converter,
	classifier docai.Classifier,
	extractor docai.Extractor,
	rules docai.RuleSet,
	st store.Store,
	emitter *progress.Emitter,
	retry resilience.RetryConfig,
) *Pipeline {
	return &Pipeline{
		files:      files,
		downloader: downloader,
		converter:  converter,
		classifier: classifier,
		extractor:  extractor,
		rules:      rules,
		store:      st,
		emitter:    emitter,
		retry:      retry,
	}
}

// Run processes the file with the given id and returns the stored record id.
// The run is strictly linear; the first stage error (after retries) fails the
// whole run. The downloaded temp file is removed on every terminal path.
func (p *Pipeline) Run(ctx context.Context, fileID string) (recordID string, err error) {
	log := zap.L().With(zap.String("file_id", fileID))
	log.Info("pipeline: starting run")

	run := &model.Run{
		FileID:    fileID,
		Status:    model.RunStatusStarted,
		StartedAt: time.Now(),
	}

	defer func() {
		run.EndedAt = time.Now()
		if err != nil {
			run.Status = model.RunStatusFailed
			run.Error = err.Error()
			log.Error("pipeline: run failed", zap.Error(err))
		} else {
			run.Status = model.RunStatusCompleted
			run.RecordID = recordID
			log.Info("pipeline: run completed",
				zap.String("record_id", recordID),
				zap.Duration("elapsed", run.EndedAt.Sub(run.StartedAt)),
			)
		}
		p.cleanupTempFile(run.FilePath)
	}()

	start := model.FileEvent{FileID: fileID}

	run.Status = model.RunStatusDownloading
	downloaded, err := p.runDownload(ctx, start)
	if err != nil {
		return "", err
	}
	run.FilePath = downloaded.FilePath

	run.Status = model.RunStatusConverting
	converted, err := p.runConvert(ctx, downloaded)
	if err != nil {
		return "", err
	}

	run.Status = model.RunStatusClassifying
	classified, err := p.runClassify(ctx, converted)
	if err != nil {
		return "", err
	}

	run.Status = model.RunStatusExtracting
	extracted, err := p.runExtract(ctx, classified)
	if err != nil {
		return "", err
	}

	run.Status = model.RunStatusRecording
	recordID, err = p.runRecord(ctx, extracted)
	if err != nil {
		return "", err
	}

	return recordID, nil
}

// cleanupTempFile removes the downloaded scratch file. Failures are logged,
// never propagated: a leftover temp file must not change the run's outcome.
func (p *Pipeline) cleanupTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("pipeline: failed to remove temp file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// retryStage wraps one collaborator call in the run's retry policy, with
// per-attempt logging under the stage name.
func retryStage[T any](ctx context.Context, p *Pipeline, stage string, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg := p.retry
	cfg.OnRetry = resilience.RetryLogger(stage)
	out, err := resilience.DoVal(ctx, cfg, fn)
	if err != nil {
		var zero T
		return zero, eris.Wrapf(err, "pipeline: %s stage", stage)
	}
	return out, nil
}
