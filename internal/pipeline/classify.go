package pipeline

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/filing-intake/internal/model"
)

// runClassify assigns a document type to the converted text. The classifier
// consumes a file path, so the markdown is staged in a scratch file that is
// removed before the stage returns, success or not.
func (p *Pipeline) runClassify(ctx context.Context, event model.FileConvertedEvent) (model.FileClassifiedEvent, error) {
	p.emitter.Info("Classifying document %s", event.Filename)

	out, err := retryStage(ctx, p, "classify", func(ctx context.Context) (model.FileClassifiedEvent, error) {
		tmp, err := os.CreateTemp("", "classify-*.md")
		if err != nil {
			return model.FileClassifiedEvent{}, eris.Wrap(err, "create scratch file")
		}
		tmpPath := tmp.Name()
		defer func() {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				zap.L().Warn("pipeline: failed to remove scratch file",
					zap.String("path", tmpPath),
					zap.Error(rmErr),
				)
			}
		}()

		if _, err := tmp.WriteString(event.Text); err != nil {
			_ = tmp.Close()
			return model.FileClassifiedEvent{}, eris.Wrap(err, "write scratch file")
		}
		if err := tmp.Close(); err != nil {
			return model.FileClassifiedEvent{}, eris.Wrap(err, "close scratch file")
		}

		cls, err := p.classifier.Classify(ctx, p.rules, tmpPath)
		if err != nil {
			return model.FileClassifiedEvent{}, eris.Wrapf(err, "classify %s", event.Filename)
		}

		return model.NewFileClassifiedEvent(event, cls.Type, cls.Confidence), nil
	})
	if err != nil {
		p.emitter.Error("Error classifying document %s: %v", event.Filename, err)
		return model.FileClassifiedEvent{}, err
	}

	p.emitter.Info("Document classified as %s (confidence: %.2f%%)", out.DocumentType, out.Confidence*100)
	return out, nil
}
