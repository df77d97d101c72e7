package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/filing-intake/internal/model"
)

// runConvert turns the downloaded document into markdown text.
func (p *Pipeline) runConvert(ctx context.Context, event model.FileDownloadedEvent) (model.FileConvertedEvent, error) {
	p.emitter.Info("Parsing document %s", event.Filename)

	out, err := retryStage(ctx, p, "convert", func(ctx context.Context) (model.FileConvertedEvent, error) {
		text, err := p.converter.Convert(ctx, event.FilePath)
		if err != nil {
			return model.FileConvertedEvent{}, eris.Wrapf(err, "convert %s", event.Filename)
		}
		return model.NewFileConvertedEvent(event, text), nil
	})
	if err != nil {
		p.emitter.Error("Error parsing document %s: %v", event.Filename, err)
		return model.FileConvertedEvent{}, err
	}

	p.emitter.Info("Successfully parsed document %s", event.Filename)
	return out, nil
}
