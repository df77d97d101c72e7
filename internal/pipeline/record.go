package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/filing-intake/internal/model"
)

// runRecord persists the extracted record, first deleting any existing
// records with the same content fingerprint so a re-uploaded file replaces
// its older results instead of accumulating duplicates.
func (p *Pipeline) runRecord(ctx context.Context, event model.RecordExtractedEvent) (string, error) {
	rec := event.Record
	p.emitter.Info("Recording extracted data for %s", rec.FileName)

	id, err := retryStage(ctx, p, "record", func(ctx context.Context) (string, error) {
		existing, err := p.store.SearchByFingerprint(ctx, rec.Fingerprint)
		if err != nil {
			return "", eris.Wrap(err, "search by fingerprint")
		}

		if len(existing) > 0 {
			g, gctx := errgroup.WithContext(ctx)
			for _, old := range existing {
				g.Go(func() error {
					return p.store.DeleteRecord(gctx, old.ID)
				})
			}
			if err := g.Wait(); err != nil {
				return "", eris.Wrap(err, "delete duplicate records")
			}
			zap.L().Info("pipeline: replaced duplicate records",
				zap.String("fingerprint", rec.Fingerprint),
				zap.Int("deleted", len(existing)),
			)
			p.emitter.Warning("Replaced %d existing record(s) for the same file content", len(existing))
		}

		id, err := p.store.CreateRecord(ctx, rec)
		if err != nil {
			return "", eris.Wrap(err, "create record")
		}
		return id, nil
	})
	if err != nil {
		p.emitter.Error("Error recording data for %s: %v", rec.FileName, err)
		return "", err
	}

	p.emitter.Info("Recorded extracted data for %s", rec.FileName)
	return id, nil
}
