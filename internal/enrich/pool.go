package enrich

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/enrich-cli/internal/classify"
	"github.com/sells-group/enrich-cli/internal/model"
)

// DefaultWorkers bounds concurrent enrichment units when no explicit pool
// size is configured.
const DefaultWorkers = 4

// Runner fans a batch of source rows over a worker pool. Rows sharing a
// dedup key are enriched once; every input row appears in the output.
type Runner struct {
	orch    *Orchestrator
	workers int
}

// NewRunner creates a Runner with the given pool size. workers <= 0 uses
// DefaultWorkers.
func NewRunner(orch *Orchestrator, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{orch: orch, workers: workers}
}

// unit is one distinct business to enrich, with the first row that named it
// supplying the location hints.
type unit struct {
	name model.ClassifiedName
	row  model.SourceRow
}

// Run classifies every row, enriches each distinct business-labeled dedup
// key once, and projects results back onto all rows in input order. A
// panic inside one unit marks that unit's rows status=error and never
// aborts the batch.
func (r *Runner) Run(ctx context.Context, rows []model.SourceRow) []model.OutputRow {
	out := make([]model.OutputRow, len(rows))
	units := make(map[string]unit)

	for i, row := range rows {
		name := classify.Normalize(row.DisplayName)
		out[i] = model.OutputRow{Source: row, Classified: name}

		if name.Label != model.LabelBusiness || name.DedupKey == "" {
			continue
		}
		if _, seen := units[name.DedupKey]; !seen {
			units[name.DedupKey] = unit{name: name, row: row}
		}
	}

	zap.L().Info("enrichment batch",
		zap.Int("rows", len(rows)),
		zap.Int("units", len(units)),
		zap.Int("workers", r.workers))

	results := make(map[string]*model.EnrichedBusiness, len(units))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for key, u := range units {
		g.Go(func() error {
			b := r.enrichUnit(gCtx, u)
			mu.Lock()
			results[key] = b
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range out {
		if out[i].Classified.Label != model.LabelBusiness {
			continue
		}
		out[i].Enriched = results[out[i].Classified.DedupKey]
	}
	return out
}

// enrichUnit wraps one orchestrator pass in a panic boundary. A bug in any
// stage degrades to an error-status record for that unit only.
func (r *Runner) enrichUnit(ctx context.Context, u unit) (b *model.EnrichedBusiness) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("enrichment panic",
				zap.String("dedup_key", u.name.DedupKey),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()))
			b = &model.EnrichedBusiness{
				DedupKey:   u.name.DedupKey,
				SearchName: u.name.SearchName,
				Overall:    model.ConfidenceFailed,
				Status:     model.StatusError,
				Notes:      "internal_error",
			}
		}
	}()

	b, err := r.orch.Enrich(ctx, u.name, u.row)
	if err != nil {
		zap.L().Error("enrichment failed",
			zap.String("dedup_key", u.name.DedupKey),
			zap.Error(err))
		b = &model.EnrichedBusiness{
			DedupKey:   u.name.DedupKey,
			SearchName: u.name.SearchName,
			Overall:    model.ConfidenceFailed,
			Status:     model.StatusError,
			Notes:      "enrichment_error",
		}
	}
	return b
}
