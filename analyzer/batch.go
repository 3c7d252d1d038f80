package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/seo-optimizer/advisor/models"
)

// BatchItem is the outcome of one id in a batch.
type BatchItem struct {
	ID     int64
	Result *models.AnalysisResult
	Err    error
}

// AnalyzeBatch analyzes ids with at most limit analyses in flight. Keywords
// come from each item's meta or the default keyword. A failing item does not
// stop the others; cancelling ctx marks the remaining items with ctx.Err().
func (a *Analyzer) AnalyzeBatch(ctx context.Context, ids []int64, depth Depth, limit int) []BatchItem {
	if limit < 1 {
		limit = 1
	}
	items := make([]BatchItem, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		items[i].ID = id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = a.Analyze(gctx, id, models.Keywords{}, depth)
			return nil
		})
	}
	_ = g.Wait()
	return items
}
