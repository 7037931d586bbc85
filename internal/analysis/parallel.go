package analysis

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

// AnalyzeAll analyzes every book concurrently. Each analysis reads only the
// shared immutable level vocabulary, so the result is keyed by book ID and
// independent of scheduling.
func (a *Analyzer) AnalyzeAll(ctx context.Context, books map[string]wordset.Set) (map[string]BookAnalysis, error) {
	results := make(map[string]BookAnalysis, len(books))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for bookID, vocab := range books {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := a.AnalyzeBook(bookID, vocab)
			mu.Lock()
			results[bookID] = result
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
