package research

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/richinex/discoverylens/model"
)

// MultiSearch issues one search per query concurrently and returns the
// results in input order. The first failure cancels the remaining calls and
// no partial results are returned.
func MultiSearch(ctx context.Context, s Searcher, queries []string, maxResults int) ([]model.SearchResult, error) {
	results := make([]model.SearchResult, len(queries))

	g, gCtx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			r, err := s.Search(gCtx, q, maxResults)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Outcome is the result of one query in CollectSearches: either Result or Err is set.
type Outcome struct {
	Query  string
	Result model.SearchResult
	Err    error
}

// CollectSearches issues one search per query concurrently and reports every
// outcome in input order. A failed query does not cancel its siblings.
func CollectSearches(ctx context.Context, s Searcher, queries []string, maxResults int) []Outcome {
	outcomes := make([]Outcome, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := s.Search(ctx, q, maxResults)
			outcomes[i] = Outcome{Query: q, Result: r, Err: err}
		}()
	}
	wg.Wait()

	return outcomes
}

// Succeeded returns the successful results of outcomes, preserving order,
// and the first error seen (nil when every query succeeded).
func Succeeded(outcomes []Outcome) ([]model.SearchResult, error) {
	var results []model.SearchResult
	var firstErr error
	for _, o := range outcomes {
		if o.Err != nil {
			if firstErr == nil {
				firstErr = o.Err
			}
			continue
		}
		results = append(results, o.Result)
	}
	return results, firstErr
}
