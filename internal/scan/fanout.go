package scan

import (
	"context"
	"sync"

	"github.com/dexhound/dexhound/internal/domain"
)

// Fetcher is the transport contract the fanout runs against. Search never
// fails; a query that yields nothing returns an empty slice.
type Fetcher interface {
	Search(ctx context.Context, query string) []domain.RawListing
}

// Fanout issues every query concurrently and concatenates the results.
// No extra throttling is applied beyond the fetcher's own limits: losing a
// few queries is tolerated. When ctx expires, whatever partial results have
// arrived are returned rather than blocking on stragglers.
func Fanout(ctx context.Context, f Fetcher, queries []string) []domain.RawListing {
	results := make(chan []domain.RawListing, len(queries))
	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			results <- f.Search(ctx, q)
		}(q)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var all []domain.RawListing
	pending := len(queries)
	for pending > 0 {
		select {
		case batch := <-results:
			all = append(all, batch...)
			pending--
		case <-ctx.Done():
			// Deadline hit: drain what already arrived and go with it.
			for {
				select {
				case batch := <-results:
					all = append(all, batch...)
					pending--
				default:
					return all
				}
			}
		}
	}
	<-done
	return all
}
