package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/metrics"
	"github.com/dexhound/dexhound/internal/scan"
)

func result(runID string) domain.RankedResult {
	return domain.RankedResult{
		RunID:     runID,
		Entries:   []domain.MarketEntry{{Symbol: "TKN"}},
		Latency:   120 * time.Millisecond,
		Timestamp: time.Now(),
	}
}

func TestGetRunsPipelineOnEmptyCache(t *testing.T) {
	var calls int32
	f := NewFreshness(func(ctx context.Context) (domain.RankedResult, error) {
		atomic.AddInt32(&calls, 1)
		return result("run-1"), nil
	}, time.Minute, metrics.New())

	res, src := f.Get(context.Background(), false)
	assert.Equal(t, domain.SourceFresh, src)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Second call inside the TTL is served from cache with zero latency.
	res, src = f.Get(context.Background(), false)
	assert.Equal(t, domain.SourceCached, src)
	assert.Zero(t, res.Latency)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetForceBypassesFreshEntry(t *testing.T) {
	var calls int32
	f := NewFreshness(func(ctx context.Context) (domain.RankedResult, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return result("run-1"), nil
		}
		return result("run-2"), nil
	}, time.Minute, metrics.New())

	f.Get(context.Background(), false)
	res, src := f.Get(context.Background(), true)
	assert.Equal(t, domain.SourceFresh, src)
	assert.Equal(t, "run-2", res.RunID)
}

func TestGetExpiredEntryRefreshes(t *testing.T) {
	var calls int32
	f := NewFreshness(func(ctx context.Context) (domain.RankedResult, error) {
		atomic.AddInt32(&calls, 1)
		return result("run"), nil
	}, 10*time.Millisecond, metrics.New())

	f.Get(context.Background(), false)
	time.Sleep(20 * time.Millisecond)
	_, src := f.Get(context.Background(), false)
	assert.Equal(t, domain.SourceFresh, src)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetCoalescesConcurrentMisses(t *testing.T) {
	const n = 16
	var calls int32
	release := make(chan struct{})

	f := NewFreshness(func(ctx context.Context) (domain.RankedResult, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return result("shared"), nil
	}, time.Minute, metrics.New())

	var wg sync.WaitGroup
	results := make([]domain.RankedResult, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = f.Get(context.Background(), false)
		}(i)
	}

	// Let every caller queue behind the single flight, then release it.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "exactly one upstream scan for %d callers", n)
	for _, r := range results {
		assert.Equal(t, "shared", r.RunID)
	}
}

func TestGetNoDataDegradesToEmptyCachedResult(t *testing.T) {
	f := NewFreshness(func(ctx context.Context) (domain.RankedResult, error) {
		return domain.RankedResult{}, scan.ErrNoData
	}, time.Minute, metrics.New())

	res, src := f.Get(context.Background(), true)
	assert.Equal(t, domain.SourceCached, src)
	assert.True(t, res.Empty())
	assert.Zero(t, res.Latency)
}

func TestGetNoDataKeepsPreviousEntryForLaterReads(t *testing.T) {
	var calls int32
	f := NewFreshness(func(ctx context.Context) (domain.RankedResult, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return result("good"), nil
		}
		return domain.RankedResult{}, scan.ErrNoData
	}, time.Minute, metrics.New())

	f.Get(context.Background(), false)
	res, src := f.Get(context.Background(), true) // forced refresh fails
	assert.Equal(t, domain.SourceCached, src)
	assert.True(t, res.Empty())

	// The previous good entry is still within TTL and still served.
	res, src = f.Get(context.Background(), false)
	assert.Equal(t, domain.SourceCached, src)
	assert.Equal(t, "good", res.RunID)
}

func TestSeedServesSnapshotBeforeFirstScan(t *testing.T) {
	var calls int32
	f := NewFreshness(func(ctx context.Context) (domain.RankedResult, error) {
		atomic.AddInt32(&calls, 1)
		return result("fresh"), nil
	}, time.Minute, metrics.New())

	f.Seed(result("seeded"), time.Minute)

	res, src := f.Get(context.Background(), false)
	require.Equal(t, domain.SourceCached, src)
	assert.Equal(t, "seeded", res.RunID)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
