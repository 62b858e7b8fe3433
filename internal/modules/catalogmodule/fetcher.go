package catalogmodule

import (
	"context"
	"sort"
	"time"

	"github.com/moviechain/moviechain/internal/types"
	"github.com/moviechain/moviechain/internal/utils"
)

const popularitySort = "popularity.desc"

type batchResult struct {
	index  int
	movies []types.Movie
}

// fetchConcurrent pulls count movies from the provider using the fixed
// worker pool. Each batch pages through its own slice of the discovery
// listing in strictly increasing page order; results are merged,
// deduplicated by id, re-sorted by popularity and truncated. Batches
// that fail contribute whatever they gathered.
func (c *Cache) fetchConcurrent(ctx context.Context, count int) []types.Movie {
	batchCount := (count + c.cfg.BatchSize - 1) / c.cfg.BatchSize
	pagesPerBatch := (c.cfg.BatchSize + c.cfg.PageSize - 1) / c.cfg.PageSize

	pool := utils.NewWorkerPool(c.cfg.Workers)
	pool.Start()
	defer pool.Stop()

	results := make(chan batchResult, batchCount)
	for i := 0; i < batchCount; i++ {
		batchIndex := i
		batchSize := c.cfg.BatchSize
		if remaining := count - batchIndex*c.cfg.BatchSize; remaining < batchSize {
			batchSize = remaining
		}
		startPage := batchIndex*pagesPerBatch + 1

		submitted := pool.SubmitWait(ctx, func() {
			batchCtx, cancel := context.WithTimeout(ctx, c.cfg.BatchTimeout)
			defer cancel()

			movies := c.fetchBatch(batchCtx, startPage, batchSize)
			results <- batchResult{index: batchIndex, movies: movies}
		})
		if !submitted {
			// Pool shut down or context cancelled; account for the
			// batch so collection below does not block.
			results <- batchResult{index: batchIndex}
		}
	}

	seen := make(map[int]bool, count)
	var all []types.Movie
	for i := 0; i < batchCount; i++ {
		res := <-results
		for _, movie := range res.movies {
			if !seen[movie.ID] {
				seen[movie.ID] = true
				all = append(all, movie)
			}
		}
		if len(res.movies) > 0 {
			c.log.Debug("batch collected", "batch", res.index+1, "movies", len(res.movies), "total", len(all))
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Popularity > all[j].Popularity
	})
	if len(all) > count {
		all = all[:count]
	}
	return all
}

// fetchBatch pages through the discovery listing until the batch quota
// is met, the provider runs out of pages, or a page fails past the
// retry budget. Always returns what it managed to gather.
func (c *Cache) fetchBatch(ctx context.Context, startPage, batchSize int) []types.Movie {
	var movies []types.Movie
	totalPages := (batchSize + c.cfg.PageSize - 1) / c.cfg.PageSize

	for pageOffset := 0; pageOffset < totalPages && len(movies) < batchSize; pageOffset++ {
		page := startPage + pageOffset

		list := c.fetchPageWithRetry(ctx, page)
		if list == nil || len(list.Results) == 0 {
			c.log.Warn("giving up on page after retries", "page", page, "retries", c.cfg.MaxRetries)
			break
		}

		for _, movie := range list.Results {
			movies = append(movies, movie)
			if len(movies) >= batchSize {
				break
			}
		}

		if list.TotalPages > 0 && page >= list.TotalPages {
			break
		}
	}

	if len(movies) > batchSize {
		movies = movies[:batchSize]
	}
	return movies
}

// fetchPageWithRetry attempts one discovery page up to the configured
// retry bound with a fixed delay, stopping promptly on cancellation.
func (c *Cache) fetchPageWithRetry(ctx context.Context, page int) *types.MovieList {
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		list, err := c.client.DiscoverMovies(ctx, page, popularitySort)
		if err == nil && list != nil && len(list.Results) > 0 {
			return list
		}
		if err != nil {
			c.log.Warn("page fetch failed", "page", page, "attempt", attempt, "error", err)
		}

		if attempt < c.cfg.MaxRetries {
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return nil
			}
		}
	}
	return nil
}
