package catalogmodule

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/moviechain/moviechain/internal/config"
	"github.com/moviechain/moviechain/internal/events"
	"github.com/moviechain/moviechain/internal/logger"
	"github.com/moviechain/moviechain/internal/tmdb"
	"github.com/moviechain/moviechain/internal/types"
)

const (
	snapshotFile   = "popular_movies.json"
	lastUpdateFile = "last_update.txt"
)

// Cache obtains the N most popular movies, either from a local snapshot
// when it is fresh and large enough, or by refreshing the snapshot with
// a concurrent batched fetch from the remote provider.
type Cache struct {
	client *tmdb.Client
	cfg    config.CatalogConfig
	log    hclog.Logger
}

// NewCache creates a catalog cache around a provider client.
func NewCache(client *tmdb.Client, cfg config.CatalogConfig) *Cache {
	return &Cache{
		client: client,
		cfg:    cfg,
		log:    logger.Named("catalog"),
	}
}

// GetPopularMovies returns up to count movies sorted by popularity
// descending. A fresh snapshot holding at least count entries short
// circuits the network; anything else triggers a refresh. Refresh
// failures degrade to whatever partial data was gathered, never to an
// error.
func (c *Cache) GetPopularMovies(ctx context.Context, count int) ([]types.Movie, error) {
	if err := os.MkdirAll(c.cfg.CacheDir, 0755); err != nil {
		c.log.Error("failed to create cache directory", "dir", c.cfg.CacheDir, "error", err)
	}

	if !c.snapshotStale() {
		movies, err := c.readSnapshot()
		if err != nil {
			c.log.Warn("snapshot unreadable, refreshing", "error", err)
			return c.refresh(ctx, count)
		}
		if len(movies) >= count {
			events.Publish(events.EventCatalogSnapshotLoaded, map[string]interface{}{
				"count": count,
			})
			return movies[:count], nil
		}
		// Snapshot is fresh but too small for the request.
		c.log.Info("snapshot smaller than requested, refreshing",
			"have", len(movies), "want", count)
	}

	return c.refresh(ctx, count)
}

// snapshotStale reports whether the snapshot is missing or older than
// the configured TTL. Any read or parse problem counts as stale.
func (c *Cache) snapshotStale() bool {
	data, err := os.ReadFile(filepath.Join(c.cfg.CacheDir, lastUpdateFile))
	if err != nil {
		return true
	}

	lastUpdate, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		c.log.Warn("unparseable snapshot timestamp, treating as stale", "error", err)
		return true
	}

	return time.Since(lastUpdate) > c.cfg.CacheTTL
}

func (c *Cache) readSnapshot() ([]types.Movie, error) {
	data, err := os.ReadFile(filepath.Join(c.cfg.CacheDir, snapshotFile))
	if err != nil {
		return nil, err
	}

	var movies []types.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// refresh fetches the catalog from the provider and persists the result.
// Partial results are persisted and returned as-is.
func (c *Cache) refresh(ctx context.Context, count int) ([]types.Movie, error) {
	c.log.Info("refreshing movie catalog", "count", count)
	events.Publish(events.EventCatalogRefreshStarted, map[string]interface{}{
		"count": count,
	})

	movies := c.fetchConcurrent(ctx, count)

	if len(movies) > 0 {
		c.persist(movies)
	}

	events.Publish(events.EventCatalogRefreshCompleted, map[string]interface{}{
		"requested": count,
		"fetched":   len(movies),
	})
	c.log.Info("catalog refresh complete", "requested", count, "fetched", len(movies))
	return movies, nil
}

// persist writes the snapshot content first and the freshness timestamp
// second. A crash between the two writes leaves a stale-looking cache
// that triggers a harmless re-fetch on the next start.
func (c *Cache) persist(movies []types.Movie) {
	data, err := json.Marshal(movies)
	if err != nil {
		c.log.Error("failed to encode snapshot", "error", err)
		return
	}

	if err := os.WriteFile(filepath.Join(c.cfg.CacheDir, snapshotFile), data, 0644); err != nil {
		c.log.Error("failed to write snapshot", "error", err)
		return
	}

	stamp := time.Now().Format(time.RFC3339)
	if err := os.WriteFile(filepath.Join(c.cfg.CacheDir, lastUpdateFile), []byte(stamp), 0644); err != nil {
		c.log.Error("failed to write snapshot timestamp", "error", err)
	}
}
