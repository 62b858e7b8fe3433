package indexmodule

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/moviechain/moviechain/internal/logger"
	"github.com/moviechain/moviechain/internal/tmdb"
	"github.com/moviechain/moviechain/internal/types"
)

// Engine builds and serves the in-memory movie indexes: title-prefix
// search, id lookup, and person (actor/director) associations, with
// lazily populated detail and credit caches that fall back to the
// remote provider on miss.
//
// All methods are safe for concurrent use; the bulk-load path and
// interactive lookups share these structures. Mutation is
// insert-if-absent only, so readers never observe a removed entry
// outside of an explicit Clear.
type Engine struct {
	mu sync.RWMutex

	// title prefix (lowercase) -> movie id set
	titlePrefixIndex map[string]map[int]struct{}

	// movie id -> movie, bulk loaded
	idIndex map[int]*types.Movie

	// person id -> movie id set
	actorIndex    map[int]map[int]struct{}
	directorIndex map[int]map[int]struct{}

	// lowercase person name -> person id, first insert wins. A later
	// same-named different person does not overwrite; accepted
	// approximation.
	actorNameIndex    map[string]int
	directorNameIndex map[string]int

	// lazily resolved caches
	movieDetailsCache map[int]*types.Movie
	movieCreditsCache map[int]*types.Credits

	client *tmdb.Client
	log    hclog.Logger
}

// NewEngine creates an empty index engine around a provider client.
func NewEngine(client *tmdb.Client) *Engine {
	e := &Engine{
		client: client,
		log:    logger.Named("index"),
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.titlePrefixIndex = make(map[string]map[int]struct{})
	e.idIndex = make(map[int]*types.Movie)
	e.actorIndex = make(map[int]map[int]struct{})
	e.directorIndex = make(map[int]map[int]struct{})
	e.actorNameIndex = make(map[string]int)
	e.directorNameIndex = make(map[string]int)
	e.movieDetailsCache = make(map[int]*types.Movie)
	e.movieCreditsCache = make(map[int]*types.Credits)
}

// InitializeIndexes replaces the id index and rebuilds the title prefix
// index from a fresh catalog. Person indexes and credit caches are kept;
// they only ever grow. Safe to call repeatedly.
func (e *Engine) InitializeIndexes(movies []types.Movie) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Info("initializing movie indexes", "movies", len(movies))

	e.idIndex = make(map[int]*types.Movie, len(movies))
	e.titlePrefixIndex = make(map[string]map[int]struct{})

	for i := range movies {
		movie := &movies[i]
		e.idIndex[movie.ID] = movie
		e.indexMovieTitleLocked(movie)
	}
}

// indexMovieTitleLocked adds every lowercase prefix of the title to the
// prefix index. Caller holds the write lock.
func (e *Engine) indexMovieTitleLocked(movie *types.Movie) {
	title := strings.ToLower(movie.Title)
	for i := 1; i <= len(title); i++ {
		prefix := title[:i]
		ids, ok := e.titlePrefixIndex[prefix]
		if !ok {
			ids = make(map[int]struct{})
			e.titlePrefixIndex[prefix] = ids
		}
		ids[movie.ID] = struct{}{}
	}
}

// IndexMovieCredits caches a movie's credits and records its actor and
// director associations.
func (e *Engine) IndexMovieCredits(movieID int, credits *types.Credits) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.indexMovieCreditsLocked(movieID, credits)
}

func (e *Engine) indexMovieCreditsLocked(movieID int, credits *types.Credits) {
	e.movieCreditsCache[movieID] = credits

	for _, cast := range credits.Cast {
		name := strings.ToLower(cast.Name)
		if _, exists := e.actorNameIndex[name]; !exists {
			e.actorNameIndex[name] = cast.ID
		}
		ids, ok := e.actorIndex[cast.ID]
		if !ok {
			ids = make(map[int]struct{})
			e.actorIndex[cast.ID] = ids
		}
		ids[movieID] = struct{}{}
	}

	for _, crew := range credits.Crew {
		if crew.Job != "Director" {
			continue
		}
		name := strings.ToLower(crew.Name)
		if _, exists := e.directorNameIndex[name]; !exists {
			e.directorNameIndex[name] = crew.ID
		}
		ids, ok := e.directorIndex[crew.ID]
		if !ok {
			ids = make(map[int]struct{})
			e.directorIndex[crew.ID] = ids
		}
		ids[movieID] = struct{}{}
	}
}

// SearchByPrefix returns movies whose title starts with the given text,
// case-insensitive, sorted by popularity descending. Empty input yields
// an empty result, not the whole catalog.
func (e *Engine) SearchByPrefix(prefix string) []types.Movie {
	if prefix == "" {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.titlePrefixIndex[strings.ToLower(prefix)]
	results := make([]types.Movie, 0, len(ids))
	for id := range ids {
		if movie, ok := e.idIndex[id]; ok {
			results = append(results, *movie)
		} else if movie, ok := e.movieDetailsCache[id]; ok {
			results = append(results, *movie)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Popularity > results[j].Popularity
	})
	return results
}

// GetMovieByID resolves a movie through the details cache, then the
// bulk id index, then the remote provider. A movie fetched over the
// network is indexed (title prefixes + id) and its credits are eagerly
// resolved and indexed too. Returns nil when the movie cannot be
// resolved anywhere.
func (e *Engine) GetMovieByID(ctx context.Context, movieID int) *types.Movie {
	e.mu.RLock()
	if movie, ok := e.movieDetailsCache[movieID]; ok {
		e.mu.RUnlock()
		return movie
	}
	if movie, ok := e.idIndex[movieID]; ok {
		e.mu.RUnlock()
		return movie
	}
	e.mu.RUnlock()

	movie, err := e.client.GetMovieDetails(ctx, movieID)
	if err != nil {
		e.log.Warn("movie details fetch failed", "id", movieID, "error", err)
		return nil
	}
	if movie == nil {
		return nil
	}

	credits, err := e.client.GetMovieCredits(ctx, movieID)
	if err != nil {
		e.log.Warn("credits fetch failed", "id", movieID, "error", err)
	}

	e.mu.Lock()
	if cached, ok := e.movieDetailsCache[movieID]; ok {
		// Lost the race to another caller; keep the first result.
		e.mu.Unlock()
		return cached
	}
	e.movieDetailsCache[movieID] = movie
	e.idIndex[movieID] = movie
	e.indexMovieTitleLocked(movie)
	if credits != nil {
		e.indexMovieCreditsLocked(movieID, credits)
	}
	e.mu.Unlock()

	return movie
}

// GetMovieCredits resolves credits through the cache, falling back to
// the remote provider and indexing the result. Returns nil when the
// credits cannot be resolved; callers treat that as "no connection".
func (e *Engine) GetMovieCredits(ctx context.Context, movieID int) *types.Credits {
	e.mu.RLock()
	if credits, ok := e.movieCreditsCache[movieID]; ok {
		e.mu.RUnlock()
		return credits
	}
	e.mu.RUnlock()

	credits, err := e.client.GetMovieCredits(ctx, movieID)
	if err != nil {
		e.log.Warn("credits fetch failed", "id", movieID, "error", err)
		return nil
	}
	if credits == nil {
		return nil
	}

	e.mu.Lock()
	if cached, ok := e.movieCreditsCache[movieID]; ok {
		e.mu.Unlock()
		return cached
	}
	e.indexMovieCreditsLocked(movieID, credits)
	e.mu.Unlock()

	return credits
}

// GetMoviesByActor returns every indexed movie the given person acted in.
func (e *Engine) GetMoviesByActor(ctx context.Context, actorID int) []types.Movie {
	return e.moviesForPerson(ctx, e.snapshotIDs(e.actorIndex, actorID))
}

// GetMoviesByDirector returns every indexed movie the given person directed.
func (e *Engine) GetMoviesByDirector(ctx context.Context, directorID int) []types.Movie {
	return e.moviesForPerson(ctx, e.snapshotIDs(e.directorIndex, directorID))
}

func (e *Engine) snapshotIDs(index map[int]map[int]struct{}, personID int) []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]int, 0, len(index[personID]))
	for id := range index[personID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (e *Engine) moviesForPerson(ctx context.Context, ids []int) []types.Movie {
	movies := make([]types.Movie, 0, len(ids))
	for _, id := range ids {
		if movie := e.GetMovieByID(ctx, id); movie != nil {
			movies = append(movies, *movie)
		}
	}
	return movies
}

// GetActorIDByName looks up a person id by actor name, case-insensitive.
func (e *Engine) GetActorIDByName(name string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.actorNameIndex[strings.ToLower(name)]
	return id, ok
}

// GetDirectorIDByName looks up a person id by director name, case-insensitive.
func (e *Engine) GetDirectorIDByName(name string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.directorNameIndex[strings.ToLower(name)]
	return id, ok
}

// SetMovieCredits seeds credits directly, bypassing the provider. Used
// by fixtures and tests.
func (e *Engine) SetMovieCredits(movieID int, credits *types.Credits) {
	e.IndexMovieCredits(movieID, credits)
}

// ClearIndexes drops all indexes and caches. Environment reset, not
// part of normal gameplay flow.
func (e *Engine) ClearIndexes() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}
