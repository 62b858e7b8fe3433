package gamemodule

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/moviechain/moviechain/internal/logger"
	"github.com/moviechain/moviechain/internal/tmdb"
)

// GenreService manages the id<->name mapping of the provider's genre
// taxonomy, falling back to the well-known default set when the
// taxonomy cannot be fetched.
type GenreService struct {
	mu           sync.RWMutex
	genreMap     map[int]string
	genreNameMap map[string]int
	client       *tmdb.Client
	log          hclog.Logger
}

// defaultGenres is the standard TMDb movie genre taxonomy, used when
// the remote fetch fails so win conditions can still be generated.
var defaultGenres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// NewGenreService creates an empty genre service; call Initialize
// before serving lookups.
func NewGenreService(client *tmdb.Client) *GenreService {
	return &GenreService{
		genreMap:     make(map[int]string),
		genreNameMap: make(map[string]int),
		client:       client,
		log:          logger.Named("genres"),
	}
}

// Initialize loads the genre taxonomy from the provider, or the default
// mapping when the fetch fails or returns nothing.
func (g *GenreService) Initialize(ctx context.Context) {
	genres, err := g.client.GetMovieGenres(ctx)
	if err != nil {
		g.log.Warn("genre taxonomy fetch failed, using default mapping", "error", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(genres) == 0 {
		for id, name := range defaultGenres {
			g.genreMap[id] = name
			g.genreNameMap[name] = id
		}
		return
	}

	for _, genre := range genres {
		g.genreMap[genre.ID] = genre.Name
		g.genreNameMap[genre.Name] = genre.ID
	}
}

// GenreName returns the name for a genre id.
func (g *GenreService) GenreName(genreID int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if name, ok := g.genreMap[genreID]; ok {
		return name
	}
	return "Unknown Genre"
}

// GenreID returns the id for a genre name.
func (g *GenreService) GenreID(genreName string) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.genreNameMap[genreName]
	return id, ok
}

// HasGenre reports whether a movie's genre id list contains the named
// genre.
func (g *GenreService) HasGenre(genreIDs []int, genreName string) bool {
	target, ok := g.GenreID(genreName)
	if !ok {
		return false
	}
	for _, id := range genreIDs {
		if id == target {
			return true
		}
	}
	return false
}

// AllGenreNames returns every known genre name, sorted.
func (g *GenreService) AllGenreNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.genreMap))
	for _, name := range g.genreMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllGenres returns a copy of the id-to-name mapping.
func (g *GenreService) AllGenres() map[int]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[int]string, len(g.genreMap))
	for id, name := range g.genreMap {
		out[id] = name
	}
	return out
}
