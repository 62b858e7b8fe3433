package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/moviechain/moviechain/internal/config"
	"github.com/moviechain/moviechain/internal/logger"
	"github.com/moviechain/moviechain/internal/types"
)

// Client handles all TMDb API interactions. It is stateless apart from
// the configured base address and the shared rate limiter, so a single
// instance is safe for concurrent use by the catalog fetch workers.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        hclog.Logger

	offline  bool
	fixtures *Fixtures
}

// Fixtures substitutes canned provider responses for all network calls
// when offline mode is enabled.
type Fixtures struct {
	MovieList *types.MovieList
	Details   map[int]*types.Movie
	Credits   map[int]*types.Credits
	Genres    []types.Genre
}

// NewClient creates a TMDb client from the provider configuration.
func NewClient(cfg config.TMDBConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		log:     logger.Named("tmdb"),
		offline: cfg.Offline,
	}
}

// SetFixtures installs fixture data and switches the client offline.
func (c *Client) SetFixtures(f *Fixtures) {
	c.fixtures = f
	c.offline = true
}

// get makes a rate-limited request to the TMDb API and decodes the JSON
// response into result.
func (c *Client) get(ctx context.Context, reqURL string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	c.log.Debug("making TMDb API request", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDb API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}

	return nil
}

// DiscoverMovies fetches one page of the discovery listing sorted by the
// given key (e.g. "popularity.desc").
func (c *Client) DiscoverMovies(ctx context.Context, page int, sortBy string) (*types.MovieList, error) {
	if c.offline {
		if c.fixtures != nil && c.fixtures.MovieList != nil {
			return c.fixtures.MovieList, nil
		}
		return &types.MovieList{Page: page}, nil
	}

	reqURL := fmt.Sprintf("%s/discover/movie?include_adult=false&include_video=false&language=%s&page=%d&sort_by=%s&api_key=%s",
		c.baseURL, c.language, page, sortBy, c.apiKey)

	var list types.MovieList
	if err := c.get(ctx, reqURL, &list); err != nil {
		return nil, fmt.Errorf("failed to discover movies (page %d): %w", page, err)
	}
	return &list, nil
}

// SearchMovies searches the provider catalog by title text.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) ([]types.Movie, error) {
	if c.offline {
		if c.fixtures != nil && c.fixtures.MovieList != nil {
			return c.fixtures.MovieList.Results, nil
		}
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/search/movie?query=%s&include_adult=false&language=%s&page=%d&api_key=%s",
		c.baseURL, url.QueryEscape(query), c.language, page, c.apiKey)

	var list types.MovieList
	if err := c.get(ctx, reqURL, &list); err != nil {
		return nil, fmt.Errorf("failed to search movies for %q: %w", query, err)
	}
	return list.Results, nil
}

// GetMovieDetails fetches a single movie by id. A nil movie with nil
// error means the provider has no such record in offline mode.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int) (*types.Movie, error) {
	if c.offline {
		if c.fixtures != nil {
			return c.fixtures.Details[movieID], nil
		}
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/movie/%d?language=%s&api_key=%s", c.baseURL, movieID, c.language, c.apiKey)

	var movie types.Movie
	if err := c.get(ctx, reqURL, &movie); err != nil {
		return nil, fmt.Errorf("failed to fetch movie details for ID %d: %w", movieID, err)
	}
	return &movie, nil
}

// GetMovieCredits fetches the cast and crew records for a movie.
func (c *Client) GetMovieCredits(ctx context.Context, movieID int) (*types.Credits, error) {
	if c.offline {
		if c.fixtures != nil {
			return c.fixtures.Credits[movieID], nil
		}
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/movie/%d/credits?language=%s&api_key=%s", c.baseURL, movieID, c.language, c.apiKey)

	var credits types.Credits
	if err := c.get(ctx, reqURL, &credits); err != nil {
		return nil, fmt.Errorf("failed to fetch credits for ID %d: %w", movieID, err)
	}
	return &credits, nil
}

// GetMovieGenres fetches the provider's genre taxonomy.
func (c *Client) GetMovieGenres(ctx context.Context) ([]types.Genre, error) {
	if c.offline {
		if c.fixtures != nil {
			return c.fixtures.Genres, nil
		}
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/genre/movie/list?language=%s&api_key=%s", c.baseURL, c.language, c.apiKey)

	var list types.GenreList
	if err := c.get(ctx, reqURL, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch genre list: %w", err)
	}
	return list.Genres, nil
}
