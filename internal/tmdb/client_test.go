package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviechain/moviechain/internal/config"
	"github.com/moviechain/moviechain/internal/types"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.TMDBConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Language:       "en-US",
		RequestTimeout: 5 * time.Second,
	})
}

func TestDiscoverMovies(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "popularity.desc", query.Get("sort_by"))
		assert.Equal(t, "test-key", query.Get("api_key"))

		json.NewEncoder(w).Encode(types.MovieList{
			Page:         2,
			Results:      []types.Movie{{ID: 1, Title: "Heat", Popularity: 80}},
			TotalPages:   10,
			TotalResults: 200,
		})
	})

	list, err := client.DiscoverMovies(context.Background(), 2, "popularity.desc")
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "Heat", list.Results[0].Title)
	assert.Equal(t, 10, list.TotalPages)
}

func TestSearchMoviesEscapesQuery(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "mad max: fury road", r.URL.Query().Get("query"))

		json.NewEncoder(w).Encode(types.MovieList{
			Results: []types.Movie{{ID: 76341, Title: "Mad Max: Fury Road"}},
		})
	})

	movies, err := client.SearchMovies(context.Background(), "mad max: fury road", 1)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 76341, movies[0].ID)
}

func TestGetMovieDetailsAndCredits(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/603":
			json.NewEncoder(w).Encode(types.Movie{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31"})
		case "/movie/603/credits":
			json.NewEncoder(w).Encode(types.Credits{
				ID:   603,
				Cast: []types.CastMember{{ID: 6384, Name: "Keanu Reeves", Character: "Neo"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	movie, err := client.GetMovieDetails(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, "1999", movie.Year())

	credits, err := client.GetMovieCredits(context.Background(), 603)
	require.NoError(t, err)
	require.Len(t, credits.Cast, 1)
	assert.Equal(t, "Keanu Reeves", credits.Cast[0].Name)
}

func TestGetMovieGenres(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		json.NewEncoder(w).Encode(types.GenreList{
			Genres: []types.Genre{{ID: 28, Name: "Action"}},
		})
	})

	genres, err := client.GetMovieGenres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestErrorOnNonOKStatus(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetMovieDetails(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestErrorOnMalformedBody(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.DiscoverMovies(context.Background(), 1, "popularity.desc")
	assert.Error(t, err)
}

func TestOfflineFixtures(t *testing.T) {
	client := NewClient(config.TMDBConfig{Offline: true})
	client.SetFixtures(&Fixtures{
		MovieList: &types.MovieList{Results: []types.Movie{{ID: 1, Title: "Heat"}}},
		Details:   map[int]*types.Movie{1: {ID: 1, Title: "Heat"}},
		Credits:   map[int]*types.Credits{1: {ID: 1}},
		Genres:    []types.Genre{{ID: 80, Name: "Crime"}},
	})
	ctx := context.Background()

	list, err := client.DiscoverMovies(ctx, 1, "popularity.desc")
	require.NoError(t, err)
	assert.Len(t, list.Results, 1)

	movies, err := client.SearchMovies(ctx, "heat", 1)
	require.NoError(t, err)
	assert.Len(t, movies, 1)

	movie, err := client.GetMovieDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Heat", movie.Title)

	missing, err := client.GetMovieDetails(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, missing)

	credits, err := client.GetMovieCredits(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, credits.ID)

	genres, err := client.GetMovieGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 1)
}

func TestOfflineWithoutFixtures(t *testing.T) {
	client := NewClient(config.TMDBConfig{Offline: true})
	ctx := context.Background()

	list, err := client.DiscoverMovies(ctx, 3, "popularity.desc")
	require.NoError(t, err)
	assert.Empty(t, list.Results)

	movie, err := client.GetMovieDetails(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, movie)
}
