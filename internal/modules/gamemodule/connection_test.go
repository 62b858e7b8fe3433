package gamemodule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviechain/moviechain/internal/config"
	"github.com/moviechain/moviechain/internal/modules/indexmodule"
	"github.com/moviechain/moviechain/internal/tmdb"
	"github.com/moviechain/moviechain/internal/types"
)

func newOfflineClient(fixtures *tmdb.Fixtures) *tmdb.Client {
	client := tmdb.NewClient(config.TMDBConfig{Offline: true})
	client.SetFixtures(fixtures)
	return client
}

func newTestEngine(fixtures *tmdb.Fixtures) *indexmodule.Engine {
	return indexmodule.NewEngine(newOfflineClient(fixtures))
}

func TestGetConnectionsSharedActor(t *testing.T) {
	engine := newTestEngine(&tmdb.Fixtures{})
	engine.SetMovieCredits(1, &types.Credits{
		Cast: []types.CastMember{
			{ID: 101, Name: "Tom Hardy", Character: "Eames"},
			{ID: 102, Name: "Leonardo DiCaprio", Character: "Cobb"},
		},
	})
	engine.SetMovieCredits(2, &types.Credits{
		Cast: []types.CastMember{
			{ID: 101, Name: "Tom Hardy", Character: "Max"},
		},
	})
	resolver := NewResolver(engine)

	m1 := &types.Movie{ID: 1, Title: "Inception"}
	m2 := &types.Movie{ID: 2, Title: "Mad Max: Fury Road"}
	connections := resolver.GetConnections(context.Background(), m1, m2)

	require.Len(t, connections, 1)
	conn := connections[0]
	assert.Equal(t, ConnectionActor, conn.Type)
	assert.Equal(t, 101, conn.PersonID)
	assert.Equal(t, "Tom Hardy", conn.PersonName)
	assert.Equal(t, 1, conn.MovieA.ID)
	assert.Equal(t, 2, conn.MovieB.ID)
	assert.True(t, resolver.ValidateConnection(context.Background(), m1, m2))
}

func TestGetConnectionsPersonNameFromFirstMovie(t *testing.T) {
	engine := newTestEngine(&tmdb.Fixtures{})
	engine.SetMovieCredits(1, &types.Credits{
		Cast: []types.CastMember{{ID: 101, Name: "Robert De Niro"}},
	})
	// Same person id, differently spelled credit on the second movie.
	engine.SetMovieCredits(2, &types.Credits{
		Cast: []types.CastMember{{ID: 101, Name: "R. De Niro"}},
	})
	resolver := NewResolver(engine)

	connections := resolver.GetConnections(context.Background(),
		&types.Movie{ID: 1}, &types.Movie{ID: 2})
	require.Len(t, connections, 1)
	assert.Equal(t, "Robert De Niro", connections[0].PersonName)

	// The attribution follows argument order, so swapping the movies
	// swaps the name.
	connections = resolver.GetConnections(context.Background(),
		&types.Movie{ID: 2}, &types.Movie{ID: 1})
	require.Len(t, connections, 1)
	assert.Equal(t, "R. De Niro", connections[0].PersonName)
}

func TestGetConnectionsCategoryOrder(t *testing.T) {
	shared := &types.Credits{
		Cast: []types.CastMember{{ID: 11, Name: "Shared Actor"}},
		Crew: []types.CrewMember{
			{ID: 22, Name: "Shared Director", Job: "Director"},
			{ID: 33, Name: "Shared Writer", Job: "Screenplay"},
		},
	}
	engine := newTestEngine(&tmdb.Fixtures{})
	engine.SetMovieCredits(1, shared)
	engine.SetMovieCredits(2, shared)
	resolver := NewResolver(engine)

	connections := resolver.GetConnections(context.Background(),
		&types.Movie{ID: 1}, &types.Movie{ID: 2})

	require.Len(t, connections, 3)
	assert.Equal(t, ConnectionActor, connections[0].Type)
	assert.Equal(t, ConnectionDirector, connections[1].Type)
	assert.Equal(t, ConnectionScreenwriter, connections[2].Type)
}

func TestGetConnectionsWriterJobs(t *testing.T) {
	engine := newTestEngine(&tmdb.Fixtures{})
	engine.SetMovieCredits(1, &types.Credits{
		Crew: []types.CrewMember{
			{ID: 41, Name: "Writer One", Job: "Writer"},
			{ID: 42, Name: "Writer Two", Job: "Screenplay"},
			{ID: 43, Name: "Story Person", Job: "Story"},
		},
	})
	engine.SetMovieCredits(2, &types.Credits{
		Crew: []types.CrewMember{
			{ID: 41, Name: "Writer One", Job: "Writer"},
			{ID: 42, Name: "Writer Two", Job: "Screenplay"},
			{ID: 43, Name: "Story Person", Job: "Story"},
		},
	})
	resolver := NewResolver(engine)

	connections := resolver.GetConnections(context.Background(),
		&types.Movie{ID: 1}, &types.Movie{ID: 2})

	// "Story" credits do not qualify as screenwriting.
	require.Len(t, connections, 2)
	for _, conn := range connections {
		assert.Equal(t, ConnectionScreenwriter, conn.Type)
		assert.NotEqual(t, 43, conn.PersonID)
	}
}

func TestGetConnectionsNoSharedPeople(t *testing.T) {
	engine := newTestEngine(&tmdb.Fixtures{})
	engine.SetMovieCredits(1, &types.Credits{
		Cast: []types.CastMember{{ID: 1, Name: "A"}},
		Crew: []types.CrewMember{{ID: 2, Name: "B", Job: "Director"}},
	})
	engine.SetMovieCredits(2, &types.Credits{
		Cast: []types.CastMember{{ID: 3, Name: "C"}},
		Crew: []types.CrewMember{{ID: 4, Name: "D", Job: "Director"}},
	})
	resolver := NewResolver(engine)

	m1 := &types.Movie{ID: 1}
	m2 := &types.Movie{ID: 2}
	connections := resolver.GetConnections(context.Background(), m1, m2)
	assert.NotNil(t, connections)
	assert.Empty(t, connections)
	assert.False(t, resolver.ValidateConnection(context.Background(), m1, m2))
}

func TestGetConnectionsMissingCredits(t *testing.T) {
	engine := newTestEngine(&tmdb.Fixtures{})
	engine.SetMovieCredits(1, &types.Credits{
		Cast: []types.CastMember{{ID: 1, Name: "A"}},
	})
	resolver := NewResolver(engine)

	// Movie 5 has no credits anywhere.
	connections := resolver.GetConnections(context.Background(),
		&types.Movie{ID: 1}, &types.Movie{ID: 5})
	assert.Empty(t, connections)
}

func TestGetConnectionsNilMovies(t *testing.T) {
	resolver := NewResolver(newTestEngine(&tmdb.Fixtures{}))

	assert.Empty(t, resolver.GetConnections(context.Background(), nil, &types.Movie{ID: 1}))
	assert.Empty(t, resolver.GetConnections(context.Background(), &types.Movie{ID: 1}, nil))
	assert.False(t, resolver.ValidateConnection(context.Background(), nil, nil))
}

func TestGetConnectionsSamePersonActsAndDirects(t *testing.T) {
	credits := &types.Credits{
		Cast: []types.CastMember{{ID: 50, Name: "Clint Eastwood"}},
		Crew: []types.CrewMember{{ID: 50, Name: "Clint Eastwood", Job: "Director"}},
	}
	engine := newTestEngine(&tmdb.Fixtures{})
	engine.SetMovieCredits(1, credits)
	engine.SetMovieCredits(2, credits)
	resolver := NewResolver(engine)

	connections := resolver.GetConnections(context.Background(),
		&types.Movie{ID: 1}, &types.Movie{ID: 2})

	// One connection per category the person appears in.
	require.Len(t, connections, 2)
	assert.Equal(t, ConnectionActor, connections[0].Type)
	assert.Equal(t, ConnectionDirector, connections[1].Type)
	assert.Equal(t, connections[0].PersonID, connections[1].PersonID)
}
