package gamemodule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviechain/moviechain/internal/types"
)

func newTestSession(starter types.Movie) *GameSession {
	return NewGameSession(starter, "Alice", "Bob",
		NewWinCondition(ConditionGenre, "Action", 99),
		NewWinCondition(ConditionGenre, "Drama", 99))
}

func TestNewGameSessionInitialState(t *testing.T) {
	starter := types.Movie{ID: 1, Title: "Inception"}
	session := newTestSession(starter)

	assert.NotEmpty(t, session.ID())
	assert.Equal(t, starter, session.CurrentMovie())
	assert.Equal(t, 1, session.CurrentStep())
	assert.True(t, session.InSetupPhase())
	assert.False(t, session.HasWon())
	assert.Equal(t, "Alice", session.CurrentPlayerName())
	assert.True(t, session.IsMovieAlreadyUsed(1))
	assert.False(t, session.IsMovieAlreadyUsed(2))

	history := session.RecentHistory()
	require.Len(t, history, 1)
	assert.Equal(t, starter, history[0].Movie)
	assert.Nil(t, history[0].Connection)

	p1, p2 := session.PlayerNames()
	assert.Equal(t, "Alice", p1)
	assert.Equal(t, "Bob", p2)
}

func TestApplyTurnAdvancesState(t *testing.T) {
	session := newTestSession(types.Movie{ID: 1, Title: "Inception"})
	next := types.Movie{ID: 2, Title: "Interstellar"}
	conn := Connection{Type: ConnectionActor, PersonID: 101, PersonName: "Actor 1"}

	result := session.applyTurn(next, []Connection{conn}, false, false)

	require.True(t, result.Accepted)
	require.NotNil(t, result.Connection)
	assert.Equal(t, 1, result.Connection.UsageCount)
	assert.False(t, result.Won)

	assert.Equal(t, next, session.CurrentMovie())
	assert.Equal(t, 2, session.CurrentStep())
	assert.True(t, session.IsMovieAlreadyUsed(2))
	assert.Equal(t, 1, session.ConnectionUsage(101))
	assert.Equal(t, "Bob", session.CurrentPlayerName())
}

func TestApplyTurnRejectsDuplicateMovie(t *testing.T) {
	session := newTestSession(types.Movie{ID: 1, Title: "Inception"})
	conn := Connection{Type: ConnectionActor, PersonID: 101}

	result := session.applyTurn(types.Movie{ID: 1, Title: "Inception"}, []Connection{conn}, false, false)

	assert.False(t, result.Accepted)
	assert.Equal(t, RejectDuplicateMovie, result.Reason)

	// Rejection leaves the session untouched.
	assert.Equal(t, 1, session.CurrentStep())
	assert.Equal(t, "Alice", session.CurrentPlayerName())
	assert.Equal(t, 0, session.ConnectionUsage(101))
}

func TestApplyTurnRejectsWithoutConnection(t *testing.T) {
	session := newTestSession(types.Movie{ID: 1})

	result := session.applyTurn(types.Movie{ID: 2}, []Connection{}, false, false)

	assert.False(t, result.Accepted)
	assert.Equal(t, RejectNoConnection, result.Reason)
	assert.Equal(t, 1, session.CurrentStep())
	assert.False(t, session.IsMovieAlreadyUsed(2))
}

func TestConnectionExhaustionAfterThreeUses(t *testing.T) {
	session := newTestSession(types.Movie{ID: 1})
	conn := Connection{Type: ConnectionActor, PersonID: 101, PersonName: "Busy Actor"}

	for i := 0; i < 3; i++ {
		movie := types.Movie{ID: 10 + i}
		result := session.applyTurn(movie, []Connection{conn}, false, false)
		require.True(t, result.Accepted, "use %d should be accepted", i+1)
		assert.Equal(t, i+1, result.Connection.UsageCount)
	}
	assert.True(t, session.IsConnectionUsedThreeTimes(101))

	result := session.applyTurn(types.Movie{ID: 20}, []Connection{conn}, false, false)
	assert.False(t, result.Accepted)
	assert.Equal(t, RejectConnectionsExhausted, result.Reason)
	assert.False(t, session.IsMovieAlreadyUsed(20))
	assert.Equal(t, 3, session.ConnectionUsage(101))
}

func TestApplyTurnSkipsExhaustedConnection(t *testing.T) {
	session := newTestSession(types.Movie{ID: 1})
	exhausted := Connection{Type: ConnectionActor, PersonID: 101, PersonName: "Busy Actor"}
	fresh := Connection{Type: ConnectionDirector, PersonID: 202, PersonName: "Fresh Director"}

	for i := 0; i < 3; i++ {
		require.True(t, session.applyTurn(types.Movie{ID: 10 + i}, []Connection{exhausted}, false, false).Accepted)
	}

	// The exhausted person is listed first; selection falls through to
	// the director.
	result := session.applyTurn(types.Movie{ID: 20}, []Connection{exhausted, fresh}, false, false)
	require.True(t, result.Accepted)
	assert.Equal(t, 202, result.Connection.PersonID)
	assert.Equal(t, ConnectionDirector, result.Connection.Type)
	assert.Equal(t, 1, result.Connection.UsageCount)
}

func TestSetupPhaseEndsAfterThirdStep(t *testing.T) {
	session := newTestSession(types.Movie{ID: 1})
	conn := Connection{PersonID: 101}

	require.True(t, session.applyTurn(types.Movie{ID: 2}, []Connection{conn}, false, false).Accepted)
	assert.Equal(t, 2, session.CurrentStep())
	assert.True(t, session.InSetupPhase())

	require.True(t, session.applyTurn(types.Movie{ID: 3}, []Connection{conn}, false, false).Accepted)
	assert.Equal(t, 3, session.CurrentStep())
	assert.True(t, session.InSetupPhase())

	require.True(t, session.applyTurn(types.Movie{ID: 4}, []Connection{{PersonID: 102}}, false, false).Accepted)
	assert.Equal(t, 4, session.CurrentStep())
	assert.False(t, session.InSetupPhase())
}

func TestRecentHistoryKeepsLastFive(t *testing.T) {
	session := newTestSession(types.Movie{ID: 1, Title: "Starter"})

	for i := 0; i < 6; i++ {
		movie := types.Movie{ID: 10 + i, Title: fmt.Sprintf("Movie %d", i+1)}
		conn := Connection{PersonID: 100 + i, PersonName: fmt.Sprintf("Person %d", i+1)}
		require.True(t, session.applyTurn(movie, []Connection{conn}, false, false).Accepted)
	}

	history := session.RecentHistory()
	require.Len(t, history, 5)
	// The starter and the first turn were evicted, oldest first remains.
	assert.Equal(t, "Movie 2", history[0].Movie.Title)
	assert.Equal(t, "Movie 6", history[4].Movie.Title)
	for _, record := range history {
		require.NotNil(t, record.Connection)
	}
}

func TestWinConditionProgressAndVictory(t *testing.T) {
	session := NewGameSession(types.Movie{ID: 1}, "Alice", "Bob",
		NewWinCondition(ConditionGenre, "Action", 2),
		NewWinCondition(ConditionGenre, "Drama", 99))
	conn := Connection{PersonID: 101}

	// Alice's turn, movie matches her condition.
	result := session.applyTurn(types.Movie{ID: 2}, []Connection{conn}, true, false)
	require.True(t, result.Accepted)
	assert.False(t, result.Won)
	assert.Equal(t, 1, session.Player1WinCondition().CurrentCount)

	// Bob's turn, a match for Alice only does not advance Bob.
	result = session.applyTurn(types.Movie{ID: 3}, []Connection{conn}, true, false)
	require.True(t, result.Accepted)
	assert.False(t, result.Won)
	assert.Equal(t, 1, session.Player1WinCondition().CurrentCount)
	assert.Equal(t, 0, session.Player2WinCondition().CurrentCount)

	// Alice again, second match reaches her target.
	result = session.applyTurn(types.Movie{ID: 4}, []Connection{conn}, true, false)
	require.True(t, result.Accepted)
	assert.True(t, result.Won)
	assert.Equal(t, "Alice", result.WinnerName)
	assert.True(t, session.HasWon())

	// Terminal session rejects everything afterwards.
	result = session.applyTurn(types.Movie{ID: 5}, []Connection{conn}, true, true)
	assert.False(t, result.Accepted)
	assert.Equal(t, RejectSessionOver, result.Reason)
}

func TestWinConditionMinimumTarget(t *testing.T) {
	condition := NewWinCondition(ConditionGenre, "Action", 0)
	assert.Equal(t, 1, condition.TargetCount)
	assert.False(t, condition.IsAchieved())

	condition.IncrementProgress()
	assert.True(t, condition.IsAchieved())
}
