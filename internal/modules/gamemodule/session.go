package gamemodule

import (
	"sync"

	"github.com/google/uuid"

	"github.com/moviechain/moviechain/internal/types"
)

const (
	// maxConnectionUses caps how often one person may link movies
	// across a session, regardless of which pair they connect.
	maxConnectionUses = 3

	// historyLimit bounds the retained turn history.
	historyLimit = 5

	// setupSteps is how many opening steps count as the setup phase.
	// Informational only; no operation is blocked during setup.
	setupSteps = 3
)

// HistoryRecord is one retained turn: the movie played and the
// connection that admitted it. The starter movie carries a nil
// connection.
type HistoryRecord struct {
	Movie      types.Movie `json:"movie"`
	Connection *Connection `json:"connection,omitempty"`
}

// GameSession tracks one game: the movie chain so far, per-person
// connection usage, whose turn it is, and both players' win conditions.
// Methods are safe for concurrent use; the HTTP layer may deliver
// requests from multiple goroutines.
type GameSession struct {
	mu sync.Mutex

	id              string
	currentMovie    types.Movie
	usedMovieIDs    map[int]struct{}
	usedConnections []Connection
	connectionUsage map[int]int
	recentHistory   []HistoryRecord

	currentStep  int
	inSetupPhase bool
	won          bool

	player1Name      string
	player2Name      string
	player1Turn      bool
	player1Condition *WinCondition
	player2Condition *WinCondition
}

// NewGameSession starts a session on the given movie. The starter is
// registered as used and seeded into history without a connection.
func NewGameSession(startMovie types.Movie, player1Name, player2Name string, player1Condition, player2Condition *WinCondition) *GameSession {
	s := &GameSession{
		id:               uuid.New().String(),
		currentMovie:     startMovie,
		usedMovieIDs:     map[int]struct{}{startMovie.ID: {}},
		connectionUsage:  make(map[int]int),
		currentStep:      1,
		inSetupPhase:     true,
		player1Name:      player1Name,
		player2Name:      player2Name,
		player1Turn:      true,
		player1Condition: player1Condition,
		player2Condition: player2Condition,
	}
	s.recentHistory = append(s.recentHistory, HistoryRecord{Movie: startMovie})
	return s
}

// ID returns the session identifier.
func (s *GameSession) ID() string { return s.id }

// CurrentMovie returns the movie the next turn must connect to.
func (s *GameSession) CurrentMovie() types.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMovie
}

// CurrentStep returns the 1-based turn counter.
func (s *GameSession) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep
}

// InSetupPhase reports whether the session is still in its opening steps.
func (s *GameSession) InSetupPhase() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inSetupPhase
}

// IsMovieAlreadyUsed reports whether a movie id was played this session.
func (s *GameSession) IsMovieAlreadyUsed(movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, used := s.usedMovieIDs[movieID]
	return used
}

// IsConnectionUsedThreeTimes reports whether a person's connections are
// exhausted for this session.
func (s *GameSession) IsConnectionUsedThreeTimes(personID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectionUsage[personID] >= maxConnectionUses
}

// ConnectionUsage returns how often a person has linked movies so far.
func (s *GameSession) ConnectionUsage(personID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectionUsage[personID]
}

// CurrentPlayerName returns the active player's display name.
func (s *GameSession) CurrentPlayerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPlayerNameLocked()
}

func (s *GameSession) currentPlayerNameLocked() string {
	if s.player1Turn {
		return s.player1Name
	}
	return s.player2Name
}

// CurrentPlayerWinCondition returns the active player's win condition.
func (s *GameSession) CurrentPlayerWinCondition() *WinCondition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentConditionLocked()
}

func (s *GameSession) currentConditionLocked() *WinCondition {
	if s.player1Turn {
		return s.player1Condition
	}
	return s.player2Condition
}

// Player1WinCondition returns player 1's win condition.
func (s *GameSession) Player1WinCondition() *WinCondition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player1Condition
}

// Player2WinCondition returns player 2's win condition.
func (s *GameSession) Player2WinCondition() *WinCondition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player2Condition
}

// PlayerNames returns both players' display names.
func (s *GameSession) PlayerNames() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player1Name, s.player2Name
}

// HasWon reports whether the session reached its terminal state.
func (s *GameSession) HasWon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.won
}

// RecentHistory returns a copy of the retained turn history, oldest
// first, at most five entries.
func (s *GameSession) RecentHistory() []HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryRecord, len(s.recentHistory))
	copy(out, s.recentHistory)
	return out
}

// registerTurnLocked applies an accepted turn: marks the movie used,
// advances the step and setup flag, charges the connection's person
// counter, and appends to bounded history. Caller holds the lock.
func (s *GameSession) registerTurnLocked(movie types.Movie, conn Connection) Connection {
	s.usedMovieIDs[movie.ID] = struct{}{}
	s.currentMovie = movie
	s.currentStep++
	if s.currentStep > setupSteps {
		s.inSetupPhase = false
	}

	s.connectionUsage[conn.PersonID]++
	conn.UsageCount = s.connectionUsage[conn.PersonID]
	s.usedConnections = append(s.usedConnections, conn)

	if len(s.recentHistory) == historyLimit {
		s.recentHistory = s.recentHistory[1:]
	}
	s.recentHistory = append(s.recentHistory, HistoryRecord{Movie: movie, Connection: &conn})

	return conn
}
