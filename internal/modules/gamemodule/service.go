package gamemodule

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/moviechain/moviechain/internal/events"
	"github.com/moviechain/moviechain/internal/logger"
	"github.com/moviechain/moviechain/internal/modules/indexmodule"
	"github.com/moviechain/moviechain/internal/tmdb"
	"github.com/moviechain/moviechain/internal/types"
)

// starterPoolSize bounds the random starter pick to the most popular
// slice of the catalog.
const starterPoolSize = 1000

// RejectReason explains why a submitted turn left the session unchanged
type RejectReason string

const (
	RejectDuplicateMovie       RejectReason = "duplicate_movie"
	RejectNoConnection         RejectReason = "no_connection"
	RejectConnectionsExhausted RejectReason = "connections_exhausted"
	RejectSessionOver          RejectReason = "session_over"
)

// TurnResult is the outcome of one submitted turn.
type TurnResult struct {
	Accepted   bool         `json:"accepted"`
	Reason     RejectReason `json:"reason,omitempty"`
	Connection *Connection  `json:"connection,omitempty"`
	Won        bool         `json:"won"`
	WinnerName string       `json:"winner_name,omitempty"`
}

// Service owns game sessions and implements the turn state machine on
// top of the connection resolver and index engine.
type Service struct {
	engine   *indexmodule.Engine
	resolver *Resolver
	genres   *GenreService
	client   *tmdb.Client
	log      hclog.Logger

	mu            sync.RWMutex
	sessions      map[string]*GameSession
	initialMovies []types.Movie
}

// NewService creates the game service over an index engine, genre
// taxonomy, and provider client (used for search fallback).
func NewService(engine *indexmodule.Engine, genres *GenreService, client *tmdb.Client) *Service {
	return &Service{
		engine:   engine,
		resolver: NewResolver(engine),
		genres:   genres,
		client:   client,
		log:      logger.Named("game"),
		sessions: make(map[string]*GameSession),
	}
}

// Resolver exposes the connection resolver.
func (s *Service) Resolver() *Resolver { return s.resolver }

// Genres exposes the genre taxonomy service.
func (s *Service) Genres() *GenreService { return s.genres }

// SetInitialMovies installs the bulk-loaded catalog used for starter
// movie selection. Called once at bootstrap after the catalog load.
func (s *Service) SetInitialMovies(movies []types.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialMovies = movies
}

// InitialMovies returns the bulk-loaded catalog.
func (s *Service) InitialMovies() []types.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialMovies
}

// RandomStarterMovie picks a starter from the popular slice of the
// catalog.
func (s *Service) RandomStarterMovie() (types.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.initialMovies) == 0 {
		return types.Movie{}, fmt.Errorf("no catalog loaded")
	}
	pool := len(s.initialMovies)
	if pool > starterPoolSize {
		pool = starterPoolSize
	}
	return s.initialMovies[rand.Intn(pool)], nil
}

// RandomGenreWinCondition generates a genre win condition with the
// given target from the loaded taxonomy.
func (s *Service) RandomGenreWinCondition(targetCount int) *WinCondition {
	names := s.genres.AllGenreNames()
	return NewWinCondition(ConditionGenre, names[rand.Intn(len(names))], targetCount)
}

// CreateSession starts a new game: a random starter movie and a random
// genre win condition per player with a shared target of 3 to 7.
func (s *Service) CreateSession(ctx context.Context, player1Name, player2Name string) (*GameSession, error) {
	starter, err := s.RandomStarterMovie()
	if err != nil {
		return nil, err
	}

	targetCount := rand.Intn(5) + 3
	session := NewGameSession(starter, player1Name, player2Name,
		s.RandomGenreWinCondition(targetCount),
		s.RandomGenreWinCondition(targetCount))

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	s.log.Info("session created", "session", session.ID(), "starter", starter.Title)
	events.Publish(events.EventSessionCreated, map[string]interface{}{
		"session_id": session.ID(),
		"starter":    starter.Title,
	})
	return session, nil
}

// GetSession fetches an existing session by id.
func (s *Service) GetSession(id string) (*GameSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// GetMovieByID resolves a movie through the index engine, falling back
// to the provider.
func (s *Service) GetMovieByID(ctx context.Context, movieID int) *types.Movie {
	return s.engine.GetMovieByID(ctx, movieID)
}

// SearchMoviesByPrefix serves suggestion lookups: the local prefix
// index first, then the provider's search API when the index has no
// hits.
func (s *Service) SearchMoviesByPrefix(ctx context.Context, prefix string) []types.Movie {
	if prefix == "" {
		return nil
	}

	results := s.engine.SearchByPrefix(prefix)
	if len(results) > 0 {
		return results
	}

	remote, err := s.client.SearchMovies(ctx, prefix, 1)
	if err != nil {
		s.log.Warn("remote search failed", "query", prefix, "error", err)
		return nil
	}
	return remote
}

// ResolveTitle maps a selected title string back to a movie via prefix
// search, taking the most popular match. Nil when nothing matches.
func (s *Service) ResolveTitle(ctx context.Context, title string) *types.Movie {
	results := s.SearchMoviesByPrefix(ctx, title)
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

// MatchesWinCondition reports whether a movie satisfies a win
// condition: genre via genre-id membership, the person conditions via
// case-insensitive name match against the movie's credits.
func (s *Service) MatchesWinCondition(ctx context.Context, movie *types.Movie, condition *WinCondition) bool {
	if movie == nil || condition == nil {
		return false
	}

	switch condition.Type {
	case ConditionGenre:
		return s.genres.HasGenre(movie.GenreIDs, condition.Value)
	case ConditionActor:
		credits := s.engine.GetMovieCredits(ctx, movie.ID)
		if credits == nil {
			return false
		}
		for _, cast := range credits.Cast {
			if strings.EqualFold(cast.Name, condition.Value) {
				return true
			}
		}
	case ConditionDirector:
		credits := s.engine.GetMovieCredits(ctx, movie.ID)
		if credits == nil {
			return false
		}
		for _, crew := range credits.Crew {
			if crew.Job == "Director" && strings.EqualFold(crew.Name, condition.Value) {
				return true
			}
		}
	case ConditionWriter:
		credits := s.engine.GetMovieCredits(ctx, movie.ID)
		if credits == nil {
			return false
		}
		for _, crew := range credits.Crew {
			if writerJobs[crew.Job] && strings.EqualFold(crew.Name, condition.Value) {
				return true
			}
		}
	}
	return false
}

// SubmitTurn runs the turn state machine for a proposed next movie.
// Rejections leave the session untouched; an accepted turn registers
// the movie and the first connection whose person is not exhausted,
// advances win-condition progress, and either ends the game or passes
// the turn.
func (s *Service) SubmitTurn(ctx context.Context, session *GameSession, movie *types.Movie) TurnResult {
	if movie == nil {
		return TurnResult{Accepted: false, Reason: RejectNoConnection}
	}

	// Resolve everything that may hit the network before taking the
	// session lock: the candidate connections and whether the movie
	// satisfies either player's condition.
	current := session.CurrentMovie()
	connections := s.resolver.GetConnections(ctx, &current, movie)
	matchP1 := s.MatchesWinCondition(ctx, movie, session.Player1WinCondition())
	matchP2 := s.MatchesWinCondition(ctx, movie, session.Player2WinCondition())

	result := session.applyTurn(*movie, connections, matchP1, matchP2)

	if result.Accepted {
		events.Publish(events.EventTurnAccepted, map[string]interface{}{
			"session_id": session.ID(),
			"movie":      movie.Title,
			"person":     result.Connection.PersonName,
		})
		if result.Won {
			s.log.Info("session won", "session", session.ID(), "winner", result.WinnerName)
			events.Publish(events.EventSessionWon, map[string]interface{}{
				"session_id": session.ID(),
				"winner":     result.WinnerName,
			})
		}
	} else {
		events.Publish(events.EventTurnRejected, map[string]interface{}{
			"session_id": session.ID(),
			"movie":      movie.Title,
			"reason":     string(result.Reason),
		})
	}
	return result
}

// applyTurn executes the accept/reject decision atomically against the
// session state. Connection selection is first-match in the resolver's
// emission order; that order is part of the contract.
func (s *GameSession) applyTurn(movie types.Movie, connections []Connection, matchP1, matchP2 bool) TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.won {
		return TurnResult{Accepted: false, Reason: RejectSessionOver}
	}

	if _, used := s.usedMovieIDs[movie.ID]; used {
		return TurnResult{Accepted: false, Reason: RejectDuplicateMovie}
	}

	if len(connections) == 0 {
		return TurnResult{Accepted: false, Reason: RejectNoConnection}
	}

	selected := -1
	for i, conn := range connections {
		if s.connectionUsage[conn.PersonID] < maxConnectionUses {
			selected = i
			break
		}
	}
	if selected < 0 {
		return TurnResult{Accepted: false, Reason: RejectConnectionsExhausted}
	}

	registered := s.registerTurnLocked(movie, connections[selected])

	condition := s.currentConditionLocked()
	matched := matchP2
	if s.player1Turn {
		matched = matchP1
	}
	if matched {
		condition.IncrementProgress()
	}

	if condition.IsAchieved() {
		s.won = true
		return TurnResult{
			Accepted:   true,
			Connection: &registered,
			Won:        true,
			WinnerName: s.currentPlayerNameLocked(),
		}
	}

	s.player1Turn = !s.player1Turn
	return TurnResult{Accepted: true, Connection: &registered}
}
