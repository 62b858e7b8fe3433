package gamemodule

import (
	"context"

	"github.com/moviechain/moviechain/internal/modules/indexmodule"
	"github.com/moviechain/moviechain/internal/types"
)

// ConnectionType classifies how two movies are linked
type ConnectionType string

const (
	ConnectionActor        ConnectionType = "actor"
	ConnectionDirector     ConnectionType = "director"
	ConnectionScreenwriter ConnectionType = "screenwriter"
)

// writerJobs are the crew jobs that qualify as screenwriting credits
var writerJobs = map[string]bool{
	"Writer":     true,
	"Screenplay": true,
}

// Connection is a shared-person link between two movies' credits. It is
// derived fresh per query; UsageCount is a projection of the session's
// per-person counters, filled in when the connection is registered.
type Connection struct {
	MovieA     types.Movie    `json:"movie_a"`
	MovieB     types.Movie    `json:"movie_b"`
	Type       ConnectionType `json:"type"`
	PersonName string         `json:"person_name"`
	PersonID   int            `json:"person_id"`
	UsageCount int            `json:"usage_count"`
}

// Resolver computes shared-person connections between two movies using
// the index engine's credit lookups.
type Resolver struct {
	engine *indexmodule.Engine
}

// NewResolver creates a connection resolver over an index engine.
func NewResolver(engine *indexmodule.Engine) *Resolver {
	return &Resolver{engine: engine}
}

// GetConnections returns every shared actor, director, and screenwriter
// link between the two movies, in that category order, preserving the
// credit lists' insertion order within each category. The person name
// carried on each connection comes from the first movie's credit
// record. Returns an empty slice when either movie lacks resolvable
// credits; never nil-dereferences and never errors.
func (r *Resolver) GetConnections(ctx context.Context, movieA, movieB *types.Movie) []Connection {
	if movieA == nil || movieB == nil {
		return []Connection{}
	}

	creditsA := r.engine.GetMovieCredits(ctx, movieA.ID)
	creditsB := r.engine.GetMovieCredits(ctx, movieB.ID)
	if creditsA == nil || creditsB == nil {
		return []Connection{}
	}

	connections := []Connection{}

	// Shared actors.
	castA := make(map[int]types.CastMember, len(creditsA.Cast))
	for _, cast := range creditsA.Cast {
		if _, ok := castA[cast.ID]; !ok {
			castA[cast.ID] = cast
		}
	}
	for _, cast := range creditsB.Cast {
		if match, ok := castA[cast.ID]; ok {
			connections = append(connections, Connection{
				MovieA:     *movieA,
				MovieB:     *movieB,
				Type:       ConnectionActor,
				PersonName: match.Name,
				PersonID:   match.ID,
			})
		}
	}

	// Shared directors.
	directorsA := make(map[int]types.CrewMember)
	for _, crew := range creditsA.Crew {
		if crew.Job == "Director" {
			if _, ok := directorsA[crew.ID]; !ok {
				directorsA[crew.ID] = crew
			}
		}
	}
	for _, crew := range creditsB.Crew {
		if crew.Job != "Director" {
			continue
		}
		if match, ok := directorsA[crew.ID]; ok {
			connections = append(connections, Connection{
				MovieA:     *movieA,
				MovieB:     *movieB,
				Type:       ConnectionDirector,
				PersonName: match.Name,
				PersonID:   match.ID,
			})
		}
	}

	// Shared screenwriters.
	writersA := make(map[int]types.CrewMember)
	for _, crew := range creditsA.Crew {
		if writerJobs[crew.Job] {
			if _, ok := writersA[crew.ID]; !ok {
				writersA[crew.ID] = crew
			}
		}
	}
	for _, crew := range creditsB.Crew {
		if !writerJobs[crew.Job] {
			continue
		}
		if match, ok := writersA[crew.ID]; ok {
			connections = append(connections, Connection{
				MovieA:     *movieA,
				MovieB:     *movieB,
				Type:       ConnectionScreenwriter,
				PersonName: match.Name,
				PersonID:   match.ID,
			})
		}
	}

	return connections
}

// ValidateConnection reports whether any connection exists between the
// two movies. Nil arguments yield false.
func (r *Resolver) ValidateConnection(ctx context.Context, movieA, movieB *types.Movie) bool {
	if movieA == nil || movieB == nil {
		return false
	}
	return len(r.GetConnections(ctx, movieA, movieB)) > 0
}
