package indexmodule

import (
	"github.com/moviechain/moviechain/internal/modules/modulemanager"
	"github.com/moviechain/moviechain/internal/tmdb"
)

const (
	// ModuleID is the unique identifier for the index module
	ModuleID = "system.index"

	// ModuleName is the display name
	ModuleName = "Index Engine"
)

// IndexModule wires the index engine into the module system
type IndexModule struct {
	engine *Engine
}

// NewModule creates the index module around a provider client
func NewModule(client *tmdb.Client) *IndexModule {
	return &IndexModule{engine: NewEngine(client)}
}

// Register registers the module with the global registry
func Register(client *tmdb.Client) *IndexModule {
	m := NewModule(client)
	modulemanager.Register(m)
	return m
}

func (m *IndexModule) ID() string   { return ModuleID }
func (m *IndexModule) Name() string { return ModuleName }
func (m *IndexModule) Core() bool   { return true }
func (m *IndexModule) Init() error  { return nil }

// Engine exposes the index engine to the game module and bootstrap path
func (m *IndexModule) Engine() *Engine { return m.engine }
