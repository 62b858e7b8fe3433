package catalogmodule

import (
	"github.com/moviechain/moviechain/internal/config"
	"github.com/moviechain/moviechain/internal/modules/modulemanager"
	"github.com/moviechain/moviechain/internal/tmdb"
)

const (
	// ModuleID is the unique identifier for the catalog module
	ModuleID = "system.catalog"

	// ModuleName is the display name
	ModuleName = "Catalog Cache"
)

// CatalogModule wires the popular-movie cache into the module system
type CatalogModule struct {
	cache *Cache
}

// NewModule creates the catalog module around a provider client
func NewModule(client *tmdb.Client, cfg config.CatalogConfig) *CatalogModule {
	return &CatalogModule{cache: NewCache(client, cfg)}
}

// Register registers the module with the global registry
func Register(client *tmdb.Client, cfg config.CatalogConfig) *CatalogModule {
	m := NewModule(client, cfg)
	modulemanager.Register(m)
	return m
}

func (m *CatalogModule) ID() string   { return ModuleID }
func (m *CatalogModule) Name() string { return ModuleName }
func (m *CatalogModule) Core() bool   { return true }

// Init has no work: the cache is lazy, the first GetPopularMovies call
// loads or refreshes the snapshot.
func (m *CatalogModule) Init() error { return nil }

// Cache exposes the underlying cache for the bootstrap path and tests
func (m *CatalogModule) Cache() *Cache { return m.cache }
