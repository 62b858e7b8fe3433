package modulemanager

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/moviechain/moviechain/internal/logger"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string   // Unique identifier for the module
	Name() string // Display name for the module
	Core() bool   // Whether this is a core module (cannot be disabled)
	Init() error  // Initialize the module
}

// RouteRegistrar is an optional interface for modules that need to register routes
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules         map[string]Module
	disabledModules map[string]bool
	initOrder       []string
	mu              sync.RWMutex
	initialized     bool
}

// NewRegistry creates an empty module registry. Tests construct their
// own registries; the process uses the package-level one.
func NewRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules:         make(map[string]Module),
		disabledModules: make(map[string]bool),
	}
}

// Registry is the global module registry
var Registry = NewRegistry()

// Register adds a module to the global registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module registered after initialization",
			logger.String("module", m.Name()), logger.String("id", m.ID()))
	}

	if _, exists := r.modules[m.ID()]; !exists {
		r.initOrder = append(r.initOrder, m.ID())
	}
	r.modules[m.ID()] = m
	logger.Info("Module registered",
		logger.String("module", m.Name()), logger.String("id", m.ID()))
}

// LoadAll initializes all registered modules on the global registry
func LoadAll() error {
	return Registry.LoadAll()
}

// LoadAll initializes all registered modules, core modules first, then
// in registration order.
func (r *ModuleRegistry) LoadAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module system already initialized")
		return nil
	}

	order := make([]string, len(r.initOrder))
	copy(order, r.initOrder)
	sort.SliceStable(order, func(i, j int) bool {
		return r.modules[order[i]].Core() && !r.modules[order[j]].Core()
	})

	var toInit []Module
	for _, id := range order {
		module := r.modules[id]
		if r.disabledModules[id] {
			if module.Core() {
				return fmt.Errorf("attempted to disable core module: %s", id)
			}
			logger.Warn("Skipping disabled module", logger.String("module", module.Name()))
			continue
		}
		toInit = append(toInit, module)
	}

	logger.Info("Loading modules", logger.Int("count", len(toInit)))

	for i, module := range toInit {
		logger.Info("Initializing module",
			logger.Int("index", i+1), logger.Int("total", len(toInit)),
			logger.String("module", module.Name()))

		if err := module.Init(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}
	}

	r.initialized = true
	return nil
}

// RegisterRoutes mounts routes for every module that exposes them
func RegisterRoutes(router *gin.Engine) {
	Registry.RegisterRoutes(router)
}

// RegisterRoutes mounts routes for every registered module implementing
// RouteRegistrar, skipping disabled modules.
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.initOrder {
		if r.disabledModules[id] {
			continue
		}
		if registrar, ok := r.modules[id].(RouteRegistrar); ok {
			registrar.RegisterRoutes(router)
		}
	}
}

// DisableModule marks a module as disabled
func (r *ModuleRegistry) DisableModule(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, exists := r.modules[id]
	if !exists {
		logger.Warn("Attempted to disable non-existent module", logger.String("id", id))
		return
	}
	if module.Core() {
		logger.Error("Cannot disable core module", logger.String("id", id))
		return
	}

	r.disabledModules[id] = true
	logger.Info("Module disabled", logger.String("id", id))
}

// GetModule fetches a registered module by id
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[id]
	return m, ok
}
