package gamemodule

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviechain/moviechain/internal/modules/modulemanager"
)

const (
	// ModuleID is the unique identifier for the game module
	ModuleID = "game"

	// ModuleName is the display name
	ModuleName = "Movie Chain Game"
)

// GameModule wires the game service into the module system. Its HTTP
// surface lives in the api subpackage and is injected to keep the
// dependency direction one-way.
type GameModule struct {
	service *Service
	routes  modulemanager.RouteRegistrar
}

// NewModule creates the game module around a service and its route
// registrar.
func NewModule(service *Service, routes modulemanager.RouteRegistrar) *GameModule {
	return &GameModule{service: service, routes: routes}
}

// Register registers the module with the global registry
func Register(service *Service, routes modulemanager.RouteRegistrar) *GameModule {
	m := NewModule(service, routes)
	modulemanager.Register(m)
	return m
}

func (m *GameModule) ID() string   { return ModuleID }
func (m *GameModule) Name() string { return ModuleName }
func (m *GameModule) Core() bool   { return true }

// Init loads the genre taxonomy; win-condition generation needs it
// before the first session is created.
func (m *GameModule) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	m.service.Genres().Initialize(ctx)
	return nil
}

// RegisterRoutes mounts the module's HTTP surface
func (m *GameModule) RegisterRoutes(router *gin.Engine) {
	if m.routes != nil {
		m.routes.RegisterRoutes(router)
	}
}

// Service exposes the game service
func (m *GameModule) Service() *Service { return m.service }
