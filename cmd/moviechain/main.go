package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moviechain/moviechain/internal/config"
	"github.com/moviechain/moviechain/internal/events"
	"github.com/moviechain/moviechain/internal/logger"
	"github.com/moviechain/moviechain/internal/modules/catalogmodule"
	"github.com/moviechain/moviechain/internal/modules/gamemodule"
	gameapi "github.com/moviechain/moviechain/internal/modules/gamemodule/api"
	"github.com/moviechain/moviechain/internal/modules/indexmodule"
	"github.com/moviechain/moviechain/internal/server"
	"github.com/moviechain/moviechain/internal/tmdb"
)

func main() {
	fmt.Println("=====================================")
	fmt.Println("  moviechain - movie chain game core ")
	fmt.Println("=====================================")

	configPath := os.Getenv("MOVIECHAIN_CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat("./moviechain.yaml"); err == nil {
			configPath = "./moviechain.yaml"
		}
	}

	if err := config.Load(configPath); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Get()
	logger.SetLevel(cfg.Logging.Level)
	if configPath != "" {
		logger.Info("configuration loaded", logger.String("path", configPath))
	} else {
		logger.Info("using default configuration")
	}

	events.SetGlobalEventBus(events.NewEventBus())

	// Shutdown signal context reaches every in-flight fetch, so a
	// catalog refresh that is still retrying stops promptly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := tmdb.NewClient(cfg.TMDB)

	catalog := catalogmodule.Register(client, cfg.Catalog)
	index := indexmodule.Register(client)
	service := gamemodule.NewService(index.Engine(), gamemodule.NewGenreService(client), client)
	gamemodule.Register(service, gameapi.NewHandler(service))

	router, err := server.SetupRouter()
	if err != nil {
		log.Fatalf("Failed to initialize modules: %v", err)
	}

	// Bulk load: snapshot or concurrent refresh, then index build.
	movies, err := catalog.Cache().GetPopularMovies(ctx, cfg.Catalog.Size)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	index.Engine().InitializeIndexes(movies)
	service.SetInitialMovies(movies)
	logger.Info("catalog ready", logger.Int("movies", len(movies)))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", logger.Err("error", err))
		}
	}()

	logger.Info("starting server",
		logger.String("host", cfg.Server.Host), logger.Int("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}

	logger.Info("server shutdown complete")
}
