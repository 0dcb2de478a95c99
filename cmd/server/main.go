package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/septicstore/backend/config"
	httpDelivery "github.com/septicstore/backend/internal/delivery/http"
	"github.com/septicstore/backend/internal/infrastructure/feed"
	"github.com/septicstore/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Septic Store Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Feed: %s (refresh every %s)", cfg.Feed.URL, cfg.Feed.RefreshInterval)

	// Initialize infrastructure dependencies
	feedClient := feed.NewClient(cfg.Feed.URL, cfg.Feed.FetchTimeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		feedClient.SetDebug(true)
		log.Printf("Feed client debug mode enabled")
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(feedClient)
	searchService := usecase.NewSearchService(catalogService, usecase.SearchConfig{
		BrandParam:         cfg.Search.BrandParam,
		DefaultLimit:       cfg.Search.DefaultLimit,
		MaxLimit:           cfg.Search.MaxLimit,
		EnableDebugLogging: cfg.Server.Environment == "development",
	})

	// Fetch the catalog once before serving; an unreachable feed at boot is
	// not fatal, the service starts with an empty snapshot and the periodic
	// refresh keeps trying.
	ctx := context.Background()
	if err := catalogService.Refresh(ctx); err != nil {
		log.Printf("WARNING: initial catalog refresh failed, serving empty snapshot: %v", err)
	}

	go catalogService.RunPeriodic(ctx, cfg.Feed.RefreshInterval)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, cfg.Search.UserCountParam)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
