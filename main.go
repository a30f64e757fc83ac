package main

import (
	"log"

	"github.com/joho/godotenv"

	"datalens/internal/config"
	"datalens/internal/store"
	"datalens/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	analyses := store.New(cfg.Store.TTL, cfg.Store.SweepInterval)
	defer analyses.Close()

	server, err := ui.NewServer(cfg, analyses)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Dataset analyzer starting on port %s", cfg.Server.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
