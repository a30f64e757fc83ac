package main

import (
	"log"

	"github.com/joho/godotenv"

	"datalens/internal/config"
	"datalens/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := ui.NewApp(cfg)
	log.Printf("Analyzer API starting on port %s", cfg.Server.Port)
	if err := app.Run(); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}
