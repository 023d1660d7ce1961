// Command migrate applies the database schema. In development the server
// migrates on startup; this command exists for production rollouts where
// startup migration is disabled.
package main

import (
	"log"

	"tsudoi/internal/config"
	"tsudoi/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema migration applied")
}
