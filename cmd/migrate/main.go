package main

import (
	"dapptrack/internal/config" // Custom import path (Config)
	"dapptrack/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Create the tables and the seed operator account
	db.Migrate(cfg.DSN(), cfg.OperatorUsername, cfg.OperatorPassword)
}
