package main

import (
	"finapi/internal/config"
	"finapi/internal/db"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig()
	db.Migrate(cfg.DSN())
}
