package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Drops every application table for the current environment prefix.
// Run directly: go run scripts/reset_db.go
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	if env == "prod" {
		log.Fatal("Refusing to drop tables in production")
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Children before parents so the CASCADEs stay cheap
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %sapplication_packages CASCADE;
		DROP TABLE IF EXISTS %sfunding_opportunities CASCADE;
		DROP TABLE IF EXISTS %sassets CASCADE;
		DROP TABLE IF EXISTS %ssections CASCADE;
		DROP TABLE IF EXISTS %sprojects CASCADE;
	`, prefix, prefix, prefix, prefix, prefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}
