package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"cloudshare/internal/repository/postgres"
)

// Drops the postgres snapshot table for one environment prefix.
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
		log.Fatal("refusing to drop tables in prod")
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		prefix = env + "_"
	}
	tables := postgres.NewTableNames(prefix)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tables.KVStore)); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("Table %s dropped (prefix: %s)\n", tables.KVStore, prefix)
}
