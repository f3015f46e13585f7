package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"agency-service/internal/config"
	"agency-service/internal/repository/postgres"
)

const schemaPath = "database/schema.sql"

var expectedTables = []string{
	"accounts",
	"clients",
	"projects",
	"project_memberships",
	"candidates",
	"token_links",
	"submissions",
	"tickets",
	"ticket_comments",
	"contact_messages",
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("Failed to read schema file: %v", err)
	}

	ctx := context.Background()

	if _, err := db.Pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}

	fmt.Println("Schema executed successfully")

	for _, table := range expectedTables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := db.Pool.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			log.Fatalf("Failed to verify table %q: %v", table, err)
		}
		if !exists {
			log.Fatalf("Table %q was not created", table)
		}
		fmt.Printf("Table %q ready\n", table)
	}
}
