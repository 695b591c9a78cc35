package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	schemaSQL := `
CREATE TABLE IF NOT EXISTS papers (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),

    -- Free-text classification; filter vocabularies derive from observed values
    college VARCHAR(255) NOT NULL DEFAULT '',
    degree  VARCHAR(255) NOT NULL DEFAULT '',
    stream  VARCHAR(255) NOT NULL DEFAULT '',
    subject VARCHAR(255) NOT NULL DEFAULT '',
    year    VARCHAR(50)  NOT NULL DEFAULT '',

    file_name TEXT NOT NULL DEFAULT '',
    content   TEXT NOT NULL DEFAULT '',
    blob_id   TEXT NOT NULL DEFAULT '',

    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to create papers table: %v", err)
	}
	log.Println("✓ Created papers table")

	indexSQL := `CREATE INDEX IF NOT EXISTS idx_papers_created_at ON papers(created_at DESC);`
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		log.Fatalf("Failed to create index: %v", err)
	}
	log.Println("✓ Created created_at index")
}
