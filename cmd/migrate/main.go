package main

import (
	"context"
	"log"
	"os"
	"time"

	"macrolens/adapters/excel"
	"macrolens/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [data_file]")
	}

	databaseURL := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	cfg := excel.DefaultExcelConfig()
	cfg.FilePath = os.Args[2]
	source := excel.NewFileSource(cfg)

	obs, err := source.LoadObservations(ctx)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.FilePath, err)
	}

	start := time.Now()
	inserted, err := migration.Import(ctx, db, obs)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %d of %d observations from %s in %s", inserted, len(obs), source.Describe(), time.Since(start).Round(time.Millisecond))
}
