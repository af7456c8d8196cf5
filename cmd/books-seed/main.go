package main

import (
	"context"
	stdLog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/gunnhildr/library-api/books/migrations"
	"github.com/gunnhildr/library-api/pkg/postgres"
)

type seedConfig struct {
	Database postgres.DB
	File     string `envconfig:"SEED_FILE" default:"dataset.sql"`
}

// loads a sql dataset into the books database after applying migrations
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	var cfg seedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		stdLog.Fatal("config ", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		stdLog.Fatal("db init ", err)
	}
	defer pool.Close()

	dir, name := filepath.Split(cfg.File)
	if dir == "" {
		dir = "."
	}
	if err := postgres.ExecScript(ctx, pool, os.DirFS(dir), name); err != nil {
		stdLog.Fatal(err)
	}
	stdLog.Printf("seeded from %s", cfg.File)
}
