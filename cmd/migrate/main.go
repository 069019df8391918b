package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/hanifmaliki/shopcore/config"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.LoadEnv()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host,
		cfg.Postgres.Port, cfg.Postgres.DBName, cfg.Postgres.SSLMode)

	m, err := migrate.New(*source, dsn)
	if err != nil {
		log.Fatalf("failed to init migrations: %v", err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("migrations applied")
}
