package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/infra/migrations"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	appmigrations "github.com/m04kA/SMC-ReservationService/migrations"
)

// Использование: migrate [up | down | force <version>]
func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	runner, err := migrations.NewRunner(db, appmigrations.FS, log)
	if err != nil {
		log.Fatal("Failed to init migrations: %v", err)
	}
	defer runner.Close()

	command := "up"
	if len(os.Args) >= 2 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down()
	case "force":
		if len(os.Args) < 3 {
			log.Fatal("force requires a version")
		}
		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatal("Invalid version %q: %v", os.Args[2], convErr)
		}
		err = runner.Force(version)
	default:
		log.Fatal("Unknown command %q, expected up, down or force", command)
	}

	if err != nil {
		log.Fatal("Migration failed: %v", err)
	}
	log.Info("Migrations complete")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.toml"
}
