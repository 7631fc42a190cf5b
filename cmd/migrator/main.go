package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/quiz-board/db/migrations"
	"github.com/gokatarajesh/quiz-board/internal/config"
)

func main() {
	command := flag.String("command", "up", "Migration command: up, down, or status")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if !cfg.Postgres.Enabled() {
		log.Fatal().Msg("PG_HOST environment variable is required")
	}

	db, err := sql.Open("pgx", cfg.Postgres.ConnString())
	if err != nil {
		log.Fatal().Err(err).Str("host", cfg.Postgres.Host).Msg("failed to open database connection")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	log.Info().
		Str("host", cfg.Postgres.Host).
		Int("port", cfg.Postgres.Port).
		Str("database", cfg.Postgres.Database).
		Str("command", *command).
		Msg("connected to database")

	if err := migrations.Run(db, *command); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	log.Info().Str("command", *command).Msg("migration finished")
}
