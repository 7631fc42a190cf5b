package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/gokatarajesh/quiz-board/internal/config"
	"github.com/gokatarajesh/quiz-board/internal/db/repository"
)

func main() {
	file := flag.String("file", "", "Path to the .xlsx workbook (one sheet per category)")
	title := flag.String("title", "", "Quiz title (default: workbook file name)")
	author := flag.String("created-by", "importer", "Value stored as the quiz author")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if !cfg.Postgres.Enabled() {
		log.Fatal().Msg("PG_HOST environment variable is required")
	}

	f, err := excelize.OpenFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to open workbook")
	}
	defer f.Close()

	categories, skipped := parseWorkbook(f)
	for _, s := range skipped {
		log.Warn().Str("sheet", s.Sheet).Str("reason", s.Reason).Msg("sheet skipped")
	}
	if len(categories) == 0 {
		log.Fatal().Msg("no sheet carries a complete set of point tiers")
	}

	quizTitle := *title
	if quizTitle == "" {
		quizTitle = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	repo := repository.NewQuizRepository(repository.NewQueries(pool))
	id, err := repo.Create(ctx, repository.NewQuiz{
		Title:      quizTitle,
		CreatedBy:  *author,
		Categories: categories,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to store quiz")
	}

	log.Info().
		Str("quiz_id", id).
		Int("categories", len(categories)).
		Int("skipped", len(skipped)).
		Msg("workbook imported")
}
