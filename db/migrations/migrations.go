// Package migrations embeds the goose SQL migrations for the quiz store.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fs embed.FS

// Run executes a goose command ("up", "down" or "status") against db.
func Run(db *sql.DB, command string) error {
	goose.SetBaseFS(fs)
	goose.SetTableName("goose_db_version")

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(db, ".")
	case "down":
		return goose.Down(db, ".")
	case "status":
		return goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
