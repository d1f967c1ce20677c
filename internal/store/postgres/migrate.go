package postgres

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// zerologGooseLogger routes goose output through the global zerolog logger.
// Fatalf does not exit; goose returns the error to the caller.
type zerologGooseLogger struct{}

func (zerologGooseLogger) Printf(format string, v ...any) {
	log.Info().Str("component", "migrations").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (zerologGooseLogger) Fatalf(format string, v ...any) {
	log.Error().Str("component", "migrations").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Migrate runs a goose command ("up", "down", "status", "version", ...)
// against the embedded migrations.
func (s *Store) Migrate(ctx context.Context, command string, args ...string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(zerologGooseLogger{})
	err := goose.SetDialect("postgres")
	if err != nil {
		return fmt.Errorf("postgres.Migrate: dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	err = goose.RunContext(ctx, command, db, migrationsDir, args...)
	if err != nil {
		return fmt.Errorf("postgres.Migrate %s: %w", command, err)
	}

	return nil
}
