package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found in dir inside
// migrations, usually an embed.FS owned by the package that defines the
// schema. Goose output is routed to log.
//
// Goose keeps its dialect, table name and base FS in package globals, so
// concurrent Migrate calls are not supported.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, dir string, cfg Config, log *slog.Logger) error {
	if migrations == nil || dir == "" {
		return errors.Join(ErrFailedToApplyMigrations, ErrMigrationPathNotProvided)
	}
	if _, err := fs.Stat(migrations, dir); err != nil {
		return errors.Join(ErrMigrationsDirNotFound, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "close migration connection", slog.Any("error", err))
		}
	}()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{ctx: ctx, log: log})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	return nil
}

// gooseLogger routes goose output to slog. goose.Logger has no context
// parameter, so the one passed to Migrate is kept here.
type gooseLogger struct {
	ctx context.Context
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.InfoContext(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "migrate"))
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.log.ErrorContext(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "migrate"))
}
