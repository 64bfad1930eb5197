// Package pg bootstraps PostgreSQL access on top of github.com/jackc/pgx/v5:
// a retrying pool constructor, a goose migration runner that reads migrations
// from an fs.FS, a readiness probe and error classification helpers.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	if err := pg.Migrate(ctx, pool, migrations, "migrations", cfg, slog.Default()); err != nil {
//	    return err
//	}
//
// Config is read from PG_* environment variables through pkg/config.
// IsDuplicateKeyError and IsNotFoundError unwrap pgx errors so storage code
// can map them onto its own sentinels.
package pg
