// Package postgres is an account driver backed by PostgreSQL through pgx.
//
//	if err := pg.Migrate(ctx, pool, postgres.Migrations(), postgres.MigrationsDir, cfg, log); err != nil {
//	    return err
//	}
//	driver := postgres.New(pool)
//
// The driver supports registration.
package postgres
