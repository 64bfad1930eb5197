package main

import (
	"context"
	"errors"
	"os"

	"github.com/daikazu/frontdoor/pkg/account"
	"github.com/daikazu/frontdoor/pkg/account/mongodb"
	"github.com/daikazu/frontdoor/pkg/account/postgres"
	"github.com/daikazu/frontdoor/pkg/config"
	"github.com/daikazu/frontdoor/pkg/mongo"
	"github.com/daikazu/frontdoor/pkg/pg"
)

// bindAccounts resolves FRONTDOOR_ACCOUNT_DRIVER. With registration enabled
// a driver that cannot create accounts is a startup error.
func bindAccounts(ctx context.Context, a *app) (account.Binding, error) {
	return newRegistry(a).Bind(ctx, a.cfg.AccountDriver, a.cfg.RegistrationEnabled)
}

// newRegistry lists the account drivers selectable through
// FRONTDOOR_ACCOUNT_DRIVER. Factories run only for the selected driver.
func newRegistry(a *app) *account.Registry {
	r := account.NewRegistry()

	r.Register("testing", func(ctx context.Context) (account.Driver, error) {
		seeds, err := loadSeeds(a.cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		return account.NewCacheDriver(a.kv, account.WithSeeds(seeds)), nil
	})

	r.Register("config", func(ctx context.Context) (account.Driver, error) {
		if a.cfg.SeedFile == "" {
			return nil, errors.New("config driver needs FRONTDOOR_SEED_FILE")
		}
		seeds, err := loadSeeds(a.cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		return account.NewConfigDriver(seeds), nil
	})

	r.Register("postgres", func(ctx context.Context) (account.Driver, error) {
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
		return postgres.New(pool), nil
	})

	r.Register("mongodb", func(ctx context.Context) (account.Driver, error) {
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Client().Disconnect)
		return mongodb.New(db.Collection(mongodb.DefaultCollection)), nil
	})

	return r
}

func loadSeeds(path string) (map[string]account.Seed, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return account.LoadSeeds(f)
}
