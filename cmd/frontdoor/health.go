package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daikazu/frontdoor"
	"github.com/daikazu/frontdoor/pkg/config"
	"github.com/daikazu/frontdoor/pkg/mongo"
	"github.com/daikazu/frontdoor/pkg/opensearch"
	"github.com/daikazu/frontdoor/pkg/pg"
	"github.com/daikazu/frontdoor/pkg/redis"
)

type check struct {
	name string
	run  func(context.Context) error
}

// cmdHealth pings every backend the current configuration uses.
func cmdHealth(ctx context.Context) error {
	var cfg frontdoor.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	var rt runtimeConfig
	if err := config.Load(&rt); err != nil {
		return err
	}

	var checks []check
	var cleanup []func()
	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	if rt.Store == "redis" {
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = client.Close() })
		checks = append(checks, check{"redis", redis.Healthcheck(client)})
	}

	switch cfg.AccountDriver {
	case "postgres":
		var pc pg.Config
		if err := config.Load(&pc); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, pc)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, pool.Close)
		checks = append(checks, check{"postgres", pg.Healthcheck(pool)})
	case "mongodb":
		var mc mongo.Config
		if err := config.Load(&mc); err != nil {
			return err
		}
		client, err := mongo.New(ctx, mc)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = client.Disconnect(context.WithoutCancel(ctx)) })
		checks = append(checks, check{"mongodb", mongo.Healthcheck(client)})
	}

	if rt.EventsOpenSearch {
		var oc opensearch.Config
		if err := config.Load(&oc); err != nil {
			return err
		}
		client, err := opensearch.New(ctx, oc)
		if err != nil {
			return err
		}
		checks = append(checks, check{"opensearch", opensearch.Healthcheck(client)})
	}

	return runChecks(ctx, checks)
}

func runChecks(ctx context.Context, checks []check) error {
	var errs []error
	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.run(cctx)
		cancel()
		if err != nil {
			fmt.Printf("%-10s FAIL %v\n", c.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		fmt.Printf("%-10s ok\n", c.name)
	}
	return errors.Join(errs...)
}
