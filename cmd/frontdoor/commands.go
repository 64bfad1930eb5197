package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/daikazu/frontdoor"
	"github.com/daikazu/frontdoor/pkg/account/mongodb"
	"github.com/daikazu/frontdoor/pkg/account/postgres"
	"github.com/daikazu/frontdoor/pkg/config"
	"github.com/daikazu/frontdoor/pkg/events"
	"github.com/daikazu/frontdoor/pkg/mongo"
	"github.com/daikazu/frontdoor/pkg/opensearch"
	"github.com/daikazu/frontdoor/pkg/pg"
	"github.com/daikazu/frontdoor/pkg/sanitizer"
	"github.com/daikazu/frontdoor/pkg/secrets"
	"github.com/daikazu/frontdoor/pkg/session"
)

func cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "address to sign in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("email is required")
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	sess, err := a.sessions.Start(ctx)
	if err != nil {
		return err
	}
	ctx = session.WithSession(ctx, sess)

	if _, err := a.svc.RequestOTP(ctx, *email); err != nil {
		return err
	}
	frontdoor.FlowState{Email: sanitizer.NormalizeEmail(*email)}.Save(sess)
	fmt.Printf("A code was sent to %s.\n", sanitizer.MaskEmail(*email))

	code, err := prompt(os.Stdin, "Code: ")
	if err != nil {
		return err
	}

	flow := frontdoor.LoadFlow(sess)
	ok, err := a.svc.Verify(ctx, flow.Email, code)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("invalid or expired code")
	}
	frontdoor.ClearFlow(sess)

	return a.finish(ctx, sess)
}

func cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "address to register")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number (postgres driver)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("email is required")
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if !a.svc.RegistrationEnabled() {
		return frontdoor.ErrRegistrationNotSupported
	}

	sess, err := a.sessions.Start(ctx)
	if err != nil {
		return err
	}
	ctx = session.WithSession(ctx, sess)

	if _, err := a.svc.RequestEmailVerification(ctx, *email); err != nil {
		return err
	}
	frontdoor.FlowState{Email: sanitizer.NormalizeEmail(*email), Registering: true}.Save(sess)
	fmt.Printf("A code was sent to %s.\n", sanitizer.MaskEmail(*email))

	code, err := prompt(os.Stdin, "Code: ")
	if err != nil {
		return err
	}

	flow := frontdoor.LoadFlow(sess)
	ok, err := a.svc.VerifyEmailOnly(ctx, flow.Email, code)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("invalid or expired code")
	}
	flow.EmailVerified = true
	flow.Save(sess)

	data := map[string]any{"name": *name}
	if *phone != "" {
		data["phone"] = *phone
	}
	acct, err := a.svc.Register(ctx, flow.Email, data)
	if err != nil {
		return err
	}
	frontdoor.ClearFlow(sess)
	fmt.Printf("Registered %s (%s).\n", acct.Name, acct.ID)

	return a.finish(ctx, sess)
}

func cmdMigrate(ctx context.Context, _ []string) error {
	var cfg frontdoor.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	log := newLogger()

	switch cfg.AccountDriver {
	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		return pg.Migrate(ctx, pool, postgres.Migrations(), postgres.MigrationsDir, pgCfg, log)

	case "mongodb":
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return err
		}
		db, err := mongo.NewWithDatabase(ctx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Client().Disconnect(context.WithoutCancel(ctx)) }()
		return mongodb.EnsureIndexes(ctx, db.Collection(mongodb.DefaultCollection))
	}

	log.InfoContext(ctx, "nothing to migrate", "driver", cfg.AccountDriver)
	return nil
}

func cmdIndex(ctx context.Context, _ []string) error {
	var cfg opensearch.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	client, err := opensearch.New(ctx, cfg)
	if err != nil {
		return err
	}
	return opensearch.EnsureIndex(ctx, client, cfg.EventsIndex, events.IndexMapping)
}

func cmdKeygen() error {
	key, err := secrets.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Println(secrets.EncodeKey(key))
	return nil
}

func cmdDrivers() error {
	for _, name := range newRegistry(nil).Names() {
		fmt.Println(name)
	}
	return nil
}

func prompt(r io.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
