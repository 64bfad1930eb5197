package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/daikazu/frontdoor"
	"github.com/daikazu/frontdoor/pkg/account"
	"github.com/daikazu/frontdoor/pkg/cache"
	"github.com/daikazu/frontdoor/pkg/config"
	"github.com/daikazu/frontdoor/pkg/email"
	"github.com/daikazu/frontdoor/pkg/events"
	"github.com/daikazu/frontdoor/pkg/logger"
	"github.com/daikazu/frontdoor/pkg/opensearch"
	"github.com/daikazu/frontdoor/pkg/otp"
	"github.com/daikazu/frontdoor/pkg/ratelimiter"
	"github.com/daikazu/frontdoor/pkg/redis"
	"github.com/daikazu/frontdoor/pkg/secrets"
	"github.com/daikazu/frontdoor/pkg/session"
)

// runtimeConfig selects infrastructure for this process only.
type runtimeConfig struct {
	Store            string `env:"FRONTDOOR_STORE" envDefault:"memory"` // memory or redis
	EventsOpenSearch bool   `env:"FRONTDOOR_EVENTS_OPENSEARCH" envDefault:"false"`
}

type app struct {
	cfg      frontdoor.Config
	log      *slog.Logger
	svc      *frontdoor.Service
	sessions *session.Manager
	kv       account.KV
	metrics  *sdkmetric.ManualReader
	closers  []func(context.Context) error
}

type stores struct {
	codes    otp.Store
	windows  ratelimiter.Store
	kv       account.KV
	sessions session.Store
}

func newLogger() *slog.Logger {
	withAccount := logger.WithContextExtractor(session.LogAccountID)

	var cfg logger.Config
	if err := config.Load(&cfg); err != nil {
		return logger.New(logger.WithDevelopment("frontdoor"), withAccount)
	}
	return logger.FromConfig(cfg, withAccount)
}

func newApp(ctx context.Context) (*app, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := config.LoadEnv(".env"); err != nil {
			return nil, err
		}
	}

	a := &app{log: newLogger()}
	if err := config.Load(&a.cfg); err != nil {
		return nil, err
	}
	appKey, err := secrets.ParseAppKey(a.cfg.AppKey)
	if err != nil {
		return nil, fmt.Errorf("FRONTDOOR_APP_KEY: %w", err)
	}

	var rt runtimeConfig
	if err := config.Load(&rt); err != nil {
		return nil, err
	}
	var sessCfg session.Config
	if err := config.Load(&sessCfg); err != nil {
		return nil, err
	}

	st, err := a.openStores(ctx, rt.Store, sessCfg)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.kv = st.kv

	sink, err := a.eventSink(ctx, rt.EventsOpenSearch)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	var otpCfg otp.Config
	if err := config.Load(&otpCfg); err != nil {
		a.close(ctx)
		return nil, err
	}
	codes, err := otp.NewManager(st.codes, ratelimiter.New(st.windows), appKey,
		otp.WithConfig(otpCfg),
		otp.WithEvents(sink),
		otp.WithLogger(a.log),
	)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	binding, err := bindAccounts(ctx, a)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	var mailCfg frontdoor.MailConfig
	if err := config.Load(&mailCfg); err != nil {
		a.close(ctx)
		return nil, err
	}
	mailer, err := a.newMailer(ctx, mailCfg, appKey)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	a.sessions, err = session.NewManager(st.sessions, session.WithConfig(sessCfg))
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	guard := session.NewGuard(a.sessions, session.WithEvents(sink), session.WithLogger(a.log))

	opts := []frontdoor.Option{
		frontdoor.WithRegistration(a.cfg.RegistrationEnabled),
		frontdoor.WithEvents(sink),
		frontdoor.WithLogger(a.log),
	}
	if mailCfg.Async {
		opts = append(opts, frontdoor.WithAsyncMail(), frontdoor.WithMailTimeout(mailCfg.AsyncTimeout))
	}
	a.svc, err = frontdoor.New(binding, codes, mailer, guard, opts...)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	return a, nil
}

func (a *app) openStores(ctx context.Context, backend string, sessCfg session.Config) (stores, error) {
	switch backend {
	case "memory":
		codes := otp.NewMemoryStore(time.Minute)
		windows := ratelimiter.NewMemoryStore()
		sessions := session.NewMemoryStore(sessCfg.CleanupInterval)
		a.closers = append(a.closers,
			func(context.Context) error { return codes.Close() },
			func(context.Context) error { windows.Close(); return nil },
			func(context.Context) error { return sessions.Close() },
		)
		return stores{codes: codes, windows: windows, kv: cache.NewStore(1000), sessions: sessions}, nil

	case "redis":
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return stores{}, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return stores{
			codes:    otp.NewRedisStore(client),
			windows:  ratelimiter.NewRedisStore(client),
			kv:       redis.NewStorage(client, redis.WithScanBatchSize(cfg.ScanBatchSize)),
			sessions: session.NewRedisStore(client),
		}, nil
	}
	return stores{}, fmt.Errorf("unknown FRONTDOOR_STORE %q (memory, redis)", backend)
}

func (a *app) eventSink(ctx context.Context, withOpenSearch bool) (events.Sink, error) {
	a.metrics = sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(a.metrics))
	a.closers = append(a.closers, provider.Shutdown)

	counter, err := events.NewMetricsSink(provider.Meter("github.com/daikazu/frontdoor"))
	if err != nil {
		return nil, err
	}
	sinks := []events.Sink{events.NewLogSink(a.log), counter}

	if withOpenSearch {
		var cfg opensearch.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := opensearch.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		indexer := events.NewOpenSearchSink(client,
			events.WithIndex(cfg.EventsIndex),
			events.WithSinkLogger(a.log),
		)
		a.closers = append(a.closers, indexer.Close)
		sinks = append(sinks, indexer)
	}

	return events.Multi(sinks...), nil
}

func (a *app) newMailer(ctx context.Context, cfg frontdoor.MailConfig, appKey []byte) (frontdoor.Mailer, error) {
	var emailCfg email.Config
	if err := config.Load(&emailCfg); err != nil {
		return nil, err
	}

	var sender email.EmailSender
	if emailCfg.Enabled() {
		client, err := email.NewPostmarkClient(emailCfg)
		if err != nil {
			return nil, err
		}
		sender = client
	} else {
		a.log.InfoContext(ctx, "postmark not configured, writing mail to disk", "dir", emailCfg.DevOutputDir)
		sender = email.NewDevSender(emailCfg.DevOutputDir, email.WithDevLogger(a.log))
	}

	var archiveCfg email.ArchiveConfig
	if err := config.Load(&archiveCfg); err != nil {
		return nil, err
	}
	if archiveCfg.Bucket != "" {
		archive, err := email.NewS3ArchiveSender(ctx, archiveCfg, appKey,
			email.WithArchiveNext(sender),
			email.WithArchiveLogger(a.log),
		)
		if err != nil {
			return nil, err
		}
		sender = archive
	}

	return frontdoor.NewTemplateMailer(sender, cfg)
}

// finish persists the session and prints who is signed in.
func (a *app) finish(ctx context.Context, sess *session.Session) error {
	if err := a.sessions.Save(ctx, sess); err != nil {
		return err
	}
	current, err := a.svc.Current(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		return errors.New("not signed in")
	}
	fmt.Printf("Signed in as %s <%s>.\nSession token: %s\n", current.Name, current.Email, sess.Token)
	return nil
}

func (a *app) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if a.svc != nil {
		if err := a.svc.Wait(ctx); err != nil {
			a.log.WarnContext(ctx, "pending mail not delivered", logger.Error(err))
		}
	}
	a.reportEvents(ctx)

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.WarnContext(ctx, "shutdown", logger.Error(err))
		}
	}
	a.closers = nil
}

// reportEvents logs the event counters gathered during this run.
func (a *app) reportEvents(ctx context.Context) {
	if a.metrics == nil {
		return
	}
	var rm metricdata.ResourceMetrics
	if err := a.metrics.Collect(ctx, &rm); err != nil {
		a.log.DebugContext(ctx, "collect metrics", logger.Error(err))
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || m.Name != events.MetricName {
				continue
			}
			for _, dp := range sum.DataPoints {
				typ, _ := dp.Attributes.Value("type")
				a.log.DebugContext(ctx, "event count", logger.EventType(typ.AsString()), "count", dp.Value)
			}
		}
	}
}
