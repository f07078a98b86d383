// Command server wires the roster backend: PostgreSQL storage, the audit
// outbox with its Kafka relay, Redis notification dispatch and the HTTP
// surface. Business logic lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	auditpkg "canvass/internal/audit"
	auditoutbox "canvass/internal/audit/outbox"
	auditpg "canvass/internal/audit/store/postgres"
	auditworker "canvass/internal/audit/worker"
	campaignhandler "canvass/internal/campaign/handler"
	campaignservice "canvass/internal/campaign/service"
	campaignstore "canvass/internal/campaign/store"
	"canvass/internal/notify"
	"canvass/internal/platform/config"
	"canvass/internal/platform/httpserver"
	"canvass/internal/platform/logger"
	"canvass/internal/platform/metrics"
	platformredis "canvass/internal/platform/redis"
	"canvass/internal/roster/credential"
	rosterhandler "canvass/internal/roster/handler"
	rosterservice "canvass/internal/roster/service"
	rosterstore "canvass/internal/roster/store"
	httptransport "canvass/internal/transport/http"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := rosterstore.EnsureSchema(ctx, db); err != nil {
		return err
	}
	if err := campaignstore.EnsureSchema(ctx, db); err != nil {
		return err
	}
	if err := auditpg.EnsureSchema(ctx, db); err != nil {
		return err
	}

	// Roster audit events join the mutating transaction through the outbox
	// store; campaign events are administrative and go through the async
	// worker instead.
	auditStore := auditpg.New(db)
	worker := auditworker.New(auditStore, log)
	worker.Start()
	defer worker.Stop()

	roster := rosterstore.NewPostgres(db)
	creds, err := credential.New(roster, cfg.CredentialKey)
	if err != nil {
		return err
	}

	campaigns := campaignservice.New(campaignstore.NewPostgres(db),
		campaignservice.WithLogger(log),
		campaignservice.WithAuditPublisher(worker),
	)

	opts := []rosterservice.Option{
		rosterservice.WithLogger(log),
		rosterservice.WithAuditPublisher(auditpkg.NewPublisher(auditStore)),
		rosterservice.WithMetrics(metrics.New()),
		rosterservice.WithCampaignGate(campaigns),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, rosterservice.WithNotifier(
			notify.NewRedisDispatcher(redisClient.Client, cfg.Redis.Stream)))
	} else {
		log.Warn("redis not configured, notifications disabled")
	}

	service := rosterservice.New(rosterstore.NewSQLTx(db), roster, creds, opts...)

	router := httptransport.NewRouter(log,
		func(r *http.Request) error { return db.PingContext(r.Context()) },
		rosterhandler.New(service, log),
		campaignhandler.New(campaigns, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting canvass server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := auditoutbox.NewClient(cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		defer kafkaClient.Close()
		relay := auditoutbox.New(db, kafkaClient, cfg.Kafka.AuditTopic, log,
			auditoutbox.WithPollInterval(cfg.Kafka.PollInterval))
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Warn("kafka not configured, audit events stay in the outbox")
	}

	return g.Wait()
}
