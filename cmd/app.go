package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/client"
	"github.com/praekeltfoundation/hellomama-registration/internal/config"
	"github.com/praekeltfoundation/hellomama-registration/internal/database"
	"github.com/praekeltfoundation/hellomama-registration/internal/handler"
	"github.com/praekeltfoundation/hellomama-registration/internal/messageset"
	"github.com/praekeltfoundation/hellomama-registration/internal/metrics"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
	"github.com/praekeltfoundation/hellomama-registration/internal/repository"
	"github.com/praekeltfoundation/hellomama-registration/internal/service"
	"github.com/praekeltfoundation/hellomama-registration/internal/validate"
)

type registrationStore interface {
	handler.Registrations
	Save(ctx context.Context, reg *model.Registration) error
}

// app holds the wired layers shared by every command.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Metrics

	db    *pgxpool.Pool
	redis *redis.Client

	regs     registrationStore
	requests service.SubscriptionRequestStore
	sbm      *client.StageBasedMessaging
	lookup   service.MessageSetLookup
	svc      *service.RegistrationService
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger, memory bool) (*app, error) {
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}

	// ── 1. Storage ───────────────────────────────────────────────────────
	if memory {
		a.regs = repository.NewMemoryRegistrations()
		a.requests = repository.NewMemorySubscriptionRequests()
		log.Warn("using in-memory storage, data is lost on exit")
	} else {
		pool, err := database.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		a.db = pool
		a.regs = repository.NewRegistrationRepository(pool)
		a.requests = repository.NewSubscriptionRequestRepository(pool)
	}

	// ── 2. Collaborators ─────────────────────────────────────────────────
	opts := []client.Option{
		client.WithTimeout(cfg.Services.RequestTimeout),
		client.WithMaxTries(cfg.Services.MaxTries),
		client.WithLogger(log),
		client.WithMetrics(a.metrics),
	}
	s := cfg.Services
	a.sbm = client.NewStageBasedMessaging(s.StageBasedMessagingURL, s.StageBasedMessagingToken, opts...)
	identities := client.NewIdentityStore(s.IdentityStoreURL, s.IdentityStoreToken, opts...)
	sender := client.NewMessageSender(s.MessageSenderURL, s.MessageSenderToken, opts...)

	a.lookup = a.sbm
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(redisOpts)
		a.lookup = messageset.NewCache(a.redis, a.sbm, s.DescriptorCacheTTL, log)
		log.Info("descriptor cache enabled", zap.Duration("ttl", s.DescriptorCacheTTL))
	}

	// ── 3. Service ───────────────────────────────────────────────────────
	svc, err := service.NewRegistrationService(service.Deps{
		Registrations: a.regs,
		Requests:      a.requests,
		MessageSets:   a.lookup,
		Addresses:     identities,
		Sender:        sender,
		Validator:     validate.New(cfg.Rules, time.Now),
		Welcome:       service.NewWelcome(cfg.Welcome),
		Logger:        log,
		Metrics:       a.metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.svc = svc
	return a, nil
}

func (a *app) verifier() *service.ScheduleVerifier {
	return service.NewScheduleVerifier(a.regs, a.requests, a.lookup, a.sbm, a.log)
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
