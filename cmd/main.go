// cmd/main.go is the application entry point.
// It wires together all layers and exposes the service commands.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/config"
	"github.com/praekeltfoundation/hellomama-registration/internal/database"
	"github.com/praekeltfoundation/hellomama-registration/internal/handler"
	"github.com/praekeltfoundation/hellomama-registration/internal/logger"
	"github.com/praekeltfoundation/hellomama-registration/internal/messageset"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
	"github.com/praekeltfoundation/hellomama-registration/internal/service"
	"github.com/praekeltfoundation/hellomama-registration/internal/validate"
	"github.com/praekeltfoundation/hellomama-registration/internal/worker"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hellomama-registration",
		Short:        "Registration validation and subscription service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newValidateCmd(), newVerifyScheduleCmd())
	return root
}

// setup loads the configuration and builds the logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newServeCmd() *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the validation workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log, memory)
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "keep registrations in memory instead of PostgreSQL")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger, memory bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Wire up layers ────────────────────────────────────────────────
	a, err := newApp(ctx, cfg, log, memory)
	if err != nil {
		return err
	}
	defer a.Close()

	// ── 2. Validation workers ────────────────────────────────────────────
	pool := worker.NewPool(cfg.Worker, func(ctx context.Context, id string) error {
		_, err := a.svc.ValidateAndSubscribe(ctx, id)
		if errors.Is(err, service.ErrRegistrationNotFound) {
			log.Warn("dropping task for unknown registration", zap.String("registration_id", id))
			return nil
		}
		return err
	}, log, a.metrics)
	pool.Start(ctx)
	defer pool.Close()

	var queue worker.Submitter = pool
	if cfg.Kafka.Enabled() {
		producer, err := worker.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }()

		consumer, err := worker.NewKafkaConsumer(cfg.Kafka, pool, log)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := consumer.Stop(); err != nil {
				log.Warn("stop kafka consumer", zap.Error(err))
			}
		}()
		queue = producer
	}

	// ── 3. Build the router ───────────────────────────────────────────────
	h := handler.NewRegistrationHandler(a.regs, a.requests, a.svc, queue, log)
	router := handler.NewRouter(h, log, promhttp.Handler())

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.Database.URL(), log)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.Database.URL(), steps, log)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <registration-id>",
		Short: "Validate one registration now and create its subscription requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.ValidateAndSubscribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, model.ValidationResult{
				RegistrationID: args[0],
				Status:         res.Status,
				Message:        res.Message,
				Created:        res.Created,
			})
		},
	}
}

func newVerifyScheduleCmd() *cobra.Command {
	var (
		today string
		fix   bool
	)
	cmd := &cobra.Command{
		Use:   "verify-schedule <registration-id> <mother|household>",
		Short: "Check pending subscription requests start at the right message",
		Long: "Recomputes the next sequence number a registration's stream would start at " +
			"on --today and reports requests that differ. With --fix they are rewritten. " +
			"Refuses when the mother already has subscriptions in the messaging service.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := verifyFlags{Recipient: args[1], Today: today, Fix: fix}
			vo, err := opts.parse()
			if err != nil {
				return err
			}
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.verifier().Verify(cmd.Context(), args[0], vo)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "reference date as YYYYMMDD (default today)")
	cmd.Flags().BoolVar(&fix, "fix", false, "rewrite mismatched sequence numbers")
	return cmd
}

// verifyFlags are the raw verify-schedule arguments.
type verifyFlags struct {
	Recipient string
	Today     string
	Fix       bool
}

func (f verifyFlags) parse() (service.VerifyOptions, error) {
	opts := service.VerifyOptions{Recipient: messageset.Recipient(f.Recipient), Fix: f.Fix}
	switch opts.Recipient {
	case messageset.RecipientMother, messageset.RecipientHousehold:
	default:
		return opts, fmt.Errorf("recipient must be mother or household, got %q", f.Recipient)
	}
	if f.Today == "" {
		opts.Today = time.Now().UTC()
		return opts, nil
	}
	t, err := validate.ParseDate(f.Today)
	if err != nil {
		return opts, fmt.Errorf("--today: %w", err)
	}
	opts.Today = t
	return opts, nil
}
