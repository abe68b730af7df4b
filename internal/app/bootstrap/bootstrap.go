package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	approvalgate "solutionshub/contexts/finance-core/approval-gate"
	approvalpostgres "solutionshub/contexts/finance-core/approval-gate/adapters/postgres"
	paymentsettlement "solutionshub/contexts/finance-core/payment-settlement"
	settlementpostgres "solutionshub/contexts/finance-core/payment-settlement/adapters/postgres"
	settlementworkers "solutionshub/contexts/finance-core/payment-settlement/application/workers"
	"solutionshub/internal/platform/config"
	"solutionshub/internal/platform/db"
	"solutionshub/internal/platform/httpserver"
	"solutionshub/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	sweep         settlementworkers.SweepJob
	outboxRelay   settlementworkers.OutboxRelay
	sweepInterval time.Duration
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := settlementpostgres.NewRepository(pg.DB, logger)
	settlement := paymentsettlement.NewModule(paymentsettlement.Dependencies{
		Payments:        repo,
		Ledger:          repo,
		Policies:        repo,
		Outbox:          repo,
		Clock:           settlementpostgres.SystemClock{},
		IDGenerator:     settlementpostgres.UUIDGenerator{},
		SettlementDelay: cfg.SettlementDelay,
		Logger:          logger,
	})

	approvalRepo := approvalpostgres.NewRepository(pg.DB, logger)
	approval := approvalgate.NewModule(approvalgate.Dependencies{
		Directory: approvalRepo,
		Threshold: cfg.ApprovalThreshold,
		Logger:    logger,
	})

	server := httpserver.New(settlement, approval, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := settlementpostgres.NewRepository(pg.DB, logger)
	settlement := paymentsettlement.NewModule(paymentsettlement.Dependencies{
		Payments:        repo,
		Ledger:          repo,
		Policies:        repo,
		Outbox:          repo,
		Clock:           settlementpostgres.SystemClock{},
		IDGenerator:     settlementpostgres.UUIDGenerator{},
		SettlementDelay: cfg.SettlementDelay,
		Logger:          logger,
	})

	return &WorkerApp{
		postgres: pg,
		sweep: settlementworkers.SweepJob{
			Commands: settlement.Handler.Commands,
			Logger:   logger,
		},
		outboxRelay: settlementworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     settlementpostgres.SystemClock{},
			Topic:     "finance.settlement",
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		sweepInterval: cfg.SweepInterval,
		pollInterval:  2 * time.Second,
		logger:        logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run drives two cadences off one loop: the outbox relay drains on every
// poll tick, the settlement sweep only when its interval has elapsed.
func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"sweep_interval", w.sweepInterval.String(),
	)

	lastSweep := time.Time{}
	for {
		if time.Since(lastSweep) >= w.sweepInterval {
			if err := w.sweep.RunOnce(ctx); err != nil {
				return err
			}
			lastSweep = time.Now()
		}
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
