package workers

import (
	"context"
	"log/slog"

	application "solutionshub/contexts/finance-core/payment-settlement/application"
	"solutionshub/contexts/finance-core/payment-settlement/application/commands"
)

// SweepJob wraps the settlement sweep for the worker loop. The loop owns
// the timer; the core only exposes one finite batch per invocation.
type SweepJob struct {
	Commands commands.UseCase
	Logger   *slog.Logger
}

func (j SweepJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	result, err := j.Commands.RunSettlementSweep(ctx)
	if err != nil {
		logger.Error("settlement sweep cycle failed",
			"event", "settlement_sweep_cycle_failed",
			"module", "finance-core/payment-settlement",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if result.Processed > 0 || len(result.Failures) > 0 {
		logger.Info("settlement sweep cycle completed",
			"event", "settlement_sweep_cycle_completed",
			"module", "finance-core/payment-settlement",
			"layer", "worker",
			"processed_count", result.Processed,
			"flagged_count", result.Flagged,
			"failure_count", len(result.Failures),
		)
	}
	return nil
}
