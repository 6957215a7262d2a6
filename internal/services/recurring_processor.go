package services

import (
	"context"
	"log/slog"
	"time"
)

// RecurringProcessor runs the recurring materialization on a fixed
// interval. The ledger guards idempotency per month, so overlapping
// schedules (in-process ticker plus the standalone worker) stay safe.
type RecurringProcessor struct {
	service  *LedgerService
	interval time.Duration
}

func NewRecurringProcessor(service *LedgerService, interval time.Duration) *RecurringProcessor {
	return &RecurringProcessor{service: service, interval: interval}
}

// Run processes once immediately, then on every tick until ctx is done.
func (p *RecurringProcessor) Run(ctx context.Context) error {
	p.processOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping recurring processor", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			p.processOnce(ctx)
		}
	}
}

func (p *RecurringProcessor) processOnce(ctx context.Context) {
	result, err := p.service.ProcessRecurring(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "Recurring processing failed", "error", err)
		return
	}
	if result.Count() > 0 || len(result.Orphaned) > 0 {
		slog.InfoContext(ctx, "Recurring processing run finished",
			"created", result.Count(),
			"orphaned", len(result.Orphaned))
	}
}
