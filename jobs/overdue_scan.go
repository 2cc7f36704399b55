package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// OverdueScanner flips past-due invoices and reports the affected IDs.
type OverdueScanner interface {
	OverdueScan(ctx context.Context, asOf time.Time) ([]int64, error)
}

// InvoiceOverdueScanJob runs the nightly overdue sweep.
type InvoiceOverdueScanJob struct {
	Invoices OverdueScanner
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewInvoiceOverdueScanJob initialises the overdue scan handler.
func NewInvoiceOverdueScanJob(invoices OverdueScanner, logger *slog.Logger) *InvoiceOverdueScanJob {
	return &InvoiceOverdueScanJob{
		Invoices: invoices,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the overdue scan.
func (j *InvoiceOverdueScanJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Invoices == nil {
		return errors.New("overdue scan: handler not configured")
	}
	start := j.clock()

	ids, err := j.Invoices.OverdueScan(ctx, start)
	if err != nil {
		j.Logger.Error("overdue scan failed", slog.Any("error", err))
		return err
	}

	j.Logger.Info("completed overdue scan",
		slog.Int("flipped", len(ids)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
