package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
)

// FollowUpCounter computes the dashboard follow-up counters.
type FollowUpCounter interface {
	DashboardCounts(ctx context.Context, now time.Time) (customers.FollowUpCounts, error)
}

// Mailer queues a transactional email for delivery.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// FollowUpDigestJob mails the morning follow-up summary to the sales team.
// With no recipient configured the digest is only logged.
type FollowUpDigestJob struct {
	Customers FollowUpCounter
	Mailer    Mailer
	Recipient string
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewFollowUpDigestJob initialises the digest handler.
func NewFollowUpDigestJob(customerSvc FollowUpCounter, mailer Mailer, recipient string, logger *slog.Logger) *FollowUpDigestJob {
	return &FollowUpDigestJob{
		Customers: customerSvc,
		Mailer:    mailer,
		Recipient: recipient,
		Logger:    logger,
		clock:     time.Now,
	}
}

// Handle executes the digest.
func (j *FollowUpDigestJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Customers == nil {
		return errors.New("followup digest: handler not configured")
	}
	now := j.clock()

	counts, err := j.Customers.DashboardCounts(ctx, now)
	if err != nil {
		j.Logger.Error("followup digest failed", slog.Any("error", err))
		return err
	}

	j.Logger.Info("follow-up digest",
		slog.Int("today", counts.Today),
		slog.Int("yesterday", counts.Yesterday),
		slog.Int("missed", counts.Missed),
		slog.Int("future", counts.Future),
	)

	if j.Mailer == nil || j.Recipient == "" {
		return nil
	}
	if _, err := j.Mailer.EnqueueSendEmail(ctx, digestEmail(j.Recipient, now, counts)); err != nil {
		j.Logger.Error("enqueue digest email", slog.Any("error", err))
		return err
	}
	return nil
}

func digestEmail(to string, now time.Time, counts customers.FollowUpCounts) SendEmailPayload {
	return SendEmailPayload{
		To:      to,
		Subject: fmt.Sprintf("Follow-up digest for %s", now.Format("02 Jan 2006")),
		Body: fmt.Sprintf(
			"Follow-ups due today: %d\nDue yesterday: %d\nMissed: %d\nScheduled ahead: %d\n",
			counts.Today, counts.Yesterday, counts.Missed, counts.Future,
		),
	}
}
