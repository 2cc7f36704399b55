package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
)

type stubCounter struct {
	counts customers.FollowUpCounts
}

func (s stubCounter) DashboardCounts(_ context.Context, _ time.Time) (customers.FollowUpCounts, error) {
	return s.counts, nil
}

type capturingMailer struct {
	sent []SendEmailPayload
}

func (m *capturingMailer) EnqueueSendEmail(_ context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error) {
	m.sent = append(m.sent, payload)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFollowUpDigestEnqueuesEmail(t *testing.T) {
	mailer := &capturingMailer{}
	job := NewFollowUpDigestJob(
		stubCounter{counts: customers.FollowUpCounts{Today: 3, Yesterday: 1, Missed: 2, Future: 5}},
		mailer, "sales@meridian.example", discardLogger(),
	)
	job.clock = func() time.Time {
		return time.Date(2026, 8, 23, 3, 0, 0, 0, time.UTC)
	}

	err := job.Handle(context.Background(), NewFollowUpDigestTask())
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "sales@meridian.example", mailer.sent[0].To)
	assert.Equal(t, "Follow-up digest for 23 Aug 2026", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "Follow-ups due today: 3")
	assert.Contains(t, mailer.sent[0].Body, "Missed: 2")
}

func TestFollowUpDigestWithoutRecipientOnlyLogs(t *testing.T) {
	mailer := &capturingMailer{}
	job := NewFollowUpDigestJob(stubCounter{}, mailer, "", discardLogger())

	err := job.Handle(context.Background(), NewFollowUpDigestTask())
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}
