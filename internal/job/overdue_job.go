package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"apexcrm/internal/models"
	"apexcrm/internal/services"
)

// OverdueLister is the part of the deal repository the job needs.
type OverdueLister interface {
	ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]models.Deal, error)
}

// OverdueJob finds open deals whose expected close date has passed and sends
// a single digest notification.
type OverdueJob struct {
	deals    OverdueLister
	notifier services.Notifier
	limit    int
	now      func() time.Time
	timeout  time.Duration
	logger   *zap.Logger
}

func NewOverdueJob(deals OverdueLister, notifier services.Notifier, limit int, logger *zap.Logger) *OverdueJob {
	if limit <= 0 {
		limit = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueJob{
		deals:    deals,
		notifier: notifier,
		limit:    limit,
		now:      time.Now,
		timeout:  30 * time.Second,
		logger:   logger,
	}
}

// Run implements cron.Job.
func (j *OverdueJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("overdue job failed", zap.Error(err))
	}
}

// RunOnce performs one pass and returns how many overdue deals were reported.
func (j *OverdueJob) RunOnce(ctx context.Context) (int, error) {
	asOf := j.now()
	deals, err := j.deals.ListOverdue(ctx, asOf, j.limit)
	if err != nil {
		return 0, fmt.Errorf("list overdue deals: %w", err)
	}
	if len(deals) == 0 {
		j.logger.Debug("no overdue deals")
		return 0, nil
	}

	n := services.NewNotification(models.KindOverdue, models.LevelInfo,
		fmt.Sprintf("%d overdue deals", len(deals)), OverdueDigest(deals))
	if err := j.notifier.Notify(ctx, n); err != nil {
		return len(deals), fmt.Errorf("notify overdue deals: %w", err)
	}
	j.logger.Info("overdue digest sent", zap.Int("count", len(deals)))
	return len(deals), nil
}

// OverdueDigest renders one line per deal.
func OverdueDigest(deals []models.Deal) string {
	var b strings.Builder
	for i, d := range deals {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%s): due %s, stage %s, $%.0f",
			d.Title, d.Customer, d.ExpectedCloseDate, d.Stage, d.Value)
	}
	return b.String()
}
