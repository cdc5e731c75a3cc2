package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"apexcrm/internal/models"
)

type MockOverdueLister struct {
	mock.Mock
}

func (m *MockOverdueLister) ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]models.Deal, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deal), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func fixedJob(lister OverdueLister, notifier *MockNotifier, now time.Time) *OverdueJob {
	j := NewOverdueJob(lister, notifier, 10, nil)
	j.now = func() time.Time { return now }
	return j
}

func TestOverdueJobSendsDigest(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	due, _ := models.ParseDate("2024-05-20")
	deals := []models.Deal{
		{ID: 1, Title: "Cloud Migration", Customer: "Beta Inc", Stage: models.StageProposal, Value: 12000, ExpectedCloseDate: due},
		{ID: 2, Title: "Support Renewal", Customer: "Gamma", Stage: models.StageLead, Value: 3000, ExpectedCloseDate: due},
	}

	lister := new(MockOverdueLister)
	lister.On("ListOverdue", mock.Anything, now, 10).Return(deals, nil)
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.KindOverdue && n.Title == "2 overdue deals" && n.ID != ""
	})).Return(nil)

	count, err := fixedJob(lister, notifier, now).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	lister.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestOverdueJobNothingDue(t *testing.T) {
	now := time.Now()
	lister := new(MockOverdueLister)
	lister.On("ListOverdue", mock.Anything, now, 10).Return([]models.Deal{}, nil)
	notifier := new(MockNotifier)

	count, err := fixedJob(lister, notifier, now).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestOverdueJobErrors(t *testing.T) {
	now := time.Now()

	lister := new(MockOverdueLister)
	lister.On("ListOverdue", mock.Anything, now, 10).Return(nil, errors.New("db down"))
	_, err := fixedJob(lister, new(MockNotifier), now).RunOnce(context.Background())
	assert.ErrorContains(t, err, "list overdue deals")

	lister = new(MockOverdueLister)
	lister.On("ListOverdue", mock.Anything, now, 10).Return([]models.Deal{{ID: 1, Title: "X"}}, nil)
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	count, err := fixedJob(lister, notifier, now).RunOnce(context.Background())
	assert.ErrorContains(t, err, "notify overdue deals")
	assert.Equal(t, 1, count)
}

func TestOverdueDigest(t *testing.T) {
	due, _ := models.ParseDate("2024-05-20")
	got := OverdueDigest([]models.Deal{
		{Title: "A", Customer: "Acme", ExpectedCloseDate: due, Stage: models.StageLead, Value: 1500},
		{Title: "B", Customer: "Beta", ExpectedCloseDate: due, Stage: models.StageNegotiation, Value: 20},
	})
	assert.Equal(t, "A (Acme): due 2024-05-20, stage lead, $1500\nB (Beta): due 2024-05-20, stage negotiation, $20", got)
}

func TestSchedulerAdd(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.Add("noop", "", cron.FuncJob(func() {})))
	require.NoError(t, s.Add("hourly", "@hourly", cron.FuncJob(func() {})))
	assert.Error(t, s.Add("broken", "not a spec", cron.FuncJob(func() {})))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
