package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"apexcrm/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockStore is a func-field implementation of Store.
type MockStore struct {
	mu      sync.Mutex
	lists   []models.DealFilter
	creates []models.Deal
	updates []models.Deal
	deletes []int64

	ListFunc   func(ctx context.Context, filter models.DealFilter, page models.Page) (*models.ListResult[models.Deal], error)
	CreateFunc func(ctx context.Context, d *models.Deal) (*models.Deal, error)
	UpdateFunc func(ctx context.Context, d *models.Deal) (*models.Deal, error)
	DeleteFunc func(ctx context.Context, id int64) error
}

func (m *MockStore) List(ctx context.Context, filter models.DealFilter, page models.Page) (*models.ListResult[models.Deal], error) {
	m.mu.Lock()
	m.lists = append(m.lists, filter)
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page)
	}
	return models.EmptyResult[models.Deal](), nil
}

func (m *MockStore) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	m.mu.Lock()
	m.creates = append(m.creates, *d)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, d)
	}
	out := *d
	out.ID = 100
	return &out, nil
}

func (m *MockStore) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	m.mu.Lock()
	m.updates = append(m.updates, *d)
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, d)
	}
	out := *d
	return &out, nil
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.deletes = append(m.deletes, id)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) counts() (lists, creates, updates, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lists), len(m.creates), len(m.updates), len(m.deletes)
}

func listOf(deals ...models.Deal) func(context.Context, models.DealFilter, models.Page) (*models.ListResult[models.Deal], error) {
	return func(context.Context, models.DealFilter, models.Page) (*models.ListResult[models.Deal], error) {
		return &models.ListResult[models.Deal]{Data: deals, Total: len(deals)}, nil
	}
}

var errQueueFull = errors.New("queue full")

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
	// reject makes Emit fail for frames of this type.
	reject string
}

func (r *frameRecorder) Emit(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reject != "" && f.Type == r.reject {
		return errQueueFull
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *frameRecorder) prompts() []ConfirmPrompt {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ConfirmPrompt
	for _, f := range r.frames {
		if f.Type == FrameConfirmRequired {
			out = append(out, f.Payload.(ConfirmPrompt))
		}
	}
	return out
}

func (r *frameRecorder) lastBoard() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.frames) - 1; i >= 0; i-- {
		if r.frames[i].Type == FrameBoard {
			return r.frames[i].Payload.(Snapshot), true
		}
	}
	return Snapshot{}, false
}

func (r *frameRecorder) toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Toast
	for _, f := range r.frames {
		if f.Type == FrameToast {
			out = append(out, f.Payload.(Toast))
		}
	}
	return out
}

func (r *frameRecorder) hasFrame(typ string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.frames {
		if f.Type == typ {
			return true
		}
	}
	return false
}

func (r *frameRecorder) hasToast(level, msg string) bool {
	for _, t := range r.toasts() {
		if t.Level == level && t.Message == msg {
			return true
		}
	}
	return false
}

type countingRecorder struct {
	mu        sync.Mutex
	committed int
	rolled    int
}

func (c *countingRecorder) MoveCommitted(models.Stage, models.Stage) {
	c.mu.Lock()
	c.committed++
	c.mu.Unlock()
}

func (c *countingRecorder) MoveRolledBack(models.Stage) {
	c.mu.Lock()
	c.rolled++
	c.mu.Unlock()
}

func startSession(t *testing.T, store Store, opts ...Option) (*Session, *frameRecorder) {
	t.Helper()
	return startSessionWith(t, store, &frameRecorder{}, opts...)
}

func startSessionWith(t *testing.T, store Store, out *frameRecorder, opts ...Option) (*Session, *frameRecorder) {
	t.Helper()
	opts = append([]Option{WithDebounce(0), WithClock(func() time.Time { return today })}, opts...)
	s := NewSession(store, out, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, out
}

func column(snap Snapshot, stage models.Stage) Column {
	for _, c := range snap.Columns {
		if c.Stage.ID == stage {
			return c
		}
	}
	return Column{}
}

func waitLoaded(t *testing.T, out *frameRecorder, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap, ok := out.lastBoard()
		if !ok {
			return false
		}
		count := 0
		for _, c := range snap.Columns {
			count += len(c.Cards)
		}
		return count == n
	}, time.Second, 5*time.Millisecond)
}

const (
	eventually = time.Second
	tick       = 5 * time.Millisecond
)

func waitPrompt(t *testing.T, out *frameRecorder) ConfirmPrompt {
	t.Helper()
	require.Eventually(t, func() bool { return len(out.prompts()) > 0 }, eventually, tick)
	p := out.prompts()
	return p[len(p)-1]
}

func TestSessionDropScenario(t *testing.T) {
	store := &MockStore{ListFunc: listOf(models.Deal{ID: 1, Title: "Deal One", Stage: models.StageLead, Value: 1000, Probability: 20})}
	rec := &countingRecorder{}
	s, out := startSession(t, store, WithRecorder(rec))

	s.Post(Load{})
	waitLoaded(t, out, 1)

	s.Post(DragStart{DealID: 1})
	s.Post(Drop{Stage: models.StageProposal})

	require.Eventually(t, func() bool {
		return out.hasToast(ToastSuccess, "Moved Deal One to Proposal stage")
	}, eventually, tick)

	store.mu.Lock()
	require.Len(t, store.updates, 1)
	persisted := store.updates[0]
	store.mu.Unlock()
	assert.Equal(t, int64(1), persisted.ID)
	assert.Equal(t, models.StageProposal, persisted.Stage)
	assert.Equal(t, 60, persisted.Probability)
	assert.Equal(t, 1000.0, persisted.Value)

	snap, _ := out.lastBoard()
	assert.Equal(t, 1000.0, column(snap, models.StageProposal).Total)
	assert.Zero(t, column(snap, models.StageLead).Total)
	assert.Nil(t, snap.Dragging)

	rec.mu.Lock()
	assert.Equal(t, 1, rec.committed)
	rec.mu.Unlock()
}

func TestSessionDropOnNegotiationSetsEighty(t *testing.T) {
	store := &MockStore{ListFunc: listOf(models.Deal{ID: 4, Title: "X", Stage: models.StageLead, Probability: 3})}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 1)

	s.Post(DragStart{DealID: 4})
	s.Post(Drop{Stage: models.StageNegotiation})
	require.Eventually(t, func() bool {
		snap, _ := out.lastBoard()
		cards := column(snap, models.StageNegotiation).Cards
		return len(cards) == 1 && cards[0].Probability == 80
	}, eventually, tick)
}

func TestSessionFailedMoveRollsBack(t *testing.T) {
	release := make(chan struct{})
	store := &MockStore{
		ListFunc: listOf(models.Deal{ID: 1, Title: "Deal One", Stage: models.StageLead, Value: 1000, Probability: 20}),
		UpdateFunc: func(ctx context.Context, d *models.Deal) (*models.Deal, error) {
			<-release
			return nil, errors.New("rejected")
		},
	}
	rec := &countingRecorder{}
	s, out := startSession(t, store, WithRecorder(rec))
	s.Post(Load{})
	waitLoaded(t, out, 1)

	s.Post(DragStart{DealID: 1})
	s.Post(Drop{Stage: models.StageClosed})

	require.Eventually(t, func() bool {
		snap, _ := out.lastBoard()
		cards := column(snap, models.StageLead).Cards
		return len(cards) == 1 && cards[0].Pending
	}, eventually, tick, "pending move keeps the card in its old column")
	snap, _ := out.lastBoard()
	assert.Empty(t, column(snap, models.StageClosed).Cards)

	close(release)
	require.Eventually(t, func() bool {
		return out.hasToast(ToastError, "Failed to move Deal One")
	}, eventually, tick)

	snap, _ = out.lastBoard()
	cards := column(snap, models.StageLead).Cards
	require.Len(t, cards, 1)
	assert.False(t, cards[0].Pending)
	assert.Equal(t, 20, cards[0].Probability)
	rec.mu.Lock()
	assert.Equal(t, 1, rec.rolled)
	assert.Zero(t, rec.committed)
	rec.mu.Unlock()
}

func TestSessionOlderMoveSucceedsNewerFails(t *testing.T) {
	releaseFirst := make(chan struct{})
	store := &MockStore{
		ListFunc: listOf(models.Deal{ID: 1, Title: "Deal One", Stage: models.StageLead, Value: 1000, Probability: 20}),
		UpdateFunc: func(ctx context.Context, d *models.Deal) (*models.Deal, error) {
			if d.Stage == models.StageProposal {
				<-releaseFirst
				out := *d
				return &out, nil
			}
			return nil, errors.New("rejected")
		},
	}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 1)

	s.Post(DragStart{DealID: 1})
	s.Post(Drop{Stage: models.StageProposal})
	s.Post(DragStart{DealID: 1})
	s.Post(Drop{Stage: models.StageNegotiation})
	require.Eventually(t, func() bool {
		return out.hasToast(ToastError, "Failed to move Deal One")
	}, eventually, tick)

	close(releaseFirst)
	require.Eventually(t, func() bool {
		snap, _ := out.lastBoard()
		cards := column(snap, models.StageProposal).Cards
		return len(cards) == 1 && !cards[0].Pending
	}, eventually, tick, "board shows the stage the store holds")
	snap, _ := out.lastBoard()
	assert.Empty(t, column(snap, models.StageLead).Cards)
	assert.Empty(t, column(snap, models.StageNegotiation).Cards)
}

func TestSessionDropMissingDealIssuesNoRequest(t *testing.T) {
	store := &MockStore{ListFunc: listOf(models.Deal{ID: 1, Stage: models.StageLead})}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 1)

	s.Post(DragStart{DealID: 42})
	s.Post(Drop{Stage: models.StageClosed})
	s.Post(Load{})
	require.Eventually(t, func() bool {
		lists, _, _, _ := store.counts()
		return lists == 2
	}, eventually, tick)
	_, _, updates, _ := store.counts()
	assert.Zero(t, updates)
}

func TestSessionFetchFailureDegradesToEmpty(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	store := &MockStore{ListFunc: func(ctx context.Context, f models.DealFilter, p models.Page) (*models.ListResult[models.Deal], error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return listOf(models.Deal{ID: 1, Stage: models.StageLead})(ctx, f, p)
		}
		return nil, errors.New("network down")
	}}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 1)

	s.Post(Load{})
	require.Eventually(t, func() bool {
		return out.hasToast(ToastError, "Failed to load deals")
	}, eventually, tick)
	waitLoaded(t, out, 0)
}

func TestSessionSearchDebounceCoalesces(t *testing.T) {
	store := &MockStore{}
	s, out := startSession(t, store, WithDebounce(30*time.Millisecond))

	for _, q := range []string{"a", "ac", "acm", "acme"} {
		s.Post(SearchInput{Query: q})
	}
	require.Eventually(t, func() bool {
		lists, _, _, _ := store.counts()
		return lists == 1
	}, eventually, tick)
	time.Sleep(100 * time.Millisecond)

	store.mu.Lock()
	require.Len(t, store.lists, 1)
	assert.Empty(t, store.lists[0].Search, "query narrows cards locally")
	store.mu.Unlock()

	snap, _ := out.lastBoard()
	assert.Equal(t, "acme", snap.Query)
}

func TestSessionStaleSearchDiscarded(t *testing.T) {
	releaseOld := make(chan struct{})
	oldReturned := make(chan struct{})
	var (
		mu    sync.Mutex
		calls int
	)
	store := &MockStore{ListFunc: func(ctx context.Context, f models.DealFilter, p models.Page) (*models.ListResult[models.Deal], error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			<-releaseOld
			defer close(oldReturned)
			return listOf(models.Deal{ID: 1, Title: "old result", Stage: models.StageLead})(ctx, f, p)
		}
		return listOf(models.Deal{ID: 2, Title: "new result", Stage: models.StageLead})(ctx, f, p)
	}}
	s, out := startSession(t, store, WithDebounce(10*time.Millisecond))

	s.Post(SearchInput{Query: "result"})
	require.Eventually(t, func() bool {
		lists, _, _, _ := store.counts()
		return lists == 1
	}, eventually, tick)

	s.Post(SearchInput{Query: "res"})
	require.Eventually(t, func() bool {
		snap, _ := out.lastBoard()
		cards := column(snap, models.StageLead).Cards
		return len(cards) == 1 && cards[0].ID == 2
	}, eventually, tick)

	close(releaseOld)
	<-oldReturned
	assert.Never(t, func() bool {
		snap, _ := out.lastBoard()
		cards := column(snap, models.StageLead).Cards
		return len(cards) == 1 && cards[0].ID == 1
	}, 100*time.Millisecond, tick, "last issued search wins")
}

func TestSessionSearchKeepsTotalsOfAllDeals(t *testing.T) {
	store := &MockStore{ListFunc: listOf(
		models.Deal{ID: 1, Title: "Acme renewal", Stage: models.StageLead, Value: 1000},
		models.Deal{ID: 2, Title: "Globex rollout", Stage: models.StageLead, Value: 5000},
	)}
	s, out := startSession(t, store, WithDebounce(10*time.Millisecond))
	s.Post(Load{})
	waitLoaded(t, out, 2)

	s.Post(SearchInput{Query: "acme"})
	require.Eventually(t, func() bool {
		lists, _, _, _ := store.counts()
		return lists == 2
	}, eventually, tick)
	// the board frame emitted after the debounced fetch
	require.Eventually(t, func() bool {
		out.mu.Lock()
		defer out.mu.Unlock()
		boards := 0
		for _, f := range out.frames {
			if f.Type == FrameBoard {
				boards++
			}
		}
		return boards >= 3
	}, eventually, tick)

	snap, _ := out.lastBoard()
	lead := column(snap, models.StageLead)
	require.Len(t, lead.Cards, 1)
	assert.Equal(t, int64(1), lead.Cards[0].ID)
	assert.Equal(t, 6000.0, snap.TotalValue)
	assert.Equal(t, 6000.0, lead.Total)
}

func TestSessionLocalFilterIsImmediate(t *testing.T) {
	store := &MockStore{ListFunc: listOf(sampleDeals()...)}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 6)

	s.Post(SearchInput{Query: "global"})
	require.Eventually(t, func() bool {
		snap, _ := out.lastBoard()
		return snap.Query == "global" && len(column(snap, models.StageProposal).Cards) == 1 &&
			len(column(snap, models.StageLead).Cards) == 0
	}, eventually, tick)
}

func TestSessionCreateInvalidValue(t *testing.T) {
	store := &MockStore{}
	s, out := startSession(t, store)

	d := validDraft()
	d.Value = "abc"
	s.Post(OpenForm{})
	s.Post(SubmitForm{Draft: &d})

	require.Eventually(t, func() bool { return out.hasFrame(FrameFormErrors) }, eventually, tick)
	snap, _ := out.lastBoard()
	assert.Equal(t, "Deal value must be a number", snap.FormErrors["value"])
	assert.True(t, snap.FormOpen)
	_, creates, _, _ := store.counts()
	assert.Zero(t, creates)
}

func TestSessionCreateValid(t *testing.T) {
	store := &MockStore{}
	s, out := startSession(t, store)

	d := validDraft()
	s.Post(OpenForm{})
	s.Post(SubmitForm{Draft: &d})

	require.Eventually(t, func() bool {
		return out.hasToast(ToastSuccess, "New deal added successfully!")
	}, eventually, tick)

	store.mu.Lock()
	require.Len(t, store.creates, 1)
	assert.True(t, ValidEmail(store.creates[0].Email))
	assert.Equal(t, 15000.0, store.creates[0].Value)
	store.mu.Unlock()

	snap, _ := out.lastBoard()
	assert.False(t, snap.FormOpen)
	assert.Equal(t, NewDraft(today), snap.Draft)
	require.Len(t, column(snap, models.StageLead).Cards, 1)
	assert.Equal(t, int64(100), column(snap, models.StageLead).Cards[0].ID)
}

func TestSessionCreateFailureKeepsDraft(t *testing.T) {
	store := &MockStore{CreateFunc: func(context.Context, *models.Deal) (*models.Deal, error) {
		return nil, errors.New("quota exceeded")
	}}
	s, out := startSession(t, store)

	d := validDraft()
	s.Post(OpenForm{})
	s.Post(SubmitForm{Draft: &d})

	require.Eventually(t, func() bool { return out.hasToast(ToastError, "quota exceeded") }, eventually, tick)
	snap, _ := out.lastBoard()
	assert.True(t, snap.FormOpen)
	assert.Equal(t, d, snap.Draft)
	assert.Empty(t, column(snap, models.StageLead).Cards)
}

func TestSessionDeleteDeclined(t *testing.T) {
	store := &MockStore{ListFunc: listOf(sampleDeals()...)}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 6)

	s.Post(DeleteDeal{DealID: 3})
	p := waitPrompt(t, out)
	assert.Contains(t, p.Prompt, "Consulting Services")

	s.Post(ConfirmReply{ID: p.ID, Yes: false})
	s.Post(ConfirmReply{ID: p.ID, Yes: true})
	s.Post(Load{})
	require.Eventually(t, func() bool {
		lists, _, _, _ := store.counts()
		return lists == 2
	}, eventually, tick)
	waitLoaded(t, out, 6)
	_, _, _, deletes := store.counts()
	assert.Zero(t, deletes, "a prompt is answered once")
}

func TestSessionDeleteConfirmed(t *testing.T) {
	store := &MockStore{ListFunc: listOf(sampleDeals()...)}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 6)

	s.Post(DeleteDeal{DealID: 3})
	p := waitPrompt(t, out)
	s.Post(ConfirmReply{ID: p.ID, Yes: true})
	require.Eventually(t, func() bool { return out.hasToast(ToastInfo, "Deal deleted successfully") }, eventually, tick)
	waitLoaded(t, out, 5)

	store.mu.Lock()
	assert.Equal(t, []int64{3}, store.deletes)
	store.mu.Unlock()
}

func TestSessionBoardLiveWhilePromptOpen(t *testing.T) {
	store := &MockStore{ListFunc: listOf(sampleDeals()...)}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 6)

	s.Post(DeleteDeal{DealID: 3})
	p := waitPrompt(t, out)

	// One goroutine plays the socket reader: it keeps posting past the event
	// buffer and then delivers the answer.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for i := 0; i < 2*eventBuffer; i++ {
			s.Post(SearchInput{Query: "consult"})
		}
		s.Post(ConfirmReply{ID: p.ID, Yes: true})
	}()

	select {
	case <-readerDone:
	case <-time.After(eventually):
		t.Fatal("reader blocked while a prompt was open")
	}
	require.Eventually(t, func() bool {
		_, _, _, deletes := store.counts()
		return deletes == 1
	}, eventually, tick)
}

func TestSessionUnansweredPromptExpires(t *testing.T) {
	store := &MockStore{ListFunc: listOf(sampleDeals()...)}
	s, out := startSession(t, store, WithConfirmTimeout(20*time.Millisecond))
	s.Post(Load{})
	waitLoaded(t, out, 6)

	s.Post(DeleteDeal{DealID: 3})
	p := waitPrompt(t, out)
	time.Sleep(60 * time.Millisecond)

	s.Post(ConfirmReply{ID: p.ID, Yes: true})
	s.Post(Load{})
	require.Eventually(t, func() bool {
		lists, _, _, _ := store.counts()
		return lists == 2
	}, eventually, tick)
	_, _, _, deletes := store.counts()
	assert.Zero(t, deletes, "late answer after the prompt expired")
}

func TestSessionPromptNotDeliveredToasts(t *testing.T) {
	store := &MockStore{ListFunc: listOf(sampleDeals()...)}
	out := &frameRecorder{reject: FrameConfirmRequired}
	s, _ := startSessionWith(t, store, out)
	s.Post(Load{})
	waitLoaded(t, out, 6)

	s.Post(DeleteDeal{DealID: 3})
	require.Eventually(t, func() bool {
		return out.hasToast(ToastError, "Could not ask to confirm the delete, try again")
	}, eventually, tick)
	assert.Empty(t, out.prompts())
	_, _, _, deletes := store.counts()
	assert.Zero(t, deletes)
}

func TestSessionDeleteFailureKeepsDeal(t *testing.T) {
	store := &MockStore{
		ListFunc:   listOf(sampleDeals()...),
		DeleteFunc: func(context.Context, int64) error { return errors.New("boom") },
	}
	s, out := startSession(t, store)
	s.Post(Load{})
	waitLoaded(t, out, 6)

	s.Post(DeleteDeal{DealID: 3})
	s.Post(ConfirmReply{ID: waitPrompt(t, out).ID, Yes: true})
	require.Eventually(t, func() bool { return out.hasToast(ToastError, "Failed to delete deal") }, eventually, tick)
	waitLoaded(t, out, 6)
}

func TestSessionReadOnlyRejectsChanges(t *testing.T) {
	store := &MockStore{ListFunc: listOf(models.Deal{ID: 1, Title: "Deal One", Stage: models.StageLead, Value: 1000})}
	s, out := startSession(t, store, WithReadOnly(true))
	s.Post(Load{})
	waitLoaded(t, out, 1)

	d := validDraft()
	s.Post(DragStart{DealID: 1})
	s.Post(Drop{Stage: models.StageClosed})
	s.Post(SubmitForm{Draft: &d})
	s.Post(DeleteDeal{DealID: 1})
	s.Post(SearchInput{Query: "deal"})

	require.Eventually(t, func() bool {
		snap, _ := out.lastBoard()
		return snap.Query == "deal"
	}, eventually, tick, "search still works")

	snap, _ := out.lastBoard()
	assert.True(t, snap.ReadOnly)
	assert.Nil(t, snap.Dragging)
	require.Len(t, column(snap, models.StageLead).Cards, 1)
	assert.Empty(t, out.prompts())
	assert.True(t, out.hasToast(ToastError, readOnlyMessage))
	_, creates, updates, deletes := store.counts()
	assert.Zero(t, creates)
	assert.Zero(t, updates)
	assert.Zero(t, deletes)
}

func TestSessionPostAfterStop(t *testing.T) {
	s := NewSession(&MockStore{}, &frameRecorder{}, WithDebounce(0))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, s.Post(Load{}))
}
