package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"apexcrm/internal/icons"
	"apexcrm/internal/models"
)

// Store is the record adapter for the deal table.
type Store interface {
	List(ctx context.Context, filter models.DealFilter, page models.Page) (*models.ListResult[models.Deal], error)
	Create(ctx context.Context, d *models.Deal) (*models.Deal, error)
	Update(ctx context.Context, d *models.Deal) (*models.Deal, error)
	Delete(ctx context.Context, id int64) error
}

// Emitter delivers frames to the client that owns the session. A non-nil
// error means the frame was not queued.
type Emitter interface {
	Emit(f Frame) error
}

// Recorder observes stage moves; metrics implement it.
type Recorder interface {
	MoveCommitted(from, to models.Stage)
	MoveRolledBack(to models.Stage)
}

type nopRecorder struct{}

func (nopRecorder) MoveCommitted(models.Stage, models.Stage) {}
func (nopRecorder) MoveRolledBack(models.Stage)              {}

type Option func(*Session)

func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.rec = r
		}
	}
}

// WithConfirmTimeout bounds how long a delete prompt stays open. An
// unanswered prompt counts as "no".
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.confirmTimeout = d
		}
	}
}

// WithReadOnly rejects every gesture that would change deals.
func WithReadOnly(readOnly bool) Option {
	return func(s *Session) { s.readOnly = readOnly }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

const (
	eventBuffer           = 64
	DefaultConfirmTimeout = time.Minute
)

const readOnlyMessage = "Your role cannot change the pipeline"

// pendingDelete is a delete waiting for the user's answer.
type pendingDelete struct {
	deal  models.Deal
	timer *time.Timer
}

// Session is the single-writer event loop around a Board. Every state change
// happens on the goroutine running Run; store calls run on their own
// goroutines and report back through Post.
type Session struct {
	board          *Board
	store          Store
	out            Emitter
	log            *zap.Logger
	rec            Recorder
	now            func() time.Time
	debounce       time.Duration
	confirmTimeout time.Duration
	pageSize       int
	readOnly       bool

	events    chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	debouncer *Debouncer
	creating  bool
	confirms  map[string]pendingDelete
}

func NewSession(store Store, out Emitter, opts ...Option) *Session {
	s := &Session{
		store:          store,
		out:            out,
		log:            zap.NewNop(),
		rec:            nopRecorder{},
		now:            time.Now,
		debounce:       DefaultDebounce,
		confirmTimeout: DefaultConfirmTimeout,
		pageSize:       100,
		events:         make(chan Event, eventBuffer),
		done:           make(chan struct{}),
		confirms:       make(map[string]pendingDelete),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.board = NewBoard(s.now())
	s.debouncer = NewDebouncer(s.debounce)
	return s
}

// Post queues an event. It returns false once the session has stopped.
func (s *Session) Post(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// Run processes events until ctx is cancelled, then waits for in-flight
// store calls to finish.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		close(s.done)
		s.debouncer.Stop()
		for id, p := range s.confirms {
			p.timer.Stop()
			delete(s.confirms, id)
		}
		s.wg.Wait()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			s.handle(ctx, ev)
		}
	}
}

func (s *Session) spawn(fn func() Event) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Post(fn())
	}()
}

// mutates reports whether ev is a gesture that changes deals or the form.
func mutates(ev Event) bool {
	switch ev.(type) {
	case DragStart, Drop, OpenForm, EditDraft, SubmitForm, DeleteDeal, ConfirmReply:
		return true
	}
	return false
}

func (s *Session) handle(ctx context.Context, ev Event) {
	if s.readOnly && mutates(ev) {
		s.log.Debug("pipeline session: read-only gesture rejected", zap.String("type", fmt.Sprintf("%T", ev)))
		s.toast(ToastError, readOnlyMessage)
		return
	}
	switch e := ev.(type) {
	case Load:
		s.fetch(ctx, s.board.IssueSearch())

	case SearchInput:
		s.board.SetQuery(e.Query)
		s.emitBoard()
		if s.debounce > 0 {
			s.debouncer.Trigger(func() { s.Post(searchDue{}) })
		}

	case searchDue:
		s.fetch(ctx, s.board.IssueSearch())

	case fetched:
		s.onFetched(e)

	case DragStart:
		s.board.StartDrag(e.DealID)
		s.emitBoard()

	case DragCancel:
		s.board.CancelDrag()
		s.emitBoard()

	case Drop:
		s.onDrop(ctx, e)

	case moved:
		s.onMoved(e)

	case OpenForm:
		s.board.OpenForm()
		s.emitBoard()

	case CloseForm:
		s.board.CloseForm()
		s.emitBoard()

	case EditDraft:
		s.board.EditDraft(e.Field, e.Value)
		s.emitBoard()

	case SubmitForm:
		s.onSubmit(ctx, e)

	case created:
		s.onCreated(e)

	case DeleteDeal:
		s.onDelete(e)

	case ConfirmReply:
		s.onConfirm(ctx, e)

	case deleted:
		s.onDeleted(e)

	default:
		s.log.Warn("pipeline session: unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
	}
}

func (s *Session) fetch(ctx context.Context, t SearchTicket) {
	// Totals cover every deal, so the fetch is unfiltered and the query
	// only narrows the cards.
	filter := models.DealFilter{}
	page := models.Page{Limit: s.pageSize}
	s.spawn(func() Event {
		res, err := s.store.List(ctx, filter, page)
		return fetched{ticket: t, result: res, err: err}
	})
}

func (s *Session) onFetched(e fetched) {
	if !s.board.Current(e.ticket) {
		s.log.Debug("pipeline session: stale search result dropped",
			zap.Uint64("gen", e.ticket.Gen), zap.String("query", e.ticket.Query))
		return
	}
	res := e.result
	if e.err != nil || res == nil {
		if e.err != nil {
			s.log.Error("pipeline session: fetch deals", zap.Error(e.err))
		}
		s.toast(ToastError, "Failed to load deals")
		res = models.EmptyResult[models.Deal]()
	}
	s.board.ApplySearch(e.ticket, res.Data)
	s.emitBoard()
}

func (s *Session) onDrop(ctx context.Context, e Drop) {
	m, ok := s.board.Drop(e.Stage)
	s.emitBoard()
	if !ok {
		return
	}
	s.spawn(func() Event {
		to := m.To
		saved, err := s.store.Update(ctx, &to)
		return moved{move: m, deal: saved, err: err}
	})
}

func (s *Session) onMoved(e moved) {
	m := e.move
	if e.err != nil {
		s.log.Error("pipeline session: move deal",
			zap.Int64("deal_id", m.DealID),
			zap.String("to", string(m.To.Stage)),
			zap.Error(e.err))
		s.board.Rollback(m)
		s.rec.MoveRolledBack(m.To.Stage)
		s.toast(ToastError, fmt.Sprintf("Failed to move %s", m.From.Title))
		s.emitBoard()
		return
	}
	persisted := m.To
	if e.deal != nil {
		persisted = *e.deal
	}
	if s.board.Commit(m, persisted) {
		s.rec.MoveCommitted(m.From.Stage, persisted.Stage)
		s.toast(ToastSuccess, fmt.Sprintf("Moved %s to %s stage", persisted.Title, StageName(persisted.Stage)))
	}
	s.emitBoard()
}

func (s *Session) onSubmit(ctx context.Context, e SubmitForm) {
	if s.creating {
		return
	}
	if e.Draft != nil {
		s.board.SetDraft(*e.Draft)
	}
	deal, ok := s.board.SubmitDraft()
	if !ok {
		s.emit(Frame{Type: FrameFormErrors, Payload: s.board.FormErrors()})
		s.emitBoard()
		return
	}
	s.creating = true
	s.spawn(func() Event {
		saved, err := s.store.Create(ctx, &deal)
		return created{deal: saved, err: err}
	})
}

func (s *Session) onCreated(e created) {
	s.creating = false
	if e.err != nil || e.deal == nil {
		msg := "Failed to create deal"
		if e.err != nil {
			s.log.Error("pipeline session: create deal", zap.Error(e.err))
			msg = e.err.Error()
		}
		s.toast(ToastError, msg)
		s.emitBoard()
		return
	}
	s.board.Append(*e.deal)
	s.board.ResetForm(s.now())
	s.toast(ToastSuccess, "New deal added successfully!")
	s.emitBoard()
}

func (s *Session) onDelete(e DeleteDeal) {
	deal, ok := s.board.Find(e.DealID)
	if !ok {
		return
	}
	id := uuid.NewString()
	prompt := ConfirmPrompt{ID: id, Prompt: fmt.Sprintf("Are you sure you want to delete the deal %q?", deal.Title)}
	if err := s.out.Emit(Frame{Type: FrameConfirmRequired, Payload: prompt}); err != nil {
		s.log.Warn("pipeline session: confirm prompt not delivered", zap.Int64("deal_id", deal.ID), zap.Error(err))
		s.toast(ToastError, "Could not ask to confirm the delete, try again")
		return
	}
	timer := time.AfterFunc(s.confirmTimeout, func() { s.Post(ConfirmReply{ID: id}) })
	s.confirms[id] = pendingDelete{deal: deal, timer: timer}
}

func (s *Session) onConfirm(ctx context.Context, e ConfirmReply) {
	p, ok := s.confirms[e.ID]
	if !ok {
		return
	}
	delete(s.confirms, e.ID)
	p.timer.Stop()
	if !e.Yes {
		return
	}
	deal := p.deal
	s.spawn(func() Event {
		return deleted{deal: deal, err: s.store.Delete(ctx, deal.ID)}
	})
}

func (s *Session) onDeleted(e deleted) {
	if e.err != nil {
		s.log.Error("pipeline session: delete deal", zap.Int64("deal_id", e.deal.ID), zap.Error(e.err))
		s.toast(ToastError, "Failed to delete deal")
		return
	}
	s.board.Remove(e.deal.ID)
	s.toast(ToastInfo, "Deal deleted successfully")
	s.emitBoard()
}

func (s *Session) toast(level, msg string) {
	s.emit(Frame{Type: FrameToast, Payload: Toast{
		ID:      uuid.NewString(),
		Level:   level,
		Message: msg,
		Icon:    icons.ForLevel(level),
	}})
}

func (s *Session) emitBoard() {
	snap := s.board.Snapshot()
	snap.ReadOnly = s.readOnly
	s.emit(Frame{Type: FrameBoard, Payload: snap})
}

func (s *Session) emit(f Frame) {
	if err := s.out.Emit(f); err != nil {
		s.log.Debug("pipeline session: frame dropped", zap.String("frame", f.Type), zap.Error(err))
	}
}
