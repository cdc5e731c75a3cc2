package pipeline

import (
	"time"

	"apexcrm/internal/icons"
	"apexcrm/internal/models"
)

// Move is a stage change that has been requested but not yet confirmed by
// the store. Until it is committed the board keeps showing From.
type Move struct {
	Seq    uint64
	DealID int64
	From   models.Deal
	To     models.Deal
}

// SearchTicket tags an outgoing fetch so late responses can be recognised.
type SearchTicket struct {
	Gen   uint64
	Query string
}

// Board is the in-memory view-model of the pipeline screen. It is not safe
// for concurrent use: a single goroutine (see Session) owns it.
type Board struct {
	deals []models.Deal
	query string

	dragging    int64
	hasDragging bool

	moveSeq   uint64
	pending   map[int64]Move
	committed map[int64]uint64

	searchGen uint64

	draft      Draft
	formOpen   bool
	formErrors FieldErrors
}

func NewBoard(today time.Time) *Board {
	return &Board{
		pending:    make(map[int64]Move),
		committed:  make(map[int64]uint64),
		draft:      NewDraft(today),
		formErrors: FieldErrors{},
	}
}

// Deals returns a copy of the full list in fetch order.
func (b *Board) Deals() []models.Deal {
	out := make([]models.Deal, len(b.deals))
	copy(out, b.deals)
	return out
}

func (b *Board) Query() string { return b.query }

// Visible is the list narrowed by the current query.
func (b *Board) Visible() []models.Deal {
	return Filter(b.deals, b.query)
}

func (b *Board) Find(id int64) (models.Deal, bool) {
	for _, d := range b.deals {
		if d.ID == id {
			return d, true
		}
	}
	return models.Deal{}, false
}

// Replace swaps in a freshly fetched list.
func (b *Board) Replace(deals []models.Deal) {
	b.deals = make([]models.Deal, len(deals))
	copy(b.deals, deals)
}

func (b *Board) Append(d models.Deal) {
	b.deals = append(b.deals, d)
}

// Remove drops a deal by id and reports whether it was present.
func (b *Board) Remove(id int64) bool {
	for i, d := range b.deals {
		if d.ID == id {
			b.deals = append(b.deals[:i:i], b.deals[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Board) replaceDeal(d models.Deal) bool {
	for i := range b.deals {
		if b.deals[i].ID == d.ID {
			b.deals[i] = d
			return true
		}
	}
	return false
}

// --- drag session

func (b *Board) StartDrag(id int64) {
	b.dragging = id
	b.hasDragging = true
}

func (b *Board) Dragging() (int64, bool) {
	return b.dragging, b.hasDragging
}

func (b *Board) CancelDrag() {
	b.dragging = 0
	b.hasDragging = false
}

// Drop ends the drag session over stage. The drag id is always cleared.
// It returns false when nothing was dragged, the dragged deal is gone, or
// the stage is unknown. Otherwise a pending Move is recorded and returned;
// the visible deal is untouched until Commit.
func (b *Board) Drop(stage models.Stage) (Move, bool) {
	id, ok := b.Dragging()
	b.CancelDrag()
	if !ok {
		return Move{}, false
	}
	deal, found := b.Find(id)
	if !found {
		return Move{}, false
	}
	to, valid := MoveTo(deal, stage)
	if !valid {
		return Move{}, false
	}
	b.moveSeq++
	m := Move{Seq: b.moveSeq, DealID: id, From: deal, To: to}
	b.pending[id] = m
	return m, true
}

// Pending reports whether a move for the deal is awaiting the store.
func (b *Board) Pending(id int64) bool {
	_, ok := b.pending[id]
	return ok
}

// Commit applies a persisted move and reports whether the board changed.
// Responses may arrive out of order: a move older than the last committed
// one for the deal is ignored, and a newer move still in flight is rebased
// onto the persisted deal.
func (b *Board) Commit(m Move, persisted models.Deal) bool {
	if m.Seq <= b.committed[m.DealID] {
		return false
	}
	b.committed[m.DealID] = m.Seq
	if cur, ok := b.pending[m.DealID]; ok {
		switch {
		case cur.Seq == m.Seq:
			delete(b.pending, m.DealID)
		case cur.Seq > m.Seq:
			cur.From = persisted
			b.pending[m.DealID] = cur
		}
	}
	return b.replaceDeal(persisted)
}

// Rollback discards a failed move. The visible deal was never changed by
// the drop, so it already shows the last persisted stage.
func (b *Board) Rollback(m Move) {
	if cur, ok := b.pending[m.DealID]; ok && cur.Seq == m.Seq {
		delete(b.pending, m.DealID)
	}
}

// --- search

// SetQuery updates the local filter. Local filtering is immediate; use
// IssueSearch for the store round-trip.
func (b *Board) SetQuery(q string) {
	b.query = q
}

// IssueSearch tags a new fetch for the current query.
func (b *Board) IssueSearch() SearchTicket {
	b.searchGen++
	return SearchTicket{Gen: b.searchGen, Query: b.query}
}

// Current reports whether t is the latest issued fetch.
func (b *Board) Current(t SearchTicket) bool {
	return t.Gen == b.searchGen
}

// ApplySearch installs a fetch result unless a newer fetch has been issued.
func (b *Board) ApplySearch(t SearchTicket, deals []models.Deal) bool {
	if !b.Current(t) {
		return false
	}
	b.Replace(deals)
	return true
}

// --- creation form

func (b *Board) OpenForm()  { b.formOpen = true }
func (b *Board) CloseForm() { b.formOpen = false }

func (b *Board) FormOpen() bool { return b.formOpen }

func (b *Board) Draft() Draft { return b.draft }

func (b *Board) FormErrors() FieldErrors {
	out := make(FieldErrors, len(b.formErrors))
	for k, v := range b.formErrors {
		out[k] = v
	}
	return out
}

// SetDraft replaces the whole draft, keeping current errors.
func (b *Board) SetDraft(d Draft) { b.draft = d }

// EditDraft changes one field and clears that field's error.
func (b *Board) EditDraft(field, value string) {
	b.draft.Set(field, value)
	delete(b.formErrors, field)
}

// SubmitDraft validates the draft. On success it returns the record to
// create; the draft stays as is until ResetForm.
func (b *Board) SubmitDraft() (models.Deal, bool) {
	errs := b.draft.Validate()
	b.formErrors = errs
	if !errs.Empty() {
		return models.Deal{}, false
	}
	deal, err := b.draft.Deal()
	if err != nil {
		b.formErrors = FieldErrors{"expected_close_date": "Expected close date is invalid"}
		return models.Deal{}, false
	}
	return deal, true
}

// ResetForm restores defaults and closes the form after a successful create.
func (b *Board) ResetForm(today time.Time) {
	b.draft = NewDraft(today)
	b.formErrors = FieldErrors{}
	b.formOpen = false
}

// --- snapshot

// Card is a deal as rendered on the board.
type Card struct {
	models.Deal
	Icon    string `json:"icon"`
	Pending bool   `json:"pending"`
}

type Column struct {
	Stage StageConfig `json:"stage"`
	Cards []Card      `json:"cards"`
	Total float64     `json:"total"`
}

// Snapshot is the serialisable state of the board.
type Snapshot struct {
	Columns       []Column    `json:"columns"`
	TotalValue    float64     `json:"total_value"`
	WeightedValue float64     `json:"weighted_value"`
	Query         string      `json:"query"`
	Dragging      *int64      `json:"dragging,omitempty"`
	FormOpen      bool        `json:"form_open"`
	Draft         Draft       `json:"draft"`
	FormErrors    FieldErrors `json:"form_errors"`
	ReadOnly      bool        `json:"read_only,omitempty"`
}

func (b *Board) Snapshot() Snapshot {
	sum := Summarize(b.deals, b.Visible())
	snap := Snapshot{
		Columns:       make([]Column, 0, len(sum.Columns)),
		TotalValue:    sum.TotalValue,
		WeightedValue: sum.WeightedValue,
		Query:         b.query,
		FormOpen:      b.formOpen,
		Draft:         b.draft,
		FormErrors:    b.FormErrors(),
	}
	if id, ok := b.Dragging(); ok {
		snap.Dragging = &id
	}
	for _, col := range sum.Columns {
		c := Column{Stage: col.Stage, Total: col.Total, Cards: make([]Card, 0, len(col.Deals))}
		for _, d := range col.Deals {
			c.Cards = append(c.Cards, Card{
				Deal:    d,
				Icon:    icons.ForDealType(d.Type).Name,
				Pending: b.Pending(d.ID),
			})
		}
		snap.Columns = append(snap.Columns, c)
	}
	return snap
}
