package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"apexcrm/internal/models"
)

// memTable keeps records in insertion order, like ORDER BY id on an
// auto-increment key.
type memTable[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T
	getID  func(*T) int64
	setID  func(*T, int64)
}

func newMemTable[T any](getID func(*T) int64, setID func(*T, int64)) *memTable[T] {
	return &memTable[T]{rows: make(map[int64]T), getID: getID, setID: setID}
}

func (t *memTable[T]) list(match func(*T) bool, page models.Page) ([]T, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matched := make([]T, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if match == nil || match(&row) {
			matched = append(matched, row)
		}
	}
	total := len(matched)
	if page.Offset >= total {
		return []T{}, total
	}
	end := total
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	out := make([]T, end-page.Offset)
	copy(out, matched[page.Offset:end])
	return out, total
}

func (t *memTable[T]) get(id int64) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (t *memTable[T]) insert(row *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.setID(row, t.nextID)
	t.rows[t.nextID] = *row
}

func (t *memTable[T]) update(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.getID(row)
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	t.rows[id] = *row
	return nil
}

func (t *memTable[T]) modify(id int64, fn func(*T)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return ErrNotFound
	}
	fn(&row)
	t.rows[id] = row
	return nil
}

func (t *memTable[T]) remove(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// containsFold reports whether any field contains term, ignoring case.
func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// NewMemorySet returns repositories backed by process memory. It is used by
// the "memory" storage driver and in tests.
func NewMemorySet() Set {
	return Set{
		Deals:     &memDeals{t: newMemTable(func(d *models.Deal) int64 { return d.ID }, func(d *models.Deal, id int64) { d.ID = id })},
		Contacts:  &memContacts{t: newMemTable(func(c *models.Contact) int64 { return c.ID }, func(c *models.Contact, id int64) { c.ID = id })},
		Campaigns: &memCampaigns{t: newMemTable(func(c *models.Campaign) int64 { return c.ID }, func(c *models.Campaign, id int64) { c.ID = id })},
		Tickets:   &memTickets{t: newMemTable(func(t *models.SupportTicket) int64 { return t.ID }, func(t *models.SupportTicket, id int64) { t.ID = id })},
		Users:     &memUsers{t: newMemTable(func(u *models.User) int64 { return u.ID }, func(u *models.User, id int64) { u.ID = id })},
	}
}

type memDeals struct{ t *memTable[models.Deal] }

func (m *memDeals) List(_ context.Context, f models.DealFilter, page models.Page) ([]models.Deal, int, error) {
	deals, total := m.t.list(func(d *models.Deal) bool {
		return containsFold(f.Search, d.Title, d.Customer, d.Contact) &&
			(f.Stage == "" || d.Stage == f.Stage) &&
			(f.Type == "" || d.Type == f.Type)
	}, page)
	return deals, total, nil
}

func (m *memDeals) GetByID(_ context.Context, id int64) (*models.Deal, error) { return m.t.get(id) }

func (m *memDeals) Create(_ context.Context, d *models.Deal) error {
	m.t.insert(d)
	return nil
}

func (m *memDeals) Update(_ context.Context, d *models.Deal) error { return m.t.update(d) }

func (m *memDeals) UpdateStage(_ context.Context, id int64, stage models.Stage, probability int) error {
	return m.t.modify(id, func(d *models.Deal) {
		d.Stage = stage
		d.Probability = probability
		d.UpdatedAt = time.Now()
	})
}

func (m *memDeals) Delete(_ context.Context, id int64) error { return m.t.remove(id) }

func (m *memDeals) ListOverdue(_ context.Context, asOf time.Time, limit int) ([]models.Deal, error) {
	deals, _ := m.t.list(func(d *models.Deal) bool {
		return d.Stage != models.StageClosed && !d.ExpectedCloseDate.IsZero() && d.ExpectedCloseDate.Before(asOf)
	}, models.Page{})
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].ExpectedCloseDate.Time.Before(deals[j].ExpectedCloseDate.Time)
	})
	if limit > 0 && len(deals) > limit {
		deals = deals[:limit]
	}
	return deals, nil
}

type memContacts struct{ t *memTable[models.Contact] }

func (m *memContacts) List(_ context.Context, f models.ContactFilter, page models.Page) ([]models.Contact, int, error) {
	res, total := m.t.list(func(c *models.Contact) bool {
		return containsFold(f.Search, c.Name, c.Company, c.Email) &&
			(f.Type == "" || c.Type == f.Type) &&
			(f.Status == "" || c.Status == f.Status)
	}, page)
	return res, total, nil
}

func (m *memContacts) GetByID(_ context.Context, id int64) (*models.Contact, error) {
	return m.t.get(id)
}

func (m *memContacts) Create(_ context.Context, c *models.Contact) error {
	m.t.insert(c)
	return nil
}

func (m *memContacts) Update(_ context.Context, c *models.Contact) error { return m.t.update(c) }
func (m *memContacts) Delete(_ context.Context, id int64) error          { return m.t.remove(id) }

type memCampaigns struct{ t *memTable[models.Campaign] }

func (m *memCampaigns) List(_ context.Context, f models.CampaignFilter, page models.Page) ([]models.Campaign, int, error) {
	res, total := m.t.list(func(c *models.Campaign) bool {
		return containsFold(f.Search, c.Name) &&
			(f.Type == "" || c.Type == f.Type) &&
			(f.Status == "" || c.Status == f.Status)
	}, page)
	return res, total, nil
}

func (m *memCampaigns) GetByID(_ context.Context, id int64) (*models.Campaign, error) {
	return m.t.get(id)
}

func (m *memCampaigns) Create(_ context.Context, c *models.Campaign) error {
	m.t.insert(c)
	return nil
}

func (m *memCampaigns) Update(_ context.Context, c *models.Campaign) error { return m.t.update(c) }
func (m *memCampaigns) Delete(_ context.Context, id int64) error           { return m.t.remove(id) }

type memTickets struct{ t *memTable[models.SupportTicket] }

func (m *memTickets) List(_ context.Context, f models.TicketFilter, page models.Page) ([]models.SupportTicket, int, error) {
	res, total := m.t.list(func(t *models.SupportTicket) bool {
		return containsFold(f.Search, t.Subject, t.Customer) &&
			(f.Status == "" || t.Status == f.Status) &&
			(f.Priority == "" || t.Priority == f.Priority)
	}, page)
	return res, total, nil
}

func (m *memTickets) GetByID(_ context.Context, id int64) (*models.SupportTicket, error) {
	return m.t.get(id)
}

func (m *memTickets) Create(_ context.Context, t *models.SupportTicket) error {
	m.t.insert(t)
	return nil
}

func (m *memTickets) Update(_ context.Context, t *models.SupportTicket) error { return m.t.update(t) }

func (m *memTickets) UpdateStatus(_ context.Context, id int64, status models.TicketStatus) error {
	return m.t.modify(id, func(t *models.SupportTicket) {
		t.Status = status
		t.UpdatedAt = time.Now()
	})
}

func (m *memTickets) Delete(_ context.Context, id int64) error { return m.t.remove(id) }

type memUsers struct{ t *memTable[models.User] }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.t.insert(u)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) { return m.t.get(id) }

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	res, _ := m.t.list(func(u *models.User) bool { return strings.EqualFold(u.Email, email) }, models.Page{Limit: 1})
	if len(res) == 0 {
		return nil, ErrNotFound
	}
	return &res[0], nil
}
