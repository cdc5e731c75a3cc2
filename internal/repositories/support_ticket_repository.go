package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"apexcrm/internal/models"
)

const ticketColumns = `id, subject, customer, company, status, priority, description, assigned_to, created_at, updated_at`

type supportTicketRepository struct {
	db *sql.DB
}

func NewSupportTicketRepository(db *sql.DB) SupportTicketRepository {
	return &supportTicketRepository{db: db}
}

func scanTicket(row rowScanner) (models.SupportTicket, error) {
	var t models.SupportTicket
	err := row.Scan(&t.ID, &t.Subject, &t.Customer, &t.Company, &t.Status, &t.Priority,
		&t.Description, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *supportTicketRepository) List(ctx context.Context, filter models.TicketFilter, page models.Page) ([]models.SupportTicket, int, error) {
	w := &where{}
	if filter.Search != "" {
		w.contains(filter.Search, "subject", "customer")
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		w.add("priority = $%d", filter.Priority)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM support_tickets"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	limit, args := w.paging(page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, "SELECT "+ticketColumns+" FROM support_tickets"+w.sql()+" ORDER BY id ASC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	res := []models.SupportTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, t)
	}
	return res, total, rows.Err()
}

func (r *supportTicketRepository) GetByID(ctx context.Context, id int64) (*models.SupportTicket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx, "SELECT "+ticketColumns+" FROM support_tickets WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &t, nil
}

func (r *supportTicketRepository) Create(ctx context.Context, t *models.SupportTicket) error {
	const q = `
		INSERT INTO support_tickets (subject, customer, company, status, priority, description, assigned_to, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, q, t.Subject, t.Customer, t.Company, t.Status, t.Priority,
		t.Description, t.AssignedTo, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *supportTicketRepository) Update(ctx context.Context, t *models.SupportTicket) error {
	const q = `
		UPDATE support_tickets
		SET subject=$1, customer=$2, company=$3, status=$4, priority=$5, description=$6, assigned_to=$7, updated_at=$8
		WHERE id=$9`
	res, err := r.db.ExecContext(ctx, q, t.Subject, t.Customer, t.Company, t.Status, t.Priority,
		t.Description, t.AssignedTo, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	return expectOne(res)
}

func (r *supportTicketRepository) UpdateStatus(ctx context.Context, id int64, status models.TicketStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE support_tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	return expectOne(res)
}

func (r *supportTicketRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM support_tickets WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return expectOne(res)
}
