package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"apexcrm/internal/models"
)

const contactColumns = `id, name, company, email, phone, type, location, status, favorite, created_at, updated_at`

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

func scanContact(row rowScanner) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Company, &c.Email, &c.Phone, &c.Type,
		&c.Location, &c.Status, &c.Favorite, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *contactRepository) List(ctx context.Context, filter models.ContactFilter, page models.Page) ([]models.Contact, int, error) {
	w := &where{}
	if filter.Search != "" {
		w.contains(filter.Search, "name", "company", "email")
	}
	if filter.Type != "" {
		w.add("type = $%d", filter.Type)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	limit, args := w.paging(page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, "SELECT "+contactColumns+" FROM contacts"+w.sql()+" ORDER BY id ASC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	res := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, c)
	}
	return res, total, rows.Err()
}

func (r *contactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

func (r *contactRepository) Create(ctx context.Context, c *models.Contact) error {
	const q = `
                INSERT INTO contacts (name, company, email, phone, type, location, status, favorite, created_at, updated_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                RETURNING id
        `
	err := r.db.QueryRowContext(ctx, q, c.Name, c.Company, c.Email, c.Phone, c.Type,
		c.Location, c.Status, c.Favorite, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *contactRepository) Update(ctx context.Context, c *models.Contact) error {
	const q = `
                UPDATE contacts
                SET name=$1, company=$2, email=$3, phone=$4, type=$5, location=$6, status=$7, favorite=$8, updated_at=$9
                WHERE id=$10
        `
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Company, c.Email, c.Phone, c.Type,
		c.Location, c.Status, c.Favorite, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return expectOne(res)
}

func (r *contactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectOne(res)
}
