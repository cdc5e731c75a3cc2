package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"apexcrm/internal/models"
)

const dealColumns = `id, title, customer, value, stage, probability, expected_close_date,
       type, contact, email, phone, created_at, updated_at`

type dealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) DealRepository {
	return &dealRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeal(row rowScanner) (models.Deal, error) {
	var d models.Deal
	err := row.Scan(
		&d.ID, &d.Title, &d.Customer, &d.Value, &d.Stage, &d.Probability, &d.ExpectedCloseDate,
		&d.Type, &d.Contact, &d.Email, &d.Phone, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func dealWhere(f models.DealFilter) *where {
	w := &where{}
	if f.Search != "" {
		w.contains(f.Search, "title", "customer", "contact")
	}
	if f.Stage != "" {
		w.add("stage = $%d", f.Stage)
	}
	if f.Type != "" {
		w.add("type = $%d", f.Type)
	}
	return w
}

// List returns one page in insertion order plus the number of matching rows.
func (r *dealRepository) List(ctx context.Context, filter models.DealFilter, page models.Page) ([]models.Deal, int, error) {
	w := dealWhere(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM deals"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}

	limit, args := w.paging(page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, "SELECT "+dealColumns+" FROM deals"+w.sql()+" ORDER BY id ASC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, total, rows.Err()
}

func (r *dealRepository) GetByID(ctx context.Context, id int64) (*models.Deal, error) {
	d, err := scanDeal(r.db.QueryRowContext(ctx, "SELECT "+dealColumns+" FROM deals WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deal %d: %w", id, err)
	}
	return &d, nil
}

func (r *dealRepository) Create(ctx context.Context, d *models.Deal) error {
	const q = `
		INSERT INTO deals (
			title, customer, value, stage, probability, expected_close_date,
			type, contact, email, phone, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, q,
		d.Title, d.Customer, d.Value, d.Stage, d.Probability, d.ExpectedCloseDate,
		d.Type, d.Contact, d.Email, d.Phone, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

func (r *dealRepository) Update(ctx context.Context, d *models.Deal) error {
	const q = `
		UPDATE deals SET
			title=$1, customer=$2, value=$3, stage=$4, probability=$5, expected_close_date=$6,
			type=$7, contact=$8, email=$9, phone=$10, updated_at=$11
		WHERE id=$12`
	res, err := r.db.ExecContext(ctx, q,
		d.Title, d.Customer, d.Value, d.Stage, d.Probability, d.ExpectedCloseDate,
		d.Type, d.Contact, d.Email, d.Phone, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update deal %d: %w", d.ID, err)
	}
	return expectOne(res)
}

func (r *dealRepository) UpdateStage(ctx context.Context, id int64, stage models.Stage, probability int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE deals SET stage=$1, probability=$2, updated_at=NOW() WHERE id=$3`, stage, probability, id)
	if err != nil {
		return fmt.Errorf("update deal stage %d: %w", id, err)
	}
	return expectOne(res)
}

func (r *dealRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deal %d: %w", id, err)
	}
	return expectOne(res)
}

func (r *dealRepository) ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]models.Deal, error) {
	q := "SELECT " + dealColumns + `
FROM deals
WHERE expected_close_date IS NOT NULL
  AND expected_close_date < $1
  AND stage <> 'closed'
ORDER BY expected_close_date ASC
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, models.NewDate(asOf), limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue deals: %w", err)
	}
	defer rows.Close()

	var out []models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// expectOne turns "no rows affected" into ErrNotFound.
func expectOne(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
