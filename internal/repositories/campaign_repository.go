package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"apexcrm/internal/models"
)

const campaignColumns = `id, name, type, status, sent, opened, clicked, converted, start_date, end_date, created_at, updated_at`

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func scanCampaign(row rowScanner) (models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Status, &c.Sent, &c.Opened, &c.Clicked,
		&c.Converted, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *campaignRepository) List(ctx context.Context, filter models.CampaignFilter, page models.Page) ([]models.Campaign, int, error) {
	w := &where{}
	if filter.Search != "" {
		w.contains(filter.Search, "name")
	}
	if filter.Type != "" {
		w.add("type = $%d", filter.Type)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaigns"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	limit, args := w.paging(page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, "SELECT "+campaignColumns+" FROM campaigns"+w.sql()+" ORDER BY id ASC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	res := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, c)
	}
	return res, total, rows.Err()
}

func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx, "SELECT "+campaignColumns+" FROM campaigns WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return &c, nil
}

func (r *campaignRepository) Create(ctx context.Context, c *models.Campaign) error {
	const q = `
		INSERT INTO campaigns (name, type, status, sent, opened, clicked, converted, start_date, end_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, q, c.Name, c.Type, c.Status, c.Sent, c.Opened, c.Clicked,
		c.Converted, c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) Update(ctx context.Context, c *models.Campaign) error {
	const q = `
		UPDATE campaigns
		SET name=$1, type=$2, status=$3, sent=$4, opened=$5, clicked=$6, converted=$7,
		    start_date=$8, end_date=$9, updated_at=$10
		WHERE id=$11`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Type, c.Status, c.Sent, c.Opened, c.Clicked,
		c.Converted, c.StartDate, c.EndDate, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	return expectOne(res)
}

func (r *campaignRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return expectOne(res)
}
