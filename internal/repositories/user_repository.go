package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"apexcrm/internal/models"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (name, email, password_hash, role_id, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	if err := r.DB.QueryRowContext(ctx, q,
		user.Name, user.Email, user.PasswordHash, user.RoleID, user.CreatedAt,
	).Scan(&user.ID); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *userRepository) getOne(ctx context.Context, cond string, arg interface{}) (*models.User, error) {
	q := `
		SELECT id, name, email, password_hash, role_id, created_at
		FROM users
		WHERE ` + cond
	u := &models.User{}
	var roleID sql.NullInt64
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roleID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if roleID.Valid {
		u.RoleID = int(roleID.Int64)
	}
	return u, nil
}
