package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// MentorRepository defines persistence access for mentor accounts.
type MentorRepository interface {
	Create(ctx context.Context, mentor *domain.Mentor) error
	GetByID(ctx context.Context, id string) (*domain.Mentor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Mentor, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type mentorRepository struct {
	pool *pgxpool.Pool
}

// NewMentorRepository returns a Postgres-backed implementation.
func NewMentorRepository(pool *pgxpool.Pool) MentorRepository {
	return &mentorRepository{pool: pool}
}

func (r *mentorRepository) Create(ctx context.Context, mentor *domain.Mentor) error {
	const query = `
        INSERT INTO mentors (name, email, password_hash, role, active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query,
		mentor.Name,
		mentor.Email,
		mentor.PasswordHash,
		mentor.Role,
		mentor.Active,
	).Scan(&mentor.ID, &mentor.CreatedAt, &mentor.UpdatedAt); err != nil {
		return storeErr("create mentor", err)
	}
	return nil
}

func (r *mentorRepository) GetByID(ctx context.Context, id string) (*domain.Mentor, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active, created_at, updated_at
        FROM mentors WHERE id=$1`
	return r.fetch(ctx, query, id)
}

func (r *mentorRepository) GetByEmail(ctx context.Context, email string) (*domain.Mentor, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active, created_at, updated_at
        FROM mentors WHERE email=$1`
	return r.fetch(ctx, query, email)
}

func (r *mentorRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE mentors SET password_hash=$2, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return storeErr("update mentor password", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mentorRepository) fetch(ctx context.Context, query string, arg any) (*domain.Mentor, error) {
	var mentor domain.Mentor
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&mentor.ID,
		&mentor.Name,
		&mentor.Email,
		&mentor.PasswordHash,
		&mentor.Role,
		&mentor.Active,
		&mentor.CreatedAt,
		&mentor.UpdatedAt,
	); err != nil {
		return nil, translateGet("get mentor", err)
	}
	return &mentor, nil
}
