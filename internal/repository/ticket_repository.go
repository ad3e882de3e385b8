package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. It translates between
// the domain ticket and the stored row and exposes conditional-update
// primitives; it never decides business rules itself.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByRequester(ctx context.Context, requesterID string) ([]domain.Ticket, error)
	ListOpen(ctx context.Context) ([]domain.Ticket, error)
	ListByMentor(ctx context.Context, mentorID string) ([]domain.Ticket, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Ticket, error)
	CountOpenByRequester(ctx context.Context, requesterID string) (int, error)

	// Conditional updates: each writes only when the stored row still
	// matches the guard, and returns domain.ErrPreconditionFailed when it
	// does not (or the row is absent). Callers re-read to classify.
	AssignMentor(ctx context.Context, id, mentorID, mentorName string) error
	ReplaceMentor(ctx context.Context, id, currentMentorID, newMentorID, newMentorName string) error
	ClearMentor(ctx context.Context, id, currentMentorID string) error
	Close(ctx context.Context, id string, closedAt time.Time, requireMentorID *string) error

	// MaxAssignedID supports the allocator's degraded recovery scan.
	MaxAssignedID(ctx context.Context) (int64, error)
}

const ticketColumns = `id, requester_id, requester_name, title, description, location,
               categories, status, mentor_id, mentor_name, created_at, closed_at`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, requester_id, requester_name, title, description, location, categories, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.RequesterID,
		ticket.RequesterName,
		ticket.Title,
		ticket.Description,
		ticket.Location,
		ticket.Categories,
		ticket.Status,
		ticket.CreatedAt,
	)
	if err != nil {
		return storeErr("create ticket", err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.RequesterID,
		&ticket.RequesterName,
		&ticket.Title,
		&ticket.Description,
		&ticket.Location,
		&ticket.Categories,
		&ticket.Status,
		&ticket.MentorID,
		&ticket.MentorName,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, translateGet("get ticket", err)
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByRequester(ctx context.Context, requesterID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE requester_id=$1 ORDER BY created_at`
	return r.list(ctx, query, requesterID)
}

func (r *ticketRepository) ListOpen(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE status=$1 ORDER BY created_at`
	return r.list(ctx, query, domain.TicketStatusOpen)
}

func (r *ticketRepository) ListByMentor(ctx context.Context, mentorID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE mentor_id=$1 ORDER BY created_at`
	return r.list(ctx, query, mentorID)
}

func (r *ticketRepository) ListByCategory(ctx context.Context, category string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE $1 = ANY(categories) ORDER BY created_at`
	return r.list(ctx, query, category)
}

func (r *ticketRepository) CountOpenByRequester(ctx context.Context, requesterID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE requester_id=$1 AND status=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, requesterID, domain.TicketStatusOpen).Scan(&count); err != nil {
		return 0, storeErr("count open tickets", err)
	}
	return count, nil
}

func (r *ticketRepository) AssignMentor(ctx context.Context, id, mentorID, mentorName string) error {
	const query = `
        UPDATE tickets SET mentor_id=$2, mentor_name=$3
        WHERE id=$1 AND status=$4 AND mentor_id IS NULL`
	return r.conditional(ctx, "assign mentor", query, id, mentorID, mentorName, domain.TicketStatusOpen)
}

func (r *ticketRepository) ReplaceMentor(ctx context.Context, id, currentMentorID, newMentorID, newMentorName string) error {
	const query = `
        UPDATE tickets SET mentor_id=$3, mentor_name=$4
        WHERE id=$1 AND status=$5 AND mentor_id=$2`
	return r.conditional(ctx, "replace mentor", query, id, currentMentorID, newMentorID, newMentorName, domain.TicketStatusOpen)
}

func (r *ticketRepository) ClearMentor(ctx context.Context, id, currentMentorID string) error {
	const query = `
        UPDATE tickets SET mentor_id=NULL, mentor_name=NULL
        WHERE id=$1 AND status=$3 AND mentor_id=$2`
	return r.conditional(ctx, "clear mentor", query, id, currentMentorID, domain.TicketStatusOpen)
}

func (r *ticketRepository) Close(ctx context.Context, id string, closedAt time.Time, requireMentorID *string) error {
	if requireMentorID != nil {
		const query = `
            UPDATE tickets SET status=$3, closed_at=$4
            WHERE id=$1 AND status=$5 AND mentor_id=$2`
		return r.conditional(ctx, "close ticket", query, id, *requireMentorID, domain.TicketStatusClosed, closedAt, domain.TicketStatusOpen)
	}
	const query = `
        UPDATE tickets SET status=$2, closed_at=$3
        WHERE id=$1 AND status=$4`
	return r.conditional(ctx, "close ticket", query, id, domain.TicketStatusClosed, closedAt, domain.TicketStatusOpen)
}

func (r *ticketRepository) MaxAssignedID(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(MAX(id::bigint), 0) FROM tickets WHERE id ~ '^[0-9]+$'`
	var max int64
	if err := r.pool.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, storeErr("scan max ticket id", err)
	}
	return max, nil
}

func (r *ticketRepository) conditional(ctx context.Context, op, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return storeErr(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPreconditionFailed
	}
	return nil
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list tickets", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.RequesterID,
			&ticket.RequesterName,
			&ticket.Title,
			&ticket.Description,
			&ticket.Location,
			&ticket.Categories,
			&ticket.Status,
			&ticket.MentorID,
			&ticket.MentorName,
			&ticket.CreatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, storeErr("scan ticket", err)
		}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate tickets", err)
	}
	return result, nil
}
