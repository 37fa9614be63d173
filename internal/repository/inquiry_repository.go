package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estatehub/estate-service/internal/domain"
)

// InquiryFilter scopes an agent's inquiry listing.
type InquiryFilter struct {
	AgentID    string
	Status     *domain.InquiryStatus
	PropertyID *string
}

// InquiryRepository encapsulates inquiry persistence.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	ListForAgent(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error)
	Delete(ctx context.Context, id string) error
	StatsForAgent(ctx context.Context, agentID string) (domain.InquiryStats, error)
	OwnerOf(ctx context.Context, id string) (string, bool, error)
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository instantiates repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

const inquirySelect = `
        SELECT i.id, i.property_id, i.name, i.email, i.phone, i.message, i.status, i.created_at, i.updated_at,
               p.title, p.city, p.state, p.location, p.agent_id
        FROM inquiries i
        JOIN properties p ON p.id = i.property_id`

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (property_id, name, email, phone, message, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		inquiry.PropertyID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Message,
		inquiry.Status,
	).Scan(&inquiry.ID, &inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}
	inquiry, err := scanInquiry(r.pool.QueryRow(ctx, inquirySelect+` WHERE i.id=$1`, id))
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) ListForAgent(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error) {
	if !isUUID(filter.AgentID) {
		return []domain.Inquiry{}, nil
	}
	args := []any{filter.AgentID}
	query := inquirySelect + ` WHERE p.agent_id=$1`
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND i.status=$%d", len(args))
	}
	if filter.PropertyID != nil {
		if !isUUID(*filter.PropertyID) {
			return []domain.Inquiry{}, nil
		}
		args = append(args, *filter.PropertyID)
		query += fmt.Sprintf(" AND i.property_id=$%d", len(args))
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Inquiry{}
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inquiry)
	}
	return result, rows.Err()
}

func (r *inquiryRepository) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE inquiries SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *inquiryRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM inquiries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepository) StatsForAgent(ctx context.Context, agentID string) (domain.InquiryStats, error) {
	var stats domain.InquiryStats
	if !isUUID(agentID) {
		return stats, nil
	}
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE i.status='new'),
               COUNT(*) FILTER (WHERE i.status='contacted'),
               COUNT(*) FILTER (WHERE i.status='scheduled'),
               COUNT(*) FILTER (WHERE i.status='closed')
        FROM inquiries i
        JOIN properties p ON p.id = i.property_id
        WHERE p.agent_id=$1`
	err := r.pool.QueryRow(ctx, query, agentID).Scan(
		&stats.Total,
		&stats.New,
		&stats.Contacted,
		&stats.Scheduled,
		&stats.Closed,
	)
	return stats, err
}

// OwnerOf follows inquiry -> property -> agent.
func (r *inquiryRepository) OwnerOf(ctx context.Context, id string) (string, bool, error) {
	if !isUUID(id) {
		return "", false, nil
	}
	const query = `
        SELECT p.agent_id
        FROM inquiries i
        JOIN properties p ON p.id = i.property_id
        WHERE i.id=$1`
	var agentID string
	err := r.pool.QueryRow(ctx, query, id).Scan(&agentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return agentID, true, nil
}

func scanInquiry(row rowScanner) (domain.Inquiry, error) {
	var (
		inquiry domain.Inquiry
		ref     domain.PropertyRef
	)
	if err := row.Scan(
		&inquiry.ID,
		&inquiry.PropertyID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.Message,
		&inquiry.Status,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
		&ref.Title,
		&ref.City,
		&ref.State,
		&ref.Location,
		&ref.AgentID,
	); err != nil {
		return domain.Inquiry{}, err
	}
	inquiry.Property = &ref
	return inquiry, nil
}
