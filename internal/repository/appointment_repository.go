package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estatehub/estate-service/internal/domain"
)

// AppointmentFilter scopes an agent's appointment listing.
type AppointmentFilter struct {
	AgentID    string
	Status     *domain.AppointmentStatus
	PropertyID *string
}

// AppointmentRepository encapsulates viewing request persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListForAgent(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	StatsForAgent(ctx context.Context, agentID string) (domain.AppointmentStats, error)
	OwnerOf(ctx context.Context, id string) (string, bool, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentSelect = `
        SELECT a.id, a.property_id, a.name, a.email, a.phone, a.preferred_date,
               to_char(a.preferred_time, 'HH24:MI'), a.message, a.status, a.created_at, a.updated_at,
               p.title, p.city, p.state, p.location, p.agent_id
        FROM appointments a
        JOIN properties p ON p.id = a.property_id`

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (property_id, name, email, phone, preferred_date, preferred_time, message, status)
        VALUES ($1, $2, $3, $4, $5::date, $6::text::time, $7, $8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		appointment.PropertyID,
		appointment.Name,
		appointment.Email,
		appointment.Phone,
		appointment.PreferredDate,
		appointment.PreferredTime,
		appointment.Message,
		appointment.Status,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}
	appointment, err := scanAppointment(r.pool.QueryRow(ctx, appointmentSelect+` WHERE a.id=$1`, id))
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListForAgent(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error) {
	if !isUUID(filter.AgentID) {
		return []domain.Appointment{}, nil
	}
	args := []any{filter.AgentID}
	query := appointmentSelect + ` WHERE p.agent_id=$1`
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND a.status=$%d", len(args))
	}
	if filter.PropertyID != nil {
		if !isUUID(*filter.PropertyID) {
			return []domain.Appointment{}, nil
		}
		args = append(args, *filter.PropertyID)
		query += fmt.Sprintf(" AND a.property_id=$%d", len(args))
	}
	query += ` ORDER BY a.preferred_date ASC, a.preferred_time ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, appointment)
	}
	return result, rows.Err()
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE appointments SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// StatsForAgent counts by status; upcoming means confirmed for today or later.
func (r *appointmentRepository) StatsForAgent(ctx context.Context, agentID string) (domain.AppointmentStats, error) {
	var stats domain.AppointmentStats
	if !isUUID(agentID) {
		return stats, nil
	}
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE a.status='pending'),
               COUNT(*) FILTER (WHERE a.status='confirmed'),
               COUNT(*) FILTER (WHERE a.status='cancelled'),
               COUNT(*) FILTER (WHERE a.status='completed'),
               COUNT(*) FILTER (WHERE a.status='confirmed' AND a.preferred_date >= CURRENT_DATE)
        FROM appointments a
        JOIN properties p ON p.id = a.property_id
        WHERE p.agent_id=$1`
	err := r.pool.QueryRow(ctx, query, agentID).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Confirmed,
		&stats.Cancelled,
		&stats.Completed,
		&stats.Upcoming,
	)
	return stats, err
}

// OwnerOf follows appointment -> property -> agent.
func (r *appointmentRepository) OwnerOf(ctx context.Context, id string) (string, bool, error) {
	if !isUUID(id) {
		return "", false, nil
	}
	const query = `
        SELECT p.agent_id
        FROM appointments a
        JOIN properties p ON p.id = a.property_id
        WHERE a.id=$1`
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

func scanAppointment(row rowScanner) (domain.Appointment, error) {
	var (
		appointment domain.Appointment
		ref         domain.PropertyRef
	)
	if err := row.Scan(
		&appointment.ID,
		&appointment.PropertyID,
		&appointment.Name,
		&appointment.Email,
		&appointment.Phone,
		&appointment.PreferredDate,
		&appointment.PreferredTime,
		&appointment.Message,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&ref.Title,
		&ref.City,
		&ref.State,
		&ref.Location,
		&ref.AgentID,
	); err != nil {
		return domain.Appointment{}, err
	}
	appointment.Property = &ref
	return appointment, nil
}
