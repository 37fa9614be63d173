package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estatehub/estate-service/internal/domain"
)

// PropertyFilter captures public search parameters.
type PropertyFilter struct {
	City         *string
	State        *string
	PropertyType *domain.PropertyType
	MinPrice     *float64
	MaxPrice     *float64
	MinBeds      *int
	Status       *domain.PropertyStatus
	Featured     *bool
	Limit        int
	Offset       int
}

// PropertyRepository encapsulates listing persistence.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]domain.Property, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error)
	Update(ctx context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error)
	UpdateImages(ctx context.Context, id string, images []string) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
	OwnerOf(ctx context.Context, id string) (string, bool, error)
}

type propertyRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyRepository instantiates repository.
func NewPropertyRepository(pool *pgxpool.Pool) PropertyRepository {
	return &propertyRepository{pool: pool}
}

const propertySelect = `
        SELECT p.id, p.agent_id, p.title, p.description, p.location, p.city, p.state,
               p.price::float8, p.beds, p.baths, p.sqft, p.property_type, p.year_built, p.status,
               p.featured, p.images, p.amenities, p.latitude, p.longitude, p.address, p.zip_code,
               p.created_at, p.updated_at,
               u.first_name, u.last_name, u.email, u.phone, u.avatar_url
        FROM properties p
        JOIN users u ON u.id = p.agent_id`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (agent_id, title, description, location, city, state, price, beds, baths, sqft,
            property_type, year_built, status, featured, images, amenities, latitude, longitude, address, zip_code)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING id, created_at, updated_at`
	property.Images = nonNil(property.Images)
	property.Amenities = nonNil(property.Amenities)
	return r.pool.QueryRow(ctx, query,
		property.AgentID,
		property.Title,
		property.Description,
		property.Location,
		property.City,
		property.State,
		property.Price,
		property.Beds,
		property.Baths,
		property.Sqft,
		property.PropertyType,
		property.YearBuilt,
		property.Status,
		property.Featured,
		property.Images,
		property.Amenities,
		property.Latitude,
		property.Longitude,
		property.Address,
		property.ZipCode,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}
	property, err := scanProperty(r.pool.QueryRow(ctx, propertySelect+` WHERE p.id=$1`, id))
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.Property, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("p.status=$%d", len(args)))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("LOWER(p.city)=LOWER($%d)", len(args)))
	}
	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("LOWER(p.state)=LOWER($%d)", len(args)))
	}
	if filter.PropertyType != nil {
		args = append(args, *filter.PropertyType)
		clauses = append(clauses, fmt.Sprintf("p.property_type=$%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		clauses = append(clauses, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	if filter.MinBeds != nil {
		args = append(args, *filter.MinBeds)
		clauses = append(clauses, fmt.Sprintf("p.beds >= $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		clauses = append(clauses, fmt.Sprintf("p.featured=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d`,
		propertySelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func (r *propertyRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error) {
	if !isUUID(agentID) {
		return []domain.Property{}, nil
	}
	rows, err := r.pool.Query(ctx, propertySelect+` WHERE p.agent_id=$1 ORDER BY p.created_at DESC`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

// Update writes only the columns present in patch.
func (r *propertyRepository) Update(ctx context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}

	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.City != nil {
		set("city", *patch.City)
	}
	if patch.State != nil {
		set("state", *patch.State)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Beds != nil {
		set("beds", *patch.Beds)
	}
	if patch.Baths != nil {
		set("baths", *patch.Baths)
	}
	if patch.Sqft != nil {
		set("sqft", *patch.Sqft)
	}
	if patch.PropertyType != nil {
		set("property_type", *patch.PropertyType)
	}
	if patch.YearBuilt != nil {
		set("year_built", *patch.YearBuilt)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Featured != nil {
		set("featured", *patch.Featured)
	}
	if patch.Amenities != nil {
		set("amenities", nonNil(*patch.Amenities))
	}
	if patch.Latitude != nil {
		set("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		set("longitude", *patch.Longitude)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.ZipCode != nil {
		set("zip_code", *patch.ZipCode)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE properties SET %s, updated_at=NOW() WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *propertyRepository) UpdateImages(ctx context.Context, id string, images []string) (*domain.Property, error) {
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE properties SET images=$1, updated_at=NOW() WHERE id=$2`, nonNil(images), id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// OwnerOf returns the agent that owns the property.
func (r *propertyRepository) OwnerOf(ctx context.Context, id string) (string, bool, error) {
	if !isUUID(id) {
		return "", false, nil
	}
	var agentID string
	err := r.pool.QueryRow(ctx, `SELECT agent_id FROM properties WHERE id=$1`, id).Scan(&agentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return agentID, true, nil
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var (
		property domain.Property
		agent    domain.AgentSummary
	)
	if err := row.Scan(
		&property.ID,
		&property.AgentID,
		&property.Title,
		&property.Description,
		&property.Location,
		&property.City,
		&property.State,
		&property.Price,
		&property.Beds,
		&property.Baths,
		&property.Sqft,
		&property.PropertyType,
		&property.YearBuilt,
		&property.Status,
		&property.Featured,
		&property.Images,
		&property.Amenities,
		&property.Latitude,
		&property.Longitude,
		&property.Address,
		&property.ZipCode,
		&property.CreatedAt,
		&property.UpdatedAt,
		&agent.FirstName,
		&agent.LastName,
		&agent.Email,
		&agent.Phone,
		&agent.AvatarURL,
	); err != nil {
		return domain.Property{}, err
	}
	agent.ID = property.AgentID
	property.Agent = &agent
	property.Images = nonNil(property.Images)
	property.Amenities = nonNil(property.Amenities)
	return property, nil
}

func scanProperties(rows pgx.Rows) ([]domain.Property, error) {
	result := []domain.Property{}
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, property)
	}
	return result, rows.Err()
}
