package disaster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, d *Disaster) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*Disaster, error)
	Update(ctx context.Context, ext sqlx.ExtContext, d *Disaster) error
	ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, validatedOnly bool) ([]*Disaster, error)
	Stats(ctx context.Context, ext sqlx.ExtContext) (*Stats, error)
}

var ErrNoRows = errors.New("disaster not found")

type disasterRepository struct{}

func NewDisasterRepository() Repository {
	return &disasterRepository{}
}

func (r *disasterRepository) Insert(ctx context.Context, ext sqlx.ExtContext, d *Disaster) error {
	query := `
		INSERT INTO disasters (id, type, status, latitude, longitude, severity_score,
		                       is_validated, validation_score, validation_details,
		                       affected_area_radius_km, estimated_affected_population,
		                       num_casualties, description, source, metadata,
		                       reported_at, validated_at, resolved_at, updated_at)
		VALUES (:id, :type, :status, :latitude, :longitude, :severity_score,
		        :is_validated, :validation_score, :validation_details,
		        :affected_area_radius_km, :estimated_affected_population,
		        :num_casualties, :description, :source, :metadata,
		        :reported_at, :validated_at, :resolved_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, d)
	return err
}

func (r *disasterRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*Disaster, error) {
	var d Disaster
	err := sqlx.GetContext(ctx, ext, &d, `SELECT * FROM disasters WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *disasterRepository) Update(ctx context.Context, ext sqlx.ExtContext, d *Disaster) error {
	query := `
		UPDATE disasters
		SET status = :status, severity_score = :severity_score,
		    is_validated = :is_validated, validation_score = :validation_score,
		    validation_details = :validation_details,
		    num_casualties = :num_casualties,
		    validated_at = :validated_at, resolved_at = :resolved_at,
		    updated_at = :updated_at
		WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, ext, query, d)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *disasterRepository) ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, validatedOnly bool) ([]*Disaster, error) {
	query := `SELECT * FROM disasters WHERE 1=1`
	args := []any{}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if validatedOnly {
		query += ` AND is_validated = TRUE`
	}
	query += ` ORDER BY reported_at DESC`

	disasters := []*Disaster{}
	if err := sqlx.SelectContext(ctx, ext, &disasters, query, args...); err != nil {
		return nil, err
	}
	return disasters, nil
}

func (r *disasterRepository) Stats(ctx context.Context, ext sqlx.ExtContext) (*Stats, error) {
	var counts struct {
		Total     int `db:"total"`
		Validated int `db:"validated"`
		Active    int `db:"active"`
	}
	query := `
		SELECT COUNT(*)                                            AS total,
		       COUNT(*) FILTER (WHERE is_validated)                AS validated,
		       COUNT(*) FILTER (WHERE status = 'active')           AS active
		FROM disasters`
	if err := sqlx.GetContext(ctx, ext, &counts, query); err != nil {
		return nil, err
	}

	type typeCount struct {
		Type  string `db:"type"`
		Count int    `db:"count"`
	}
	byType := []typeCount{}
	if err := sqlx.SelectContext(ctx, ext, &byType, `SELECT type, COUNT(*) AS count FROM disasters GROUP BY type`); err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalDisasters:     counts.Total,
		ValidatedDisasters: counts.Validated,
		ActiveDisasters:    counts.Active,
		ByType:             make(map[string]int, len(byType)),
	}
	if counts.Total > 0 {
		stats.ValidationRate = float64(counts.Validated) / float64(counts.Total) * 100
	}
	for _, tc := range byType {
		stats.ByType[tc.Type] = tc.Count
	}
	return stats, nil
}
