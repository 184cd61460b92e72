package sos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, r *SOSReport) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*SOSReport, error)
	Update(ctx context.Context, ext sqlx.ExtContext, r *SOSReport) error
	ListActive(ctx context.Context, ext sqlx.ExtContext, limit int) ([]*SOSReport, error)
	ListByStatus(ctx context.Context, ext sqlx.ExtContext, status Status) ([]*SOSReport, error)
	ListByType(ctx context.Context, ext sqlx.ExtContext, emergencyType EmergencyType, activeOnly bool) ([]*SOSReport, error)
	CountActive(ctx context.Context, ext sqlx.ExtContext) (int, error)
	CountResolvedSince(ctx context.Context, ext sqlx.ExtContext, since time.Time) (int, error)
	CountUrgentActive(ctx context.Context, ext sqlx.ExtContext) (int, error)
	AverageResponseMinutes(ctx context.Context, ext sqlx.ExtContext) (float64, error)
	MostCommonEmergencyType(ctx context.Context, ext sqlx.ExtContext) (string, error)
	CountAvailableHelpers(ctx context.Context, ext sqlx.ExtContext) (int, error)
}

var ErrNoRows = errors.New("sos report not found")

const activeStatuses = `('pending', 'acknowledged', 'in_progress')`

type sosRepository struct{}

func NewSOSRepository() Repository {
	return &sosRepository{}
}

func (r *sosRepository) Insert(ctx context.Context, ext sqlx.ExtContext, report *SOSReport) error {
	query := `
		INSERT INTO sos_reports (id, reporter_name, reporter_phone, reporter_email,
		                         latitude, longitude, emergency_type, description,
		                         severity_score, status, num_people_affected, has_injuries,
		                         requires_evacuation, is_urgent, metadata, nearest_resource_id,
		                         crowd_assistance_enabled, reported_at, acknowledged_at,
		                         resolved_at, updated_at)
		VALUES (:id, :reporter_name, :reporter_phone, :reporter_email,
		        :latitude, :longitude, :emergency_type, :description,
		        :severity_score, :status, :num_people_affected, :has_injuries,
		        :requires_evacuation, :is_urgent, :metadata, :nearest_resource_id,
		        :crowd_assistance_enabled, :reported_at, :acknowledged_at,
		        :resolved_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, report)
	return err
}

func (r *sosRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*SOSReport, error) {
	var report SOSReport
	err := sqlx.GetContext(ctx, ext, &report, `SELECT * FROM sos_reports WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *sosRepository) Update(ctx context.Context, ext sqlx.ExtContext, report *SOSReport) error {
	query := `
		UPDATE sos_reports
		SET status = :status, description = :description,
		    nearest_resource_id = :nearest_resource_id,
		    acknowledged_at = :acknowledged_at, resolved_at = :resolved_at,
		    updated_at = :updated_at
		WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, ext, query, report)
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

// ListActive returns active reports newest first. A non-positive limit means
// no limit.
func (r *sosRepository) ListActive(ctx context.Context, ext sqlx.ExtContext, limit int) ([]*SOSReport, error) {
	reports := []*SOSReport{}
	query := `SELECT * FROM sos_reports WHERE status IN ` + activeStatuses + ` ORDER BY reported_at DESC`
	if limit > 0 {
		if err := sqlx.SelectContext(ctx, ext, &reports, query+` LIMIT $1`, limit); err != nil {
			return nil, err
		}
		return reports, nil
	}
	if err := sqlx.SelectContext(ctx, ext, &reports, query); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *sosRepository) ListByStatus(ctx context.Context, ext sqlx.ExtContext, status Status) ([]*SOSReport, error) {
	reports := []*SOSReport{}
	query := `SELECT * FROM sos_reports WHERE status = $1 ORDER BY reported_at DESC`
	if err := sqlx.SelectContext(ctx, ext, &reports, query, status); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *sosRepository) ListByType(ctx context.Context, ext sqlx.ExtContext, emergencyType EmergencyType, activeOnly bool) ([]*SOSReport, error) {
	reports := []*SOSReport{}
	query := `SELECT * FROM sos_reports WHERE emergency_type = $1`
	if activeOnly {
		query += ` AND status IN ` + activeStatuses
	}
	query += ` ORDER BY reported_at DESC`
	if err := sqlx.SelectContext(ctx, ext, &reports, query, emergencyType); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *sosRepository) CountActive(ctx context.Context, ext sqlx.ExtContext) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, ext, &count, `SELECT COUNT(*) FROM sos_reports WHERE status IN `+activeStatuses)
	return count, err
}

func (r *sosRepository) CountResolvedSince(ctx context.Context, ext sqlx.ExtContext, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sos_reports WHERE status = 'resolved' AND resolved_at >= $1`
	err := sqlx.GetContext(ctx, ext, &count, query, since)
	return count, err
}

func (r *sosRepository) CountUrgentActive(ctx context.Context, ext sqlx.ExtContext) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sos_reports WHERE is_urgent AND status IN ` + activeStatuses
	err := sqlx.GetContext(ctx, ext, &count, query)
	return count, err
}

func (r *sosRepository) AverageResponseMinutes(ctx context.Context, ext sqlx.ExtContext) (float64, error) {
	var avg sql.NullFloat64
	query := `
		SELECT AVG(EXTRACT(EPOCH FROM (acknowledged_at - reported_at)) / 60)
		FROM sos_reports
		WHERE acknowledged_at IS NOT NULL`
	if err := sqlx.GetContext(ctx, ext, &avg, query); err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *sosRepository) MostCommonEmergencyType(ctx context.Context, ext sqlx.ExtContext) (string, error) {
	var emergencyType string
	query := `
		SELECT emergency_type FROM sos_reports
		GROUP BY emergency_type
		ORDER BY COUNT(*) DESC, emergency_type
		LIMIT 1`
	err := sqlx.GetContext(ctx, ext, &emergencyType, query)
	if err == sql.ErrNoRows {
		return "unknown", nil
	}
	if err != nil {
		return "", err
	}
	return emergencyType, nil
}

func (r *sosRepository) CountAvailableHelpers(ctx context.Context, ext sqlx.ExtContext) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM crowd_assistance WHERE availability_status = 'available'`
	err := sqlx.GetContext(ctx, ext, &count, query)
	return count, err
}
