package assist

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, o *Offer) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*Offer, error)
	Update(ctx context.Context, ext sqlx.ExtContext, o *Offer) error
	ListBySOS(ctx context.Context, ext sqlx.ExtContext, sosReportID string, availableOnly bool) ([]*Offer, error)
}

var ErrNoRows = errors.New("assistance offer not found")

type assistRepository struct{}

func NewAssistRepository() Repository {
	return &assistRepository{}
}

func (r *assistRepository) Insert(ctx context.Context, ext sqlx.ExtContext, o *Offer) error {
	query := `
		INSERT INTO crowd_assistance (id, sos_report_id, helper_name, helper_phone,
		                              latitude, longitude, assistance_type, description,
		                              availability_status, distance_km, estimated_arrival_min,
		                              offered_at, accepted_at, updated_at)
		VALUES (:id, :sos_report_id, :helper_name, :helper_phone,
		        :latitude, :longitude, :assistance_type, :description,
		        :availability_status, :distance_km, :estimated_arrival_min,
		        :offered_at, :accepted_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, o)
	return err
}

func (r *assistRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*Offer, error) {
	var o Offer
	err := sqlx.GetContext(ctx, ext, &o, `SELECT * FROM crowd_assistance WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *assistRepository) Update(ctx context.Context, ext sqlx.ExtContext, o *Offer) error {
	query := `
		UPDATE crowd_assistance
		SET availability_status = :availability_status, accepted_at = :accepted_at,
		    updated_at = :updated_at
		WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, ext, query, o)
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

func (r *assistRepository) ListBySOS(ctx context.Context, ext sqlx.ExtContext, sosReportID string, availableOnly bool) ([]*Offer, error) {
	offers := []*Offer{}
	query := `SELECT * FROM crowd_assistance WHERE sos_report_id = $1`
	if availableOnly {
		query += ` AND availability_status = 'available'`
	}
	query += ` ORDER BY distance_km, id`
	if err := sqlx.SelectContext(ctx, ext, &offers, query, sosReportID); err != nil {
		return nil, err
	}
	return offers, nil
}
