package dispatch

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, d *DispatchRecord) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*DispatchRecord, error)
	Update(ctx context.Context, ext sqlx.ExtContext, d *DispatchRecord) error
	ListActive(ctx context.Context, ext sqlx.ExtContext) ([]*DispatchRecord, error)
}

var ErrNoRows = errors.New("dispatch record not found")

type dispatchRepository struct{}

func NewDispatchRepository() Repository {
	return &dispatchRepository{}
}

func (r *dispatchRepository) Insert(ctx context.Context, ext sqlx.ExtContext, d *DispatchRecord) error {
	query := `
		INSERT INTO dispatch_records (id, resource_id, disaster_lat, disaster_lon, disaster_type,
		                              severity_score, distance_km, dispatch_time, estimated_arrival,
		                              actual_arrival, status, created_at)
		VALUES (:id, :resource_id, :disaster_lat, :disaster_lon, :disaster_type,
		        :severity_score, :distance_km, :dispatch_time, :estimated_arrival,
		        :actual_arrival, :status, :created_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, d)
	return err
}

func (r *dispatchRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*DispatchRecord, error) {
	var d DispatchRecord
	err := sqlx.GetContext(ctx, ext, &d, `SELECT * FROM dispatch_records WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *dispatchRepository) Update(ctx context.Context, ext sqlx.ExtContext, d *DispatchRecord) error {
	query := `
		UPDATE dispatch_records
		SET status = :status, actual_arrival = :actual_arrival
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

func (r *dispatchRepository) ListActive(ctx context.Context, ext sqlx.ExtContext) ([]*DispatchRecord, error) {
	records := []*DispatchRecord{}
	query := `SELECT * FROM dispatch_records WHERE status IN ('dispatched', 'en_route') ORDER BY dispatch_time`
	if err := sqlx.SelectContext(ctx, ext, &records, query); err != nil {
		return nil, err
	}
	return records, nil
}
