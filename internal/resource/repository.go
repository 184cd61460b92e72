package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, r *Resource) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*Resource, error)
	Update(ctx context.Context, ext sqlx.ExtContext, r *Resource) error
	ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, resourceType *Type) ([]*Resource, error)
	ListAvailableForUpdate(ctx context.Context, ext sqlx.ExtContext, resourceType *Type) ([]*Resource, error)
	ListStale(ctx context.Context, ext sqlx.ExtContext, cutoff time.Time) ([]*Resource, error)
}

var ErrNoRows = errors.New("resource not found")

type resourceRepository struct{}

func NewResourceRepository() Repository {
	return &resourceRepository{}
}

func (r *resourceRepository) Insert(ctx context.Context, ext sqlx.ExtContext, res *Resource) error {
	query := `
		INSERT INTO resources (id, name, type, status, latitude, longitude, speed, heading, metadata, last_updated, created_at)
		VALUES (:id, :name, :type, :status, :latitude, :longitude, :speed, :heading, :metadata, :last_updated, :created_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, res)
	return err
}

func (r *resourceRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id string) (*Resource, error) {
	var res Resource
	err := sqlx.GetContext(ctx, ext, &res, `SELECT * FROM resources WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resourceRepository) Update(ctx context.Context, ext sqlx.ExtContext, res *Resource) error {
	query := `
		UPDATE resources
		SET name = :name, type = :type, status = :status,
		    latitude = :latitude, longitude = :longitude,
		    speed = :speed, heading = :heading,
		    metadata = :metadata, last_updated = :last_updated
		WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, ext, query, res)
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

func (r *resourceRepository) ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, resourceType *Type) ([]*Resource, error) {
	query := `SELECT * FROM resources WHERE 1=1`
	args := []any{}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if resourceType != nil {
		args = append(args, *resourceType)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	query += ` ORDER BY created_at`

	resources := []*Resource{}
	if err := sqlx.SelectContext(ctx, ext, &resources, query, args...); err != nil {
		return nil, err
	}
	return resources, nil
}

// ListAvailableForUpdate locks the available rows so a concurrent dispatch
// cannot claim the same resource. Must run inside a transaction.
func (r *resourceRepository) ListAvailableForUpdate(ctx context.Context, ext sqlx.ExtContext, resourceType *Type) ([]*Resource, error) {
	query := `SELECT * FROM resources WHERE status = 'available'`
	args := []any{}
	if resourceType != nil {
		args = append(args, *resourceType)
		query += ` AND type = $1`
	}
	query += ` ORDER BY id FOR UPDATE`

	resources := []*Resource{}
	if err := sqlx.SelectContext(ctx, ext, &resources, query, args...); err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepository) ListStale(ctx context.Context, ext sqlx.ExtContext, cutoff time.Time) ([]*Resource, error) {
	resources := []*Resource{}
	query := `SELECT * FROM resources WHERE status != 'offline' AND last_updated < $1`
	if err := sqlx.SelectContext(ctx, ext, &resources, query, cutoff); err != nil {
		return nil, err
	}
	return resources, nil
}
