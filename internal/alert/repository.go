package alert

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, b *Broadcast) error
	ListBySOS(ctx context.Context, ext sqlx.ExtContext, sosReportID string) ([]*Broadcast, error)
}

type alertRepository struct{}

func NewAlertRepository() Repository {
	return &alertRepository{}
}

func (r *alertRepository) Insert(ctx context.Context, ext sqlx.ExtContext, b *Broadcast) error {
	query := `
		INSERT INTO alert_broadcasts (id, sos_report_id, alert_type, message, broadcast_scope,
		                              latitude, longitude, broadcaster_type, recipients_reached,
		                              broadcast_time)
		VALUES (:id, :sos_report_id, :alert_type, :message, :broadcast_scope,
		        :latitude, :longitude, :broadcaster_type, :recipients_reached,
		        :broadcast_time)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, b)
	return err
}

func (r *alertRepository) ListBySOS(ctx context.Context, ext sqlx.ExtContext, sosReportID string) ([]*Broadcast, error) {
	broadcasts := []*Broadcast{}
	query := `SELECT * FROM alert_broadcasts WHERE sos_report_id = $1 ORDER BY broadcast_time DESC`
	if err := sqlx.SelectContext(ctx, ext, &broadcasts, query, sosReportID); err != nil {
		return nil, err
	}
	return broadcasts, nil
}
