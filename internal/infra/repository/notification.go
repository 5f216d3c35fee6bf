package repository

import (
	"context"
	"time"

	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

const createJobSQL = `
INSERT INTO notification_jobs (id, kind, topic, payload, run_at, created_at)
VALUES ($1, $2, $3, $4, $5, now())`

// CreateJob records outbound work (email delivery) as a row so the side
// effect commits or rolls back with the transaction that caused it.
func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := dbtx.Exec(ctx, createJobSQL,
		pgconv.UUIDToPgtype(uuid.New()),
		kind,
		topic,
		payload,
		pgconv.TimeToPgtype(runAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
