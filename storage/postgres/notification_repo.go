package postgres

import (
	"context"
	"time"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

type notificationRepo struct {
	db  DB
	log logger.ILogger
}

func NewNotificationRepo(db DB, log logger.ILogger) storage.INotificationStorage {
	return &notificationRepo{db: db, log: log}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, type, payload, read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING seq, created_at
	`, n.ID, n.UserID, n.Type, n.Payload).Scan(&n.Seq, &n.CreatedAt)
	if err != nil {
		r.log.Error("failed to create notification", logger.Error(err))
		return apperr.Internal("create notification", err)
	}
	return nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID int64, cursor *int64, limit int) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT seq, id, user_id, type, payload, read, created_at
		FROM notifications
		WHERE user_id = $1
		  AND ($2::bigint IS NULL OR seq < $2)
		ORDER BY seq DESC
		LIMIT $3
	`, userID, cursor, limit+1)
	if err != nil {
		r.log.Error("failed to query notifications", logger.Error(err))
		return nil, apperr.Internal("query notifications", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.Seq, &n.ID, &n.UserID, &n.Type, &n.Payload, &n.Read, &n.CreatedAt); err != nil {
			return nil, apperr.Internal("scan notification", err)
		}
		out = append(out, &n)
	}
	return out, nil
}

func (r *notificationRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read
	`, userID).Scan(&count)
	if err != nil {
		r.log.Error("failed to count unread notifications", logger.Error(err))
		return 0, apperr.Internal("count unread notifications", err)
	}
	return count, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = true WHERE user_id = $1 AND NOT read
	`, userID)
	if err != nil {
		r.log.Error("failed to mark notifications read", logger.Error(err))
		return apperr.Internal("mark notifications read", err)
	}
	return nil
}

type auditRepo struct {
	db  DB
	log logger.ILogger
}

func NewAuditRepo(db DB, log logger.ILogger) storage.IAuditStorage {
	return &auditRepo{db: db, log: log}
}

func (r *auditRepo) Record(ctx context.Context, actorID int64, action, entity string, entityID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_log (actor_id, action, entity, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, actorID, action, entity, entityID, at)
	if err != nil {
		r.log.Error("failed to record audit entry", logger.Error(err))
		return apperr.Internal("record audit entry", err)
	}
	return nil
}
