package repositories

import (
	"context"
	"database/sql"

	"todoapp/internal/models"
)

// NotificationLogRepository is insert-only: the log is never updated or
// deleted by application code.
type NotificationLogRepository interface {
	Store(ctx context.Context, entry *models.NotificationLog) error
	ListByUser(ctx context.Context, userID int, limit, offset int) ([]models.NotificationLog, error)
}

type notificationLogRepository struct {
	db *sql.DB
}

func NewNotificationLogRepository(db *sql.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Store(ctx context.Context, entry *models.NotificationLog) error {
	const q = `
		INSERT INTO email_notification_logs (
			user_id, task_id, notification_type, channel,
			recipient_email, subject, sent_successfully, sent_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING id, sent_at`
	return r.db.QueryRowContext(ctx, q,
		entry.UserID, entry.TaskID, entry.Type, entry.Channel,
		entry.Recipient, entry.Subject, entry.Success,
	).Scan(&entry.ID, &entry.SentAt)
}

func (r *notificationLogRepository) ListByUser(ctx context.Context, userID int, limit, offset int) ([]models.NotificationLog, error) {
	const q = `
		SELECT id, user_id, task_id, notification_type, channel,
		       recipient_email, subject, sent_successfully, sent_at
		FROM email_notification_logs
		WHERE user_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.NotificationLog
	for rows.Next() {
		var e models.NotificationLog
		var taskID sql.NullInt64
		if err := rows.Scan(
			&e.ID, &e.UserID, &taskID, &e.Type, &e.Channel,
			&e.Recipient, &e.Subject, &e.Success, &e.SentAt,
		); err != nil {
			return nil, err
		}
		if taskID.Valid {
			v := taskID.Int64
			e.TaskID = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
