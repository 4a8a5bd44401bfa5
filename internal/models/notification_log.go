package models

import "time"

// Notification types recorded in the log.
const (
	NotificationTaskAssigned      = "task_assigned"
	NotificationTaskCompleted     = "task_completed"
	NotificationEmailVerification = "email_verification"
)

// Delivery channels.
const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

// NotificationLog — одна запись на каждую попытку отправки.
// Append-only: записи никогда не изменяются и не удаляются.
type NotificationLog struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	TaskID    *int64    `json:"task_id,omitempty"`
	Type      string    `json:"notification_type"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Success   bool      `json:"sent_successfully"`
	SentAt    time.Time `json:"sent_at"`
}
