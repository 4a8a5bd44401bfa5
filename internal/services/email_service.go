package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"todoapp/internal/models"
	"todoapp/internal/repositories"
)

// EmailService sends task/account mail. Every send attempt is recorded in
// the notification log, success or not; delivery failures are returned to
// the caller only so it can log them — they must never fail the operation
// that triggered the mail.
type EmailService interface {
	SendVerificationEmail(ctx context.Context, user *models.User, token string) error
	SendTaskAssignedEmail(ctx context.Context, task *models.Task, assignee *models.User) error
	SendTaskCompletedEmail(ctx context.Context, task *models.Task, completedBy, creator *models.User) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	logs   repositories.NotificationLogRepository
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, logs repositories.NotificationLogRepository) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
		logs:   logs,
	}
}

func (s *emailService) SendVerificationEmail(ctx context.Context, user *models.User, token string) error {
	subject := "Verify your email"
	body := fmt.Sprintf(`
		<h2>Welcome to Todo App!</h2>
		<p>Please verify your email address using the following token:</p>
		<p><strong>%s</strong></p>
		<p>If you did not create this account, you can ignore this email.</p>
		<p>Best regards,<br>The Todo App Team</p>
	`, token)

	err := s.send(user.Email, subject, body)
	s.record(ctx, user.ID, nil, models.NotificationEmailVerification, user.Email, subject, err == nil)
	return err
}

func (s *emailService) SendTaskAssignedEmail(ctx context.Context, task *models.Task, assignee *models.User) error {
	if !assignee.ReceiveNotifications {
		return nil
	}
	subject := fmt.Sprintf("New Task Assigned: %s", task.Name)
	body := fmt.Sprintf(`
		<h2>New Task Assigned</h2>
		<p>Hi %s,</p>
		<p>A new task has been assigned to you:</p>
		<p><strong>Task:</strong> %s<br>
		<strong>Description:</strong> %s<br>
		<strong>Priority:</strong> %s<br>
		<strong>Window:</strong> %s &mdash; %s</p>
		<p>Please log in to your account to view and manage your tasks.</p>
		<p>Best regards,<br>The Todo App Team</p>
	`, assignee.Email, task.Name, orNone(task.Description),
		task.Priority, fmtDate(task.StartDate), fmtDate(task.EndDate))

	err := s.send(assignee.Email, subject, body)
	s.record(ctx, assignee.ID, &task.ID, models.NotificationTaskAssigned, assignee.Email, subject, err == nil)
	return err
}

func (s *emailService) SendTaskCompletedEmail(ctx context.Context, task *models.Task, completedBy, creator *models.User) error {
	if !creator.ReceiveNotifications {
		return nil
	}
	subject := fmt.Sprintf("Task Completed: %s", task.Name)
	body := fmt.Sprintf(`
		<h2>Task Completed</h2>
		<p>Hi %s,</p>
		<p>The task <strong>%s</strong> has been completed by %s at %s.</p>
		<p>Please log in to review the details.</p>
		<p>Best regards,<br>The Todo App Team</p>
	`, creator.Email, task.Name, completedBy.Email, time.Now().Format("2006-01-02 15:04"))

	err := s.send(creator.Email, subject, body)
	s.record(ctx, creator.ID, &task.ID, models.NotificationTaskCompleted, creator.Email, subject, err == nil)
	return err
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *emailService) record(ctx context.Context, userID int, taskID *int64, ntype, recipient, subject string, success bool) {
	if s.logs == nil {
		return
	}
	entry := &models.NotificationLog{
		UserID:    userID,
		TaskID:    taskID,
		Type:      ntype,
		Channel:   models.ChannelEmail,
		Recipient: recipient,
		Subject:   subject,
		Success:   success,
	}
	if err := s.logs.Store(ctx, entry); err != nil {
		log.Printf("[email][log][err] store notification log type=%s user=%d: %v", ntype, userID, err)
	}
}

func orNone(s string) string {
	if s == "" {
		return "No description"
	}
	return s
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
