package services

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todoapp/internal/models"
	"todoapp/internal/repositories"
)

// TelegramService mirrors the email channel for users who linked a chat.
// A nil *TelegramService is valid and skips every send.
type TelegramService struct {
	bot  *tgbotapi.BotAPI
	logs repositories.NotificationLogRepository
}

func NewTelegramService(botToken string, logs repositories.NotificationLogRepository) (*TelegramService, error) {
	if botToken == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramService{bot: bot, logs: logs}, nil
}

func (t *TelegramService) NotifyTaskAssigned(ctx context.Context, task *models.Task, assignee *models.User) {
	if t == nil || assignee.TelegramChatID == 0 || !assignee.ReceiveNotifications {
		return
	}
	text := fmt.Sprintf("📌 <b>New task:</b> %s\nPriority: %s", task.Name, task.Priority)
	t.sendAndRecord(ctx, assignee, task, models.NotificationTaskAssigned, text)
}

func (t *TelegramService) NotifyTaskCompleted(ctx context.Context, task *models.Task, creator *models.User) {
	if t == nil || creator.TelegramChatID == 0 || !creator.ReceiveNotifications {
		return
	}
	text := fmt.Sprintf("✅ <b>Task completed:</b> %s", task.Name)
	t.sendAndRecord(ctx, creator, task, models.NotificationTaskCompleted, text)
}

func (t *TelegramService) sendAndRecord(ctx context.Context, user *models.User, task *models.Task, ntype, text string) {
	msg := tgbotapi.NewMessage(user.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	_, err := t.bot.Send(msg)
	if err != nil {
		log.Printf("[tg][send][err] chatID=%d: %v", user.TelegramChatID, err)
	}

	if t.logs != nil {
		entry := &models.NotificationLog{
			UserID:    user.ID,
			TaskID:    &task.ID,
			Type:      ntype,
			Channel:   models.ChannelTelegram,
			Recipient: fmt.Sprintf("chat:%d", user.TelegramChatID),
			Subject:   text,
			Success:   err == nil,
		}
		if err := t.logs.Store(ctx, entry); err != nil {
			log.Printf("[tg][log][err] store notification log chatID=%d: %v", user.TelegramChatID, err)
		}
	}
}
