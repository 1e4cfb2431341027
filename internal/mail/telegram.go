package mail

import (
	"context"
	"fmt"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var _ Notifier = (*TelegramNotifier)(nil)

// botSender ist der Teil von *tgbotapi.BotAPI, den der Notifier braucht.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier postet Lifecycle-Ereignisse in einen HR-Chat.
type TelegramNotifier struct {
	bot    botSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) NotifyLifecycleEvent(ctx context.Context, msg *LifecycleMessage) error {
	return t.send(msg.Text())
}

func (t *TelegramNotifier) NotifyOverdueTask(ctx context.Context, task *entity.OverdueTask) error {
	text := fmt.Sprintf("⚠️ Overdue: \"%s\" (assignee %s, due %s)\nCase: %s",
		task.Label, task.AssigneeName, task.DueDate.Format("02 Jan 2006"), task.CaseID)
	return t.send(text)
}

func (t *TelegramNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
