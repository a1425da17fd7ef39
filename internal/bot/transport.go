package bot

import (
	"career_bot_backend/internal/service"
	"career_bot_backend/pkg/logger"
	"career_bot_backend/pkg/telegram"
	"context"
	"fmt"

	"go.uber.org/zap"
)

const callbackPrefix = "answer:"

// Transport implements service.Transport on top of the Bot API client.
type Transport struct {
	Client *telegram.Client
}

func NewTransport(client *telegram.Client) *Transport {
	return &Transport{Client: client}
}

func (t *Transport) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := t.Client.SendMessage(ctx, chatID, text)
	return err
}

func (t *Transport) SendPrompt(ctx context.Context, chatID int64, text string, options []service.PromptOption) error {
	_, err := t.Client.SendMessageWithKeyboard(ctx, chatID, text, keyboardFor(options))
	return err
}

func (t *Transport) Acknowledge(ctx context.Context, callbackID, text string) error {
	return t.Client.AnswerCallbackQuery(ctx, callbackID, text)
}

func (t *Transport) ReplacePrompt(ctx context.Context, chatID int64, prevMessageID int, text string, options []service.PromptOption) error {
	// Drop the old keyboard first so its buttons cannot be pressed again.
	// The old message may already be gone; that is not worth failing the turn.
	if err := t.Client.EditMessageReplyMarkup(ctx, chatID, prevMessageID, nil); err != nil {
		logger.Log.Warn("failed to remove stale keyboard",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", prevMessageID),
			zap.Error(err))
	}
	_, err := t.Client.SendMessageWithKeyboard(ctx, chatID, text, keyboardFor(options))
	return err
}

func (t *Transport) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	return t.Client.EditMessageText(ctx, chatID, messageID, text)
}

// keyboardFor renders one button per row, in option order.
func keyboardFor(options []service.PromptOption) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(options))
	for _, o := range options {
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         o.Text,
			CallbackData: fmt.Sprintf("%s%d", callbackPrefix, o.ID),
		}})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}
