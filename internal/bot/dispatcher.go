package bot

import (
	"career_bot_backend/internal/service"
	"career_bot_backend/pkg/logger"
	"career_bot_backend/pkg/monitoring"
	"career_bot_backend/pkg/telegram"
	"career_bot_backend/pkg/tracing"
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Dispatcher turns raw Telegram updates into conversation events and feeds
// them to the state machine. Both the polling loop and the webhook handler
// go through HandleUpdate.
type Dispatcher struct {
	Client       *telegram.Client
	Conversation *service.ConversationService
	PollTimeout  int
}

func NewDispatcher(client *telegram.Client, conversation *service.ConversationService, pollTimeout int) *Dispatcher {
	return &Dispatcher{
		Client:       client,
		Conversation: conversation,
		PollTimeout:  pollTimeout,
	}
}

// Classify maps one update to a conversation event. The second return is
// false for updates the bot ignores (edits, joins, empty messages).
func Classify(u telegram.Update) (service.Event, bool) {
	if u.CallbackQuery != nil {
		cq := u.CallbackQuery
		ev := service.Event{
			ChatID:     cq.From.ID,
			CallbackID: cq.ID,
		}
		if cq.Message != nil {
			ev.ChatID = cq.Message.Chat.ID
			ev.MessageID = cq.Message.MessageID
		}
		if strings.HasPrefix(cq.Data, callbackPrefix) {
			id, err := strconv.ParseUint(strings.TrimPrefix(cq.Data, callbackPrefix), 10, 32)
			if err != nil {
				ev.Kind = service.EventUnknownAction
				return ev, true
			}
			ev.Kind = service.EventSelectOption
			ev.OptionID = uint(id)
			return ev, true
		}
		ev.Kind = service.EventUnknownAction
		return ev, true
	}

	if u.Message != nil && u.Message.Text != "" {
		chatID := u.Message.Chat.ID
		text := u.Message.Text

		// Commands are matched before any free-text handling.
		if strings.HasPrefix(text, "/") {
			command := strings.TrimPrefix(text, "/")
			command = strings.SplitN(command, " ", 2)[0]
			// "/test@CareerXBot" addresses this bot in a group.
			command = strings.SplitN(command, "@", 2)[0]
			if command == "start" {
				return service.Event{ChatID: chatID, Kind: service.EventGreet}, true
			}
			return service.Event{ChatID: chatID, Kind: service.EventCommand, Command: command}, true
		}

		return service.Event{ChatID: chatID, Kind: service.EventText, Text: text}, true
	}

	return service.Event{}, false
}

// HandleUpdate processes one update to completion. Handler errors are logged
// and dropped: a failed event must never take the process down, and the
// conversation resumes from the last persisted session.
func (d *Dispatcher) HandleUpdate(ctx context.Context, u telegram.Update) {
	ev, ok := Classify(u)
	if !ok {
		return
	}

	monitoring.BotUpdates.WithLabelValues(string(ev.Kind)).Inc()

	ctx, span := tracing.Tracer.Start(ctx, "bot.update "+string(ev.Kind))
	defer span.End()

	if err := d.Conversation.Handle(ctx, ev); err != nil {
		logger.Log.Error("update handling failed",
			zap.Int64("chat_id", ev.ChatID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err))
	}
}

// RunPolling long-polls getUpdates until the context is cancelled.
func (d *Dispatcher) RunPolling(ctx context.Context) {
	var offset int64

	logger.Log.Info("Telegram polling started", zap.Int("timeout", d.PollTimeout))

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Telegram polling stopped")
			return
		default:
		}

		updates, err := d.Client.GetUpdates(ctx, offset, d.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Error("getUpdates failed", zap.Error(err))
			time.Sleep(3 * time.Second)
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			d.HandleUpdate(ctx, u)
		}
	}
}
