package service

import "context"

// EventKind classifies an inbound chat event before dispatch.
type EventKind string

const (
	EventGreet         EventKind = "greet"
	EventCommand       EventKind = "command"
	EventText          EventKind = "text"
	EventSelectOption  EventKind = "select_option"
	EventUnknownAction EventKind = "unknown_action"
)

const (
	CommandRegister = "register"
	CommandTest     = "test"
	CommandHistory  = "history"
)

// Event is one inbound message or button press, already classified by the
// transport layer. OptionID, CallbackID and MessageID are set only for
// selection events.
type Event struct {
	ChatID     int64
	Kind       EventKind
	Command    string
	Text       string
	OptionID   uint
	CallbackID string
	MessageID  int
}

// PromptOption is one selectable control of a prompt.
type PromptOption struct {
	ID   uint
	Text string
}

// Transport is everything the conversation needs from the chat channel.
type Transport interface {
	// SendMessage delivers a plain reply with no controls.
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendPrompt shows a message with one selectable control per option.
	SendPrompt(ctx context.Context, chatID int64, text string, options []PromptOption) error
	// Acknowledge answers a selection event without producing a message.
	Acknowledge(ctx context.Context, callbackID, text string) error
	// ReplacePrompt sends a new prompt and deactivates the controls of the
	// message identified by prevMessageID so stale selections cannot be
	// replayed.
	ReplacePrompt(ctx context.Context, chatID int64, prevMessageID int, text string, options []PromptOption) error
	// EditMessage rewrites an earlier message in place, dropping its controls.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
}
