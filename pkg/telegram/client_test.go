package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Path    string
	Payload map[string]interface{}
}

func newStub(t *testing.T, result interface{}) (*Client, *recordedCall) {
	t.Helper()
	var last recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.Path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last.Payload))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": result,
		})
	}))
	t.Cleanup(srv.Close)
	return NewClientWithBase(srv.URL, "TOKEN"), &last
}

func TestSendMessage(t *testing.T) {
	client, last := newStub(t, Message{MessageID: 5, Chat: Chat{ID: 10}})

	msg, err := client.SendMessage(context.Background(), 10, "привет")
	require.NoError(t, err)

	assert.Equal(t, 5, msg.MessageID)
	assert.Equal(t, "/botTOKEN/sendMessage", last.Path)
	assert.Equal(t, "привет", last.Payload["text"])
	assert.EqualValues(t, 10, last.Payload["chat_id"])
}

func TestSendMessageWithKeyboard(t *testing.T) {
	client, last := newStub(t, Message{MessageID: 6})

	kb := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "Да", CallbackData: "answer:1"}},
	}}
	_, err := client.SendMessageWithKeyboard(context.Background(), 10, "вопрос", kb)
	require.NoError(t, err)

	assert.Equal(t, "/botTOKEN/sendMessage", last.Path)
	require.Contains(t, last.Payload, "reply_markup")
}

func TestGetUpdates(t *testing.T) {
	client, last := newStub(t, []Update{
		{UpdateID: 101, Message: &Message{MessageID: 1, Chat: Chat{ID: 10}, Text: "/start"}},
	})

	updates, err := client.GetUpdates(context.Background(), 100, 30)
	require.NoError(t, err)

	require.Len(t, updates, 1)
	assert.EqualValues(t, 101, updates[0].UpdateID)
	assert.Equal(t, "/botTOKEN/getUpdates", last.Path)
	assert.EqualValues(t, 100, last.Payload["offset"])
}

func TestAnswerCallbackQueryOmitsEmptyText(t *testing.T) {
	client, last := newStub(t, true)

	require.NoError(t, client.AnswerCallbackQuery(context.Background(), "cb-1", ""))

	assert.Equal(t, "cb-1", last.Payload["callback_query_id"])
	assert.NotContains(t, last.Payload, "text")
}

func TestAPIErrorSurfacesDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":          false,
			"error_code":  400,
			"description": "Bad Request: chat not found",
		})
	}))
	defer srv.Close()
	client := NewClientWithBase(srv.URL, "TOKEN")

	_, err := client.SendMessage(context.Background(), 10, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
