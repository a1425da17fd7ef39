package service

import (
	"career_bot_backend/internal/model"
	"career_bot_backend/internal/repository"
	"career_bot_backend/pkg/logger"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("svc_%s_%d",
		strings.ReplaceAll(t.Name(), "/", "_"),
		atomic.AddInt64(&testDBSeq, 1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.AnswerOption{},
		&model.TestResult{},
	))
	return db
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type sentPrompt struct {
	ChatID        int64
	PrevMessageID int
	Text          string
	Options       []PromptOption
}

type sentAck struct {
	CallbackID string
	Text       string
}

type sentEdit struct {
	ChatID    int64
	MessageID int
	Text      string
}

// fakeTransport records everything the conversation sends.
type fakeTransport struct {
	messages []sentMessage
	prompts  []sentPrompt
	acks     []sentAck
	edits    []sentEdit
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string) error {
	f.messages = append(f.messages, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeTransport) SendPrompt(_ context.Context, chatID int64, text string, options []PromptOption) error {
	f.prompts = append(f.prompts, sentPrompt{ChatID: chatID, Text: text, Options: options})
	return nil
}

func (f *fakeTransport) Acknowledge(_ context.Context, callbackID, text string) error {
	f.acks = append(f.acks, sentAck{CallbackID: callbackID, Text: text})
	return nil
}

func (f *fakeTransport) ReplacePrompt(_ context.Context, chatID int64, prevMessageID int, text string, options []PromptOption) error {
	f.prompts = append(f.prompts, sentPrompt{ChatID: chatID, PrevMessageID: prevMessageID, Text: text, Options: options})
	return nil
}

func (f *fakeTransport) EditMessage(_ context.Context, chatID int64, messageID int, text string) error {
	f.edits = append(f.edits, sentEdit{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

func (f *fakeTransport) lastMessage(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

func (f *fakeTransport) lastAck(t *testing.T) sentAck {
	t.Helper()
	require.NotEmpty(t, f.acks)
	return f.acks[len(f.acks)-1]
}

func (f *fakeTransport) lastPrompt(t *testing.T) sentPrompt {
	t.Helper()
	require.NotEmpty(t, f.prompts)
	return f.prompts[len(f.prompts)-1]
}

type fixture struct {
	db        *gorm.DB
	users     *repository.UserRepository
	questions *repository.QuestionRepository
	catalog   *CatalogService
	scoring   *ScoringService
	results   *ResultService
	conv      *ConversationService
	transport *fakeTransport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	questions := repository.NewQuestionRepository(db)
	catalog := NewCatalogService(questions, nil)
	scoring := NewScoringService(catalog, rand.NewSource(1))
	results := NewResultService(repository.NewTestResultRepository(db))
	transport := &fakeTransport{}
	conv := NewConversationService(users, catalog, scoring, results, transport)
	return &fixture{
		db:        db,
		users:     users,
		questions: questions,
		catalog:   catalog,
		scoring:   scoring,
		results:   results,
		conv:      conv,
		transport: transport,
	}
}

// seedBattery inserts a two-question battery with known score vectors and
// returns it in catalog order.
func (f *fixture) seedBattery(t *testing.T) []model.Question {
	t.Helper()
	battery := []*model.Question{
		{
			Text: "Что тебе интереснее?",
			Options: []model.AnswerOption{
				{Text: "Писать код", Scores: newScores(map[string]int{"dev": 2})},
				{Text: "Разбираться в данных", Scores: newScores(map[string]int{"data": 2})},
			},
		},
		{
			Text: "Какая задача ближе?",
			Options: []model.AnswerOption{
				{Text: "Сделать API", Scores: newScores(map[string]int{"dev": 2})},
				{Text: "Построить отчет", Scores: newScores(map[string]int{"data": 1})},
			},
		},
	}
	for _, q := range battery {
		require.NoError(t, f.questions.CreateWithOptions(q))
	}
	questions, err := f.catalog.ListQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, len(battery))
	return questions
}

func (f *fixture) registeredUser(t *testing.T, chatID int64) *model.User {
	t.Helper()
	user, err := f.users.GetOrCreateByTelegramID(strconv.FormatInt(chatID, 10))
	require.NoError(t, err)
	user.FirstName = "Иван"
	user.LastName = "Петров"
	user.Phone = "+77011234567"
	require.NoError(t, f.users.Save(user))
	return user
}

func (f *fixture) reloadUser(t *testing.T, chatID int64) *model.User {
	t.Helper()
	user, err := f.users.GetOrCreateByTelegramID(strconv.FormatInt(chatID, 10))
	require.NoError(t, err)
	return user
}

func commandEvent(chatID int64, command string) Event {
	return Event{ChatID: chatID, Kind: EventCommand, Command: command}
}

func textEvent(chatID int64, text string) Event {
	return Event{ChatID: chatID, Kind: EventText, Text: text}
}

func selectEvent(chatID int64, optionID uint) Event {
	return Event{
		ChatID:     chatID,
		Kind:       EventSelectOption,
		OptionID:   optionID,
		CallbackID: "cb-" + strconv.FormatUint(uint64(optionID), 10),
		MessageID:  42,
	}
}
