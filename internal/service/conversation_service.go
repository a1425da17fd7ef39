package service

import (
	"career_bot_backend/internal/model"
	"career_bot_backend/internal/repository"
	"career_bot_backend/internal/util"
	"career_bot_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gorm.io/datatypes"
)

const (
	msgWelcome        = "Привет! Я бот для прохождения теста на подбор профессии. Сначала зарегистрируем тебя.\nОтправь команду /register"
	msgAskFirstName   = "Напиши своё имя:"
	msgAskLastName    = "Фамилия:"
	msgAskPhone       = "Номер телефона (например +7701xxxxxxx):"
	msgRegistered     = "Регистрация завершена. Чтобы пройти тест, отправь /test"
	msgRegisterFirst  = "Сначала зарегистрируйся. Напиши имя:"
	msgNoQuestions    = "Вопросы не найдены. Обратитесь к администратору."
	msgUseButtons     = "Пожалуйста, используй кнопки для ответа."
	msgUnknownCommand = "Не понял. Доступные команды: /register, /test, /history"
	msgStartTestFirst = "Сначала начни тест командой /test"
	msgOptionNotFound = "Опция не найдена"
	msgUnknownAction  = "Неизвестное действие"
	msgHistoryEmpty   = "История пуста — пройдите тест хотя бы раз (/test)."
	msgHistoryHeader  = "Ваша история результатов:\n\n"
)

// ConversationService is the per-user state machine. Every inbound event is
// resolved against the user's persisted session; the session is saved before
// the corresponding reply goes out, so a crash never advances the
// conversation past the last stored state.
type ConversationService struct {
	Users     *repository.UserRepository
	Catalog   *CatalogService
	Scoring   *ScoringService
	Results   *ResultService
	Transport Transport

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewConversationService(
	users *repository.UserRepository,
	catalog *CatalogService,
	scoring *ScoringService,
	results *ResultService,
	transport Transport,
) *ConversationService {
	return &ConversationService{
		Users:     users,
		Catalog:   catalog,
		Scoring:   scoring,
		Results:   results,
		Transport: transport,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// chatLock serializes event handling per chat. Telegram can deliver a
// webhook retry or a double button press concurrently; interleaving them
// would break the answers/index bookkeeping.
func (s *ConversationService) chatLock(chatID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[chatID] = l
	}
	return l
}

// Handle processes one classified event to completion. Errors are scoped to
// this single event; the caller logs them and the conversation resumes from
// the last persisted session on the next event.
func (s *ConversationService) Handle(ctx context.Context, ev Event) error {
	lock := s.chatLock(ev.ChatID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.Users.GetOrCreateByTelegramID(strconv.FormatInt(ev.ChatID, 10))
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	switch ev.Kind {
	case EventGreet:
		return s.Transport.SendMessage(ctx, ev.ChatID, msgWelcome)
	case EventCommand:
		switch ev.Command {
		case CommandRegister:
			return s.startRegistration(ctx, ev, user)
		case CommandTest:
			return s.startTest(ctx, ev, user)
		case CommandHistory:
			return s.sendHistory(ctx, ev, user)
		default:
			return s.Transport.SendMessage(ctx, ev.ChatID, msgUnknownCommand)
		}
	case EventText:
		return s.handleText(ctx, ev, user)
	case EventSelectOption:
		return s.handleSelection(ctx, ev, user)
	case EventUnknownAction:
		return s.Transport.Acknowledge(ctx, ev.CallbackID, msgUnknownAction)
	default:
		return s.Transport.SendMessage(ctx, ev.ChatID, msgUnknownCommand)
	}
}

// startRegistration forces the registration chain from the top. Any prior
// session content, an in-progress test included, is discarded.
func (s *ConversationService) startRegistration(ctx context.Context, ev Event, user *model.User) error {
	user.Session = datatypes.NewJSONType(model.NewRegistrationSession())
	if err := s.Users.Save(user); err != nil {
		return err
	}
	return s.Transport.SendMessage(ctx, ev.ChatID, msgAskFirstName)
}

func (s *ConversationService) startTest(ctx context.Context, ev Event, user *model.User) error {
	if !user.Registered() {
		// Nudge into registration, same as the /register command.
		user.Session = datatypes.NewJSONType(model.NewRegistrationSession())
		if err := s.Users.Save(user); err != nil {
			return err
		}
		return s.Transport.SendMessage(ctx, ev.ChatID, msgRegisterFirst)
	}

	questions, err := s.Catalog.ListQuestions(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return s.Transport.SendMessage(ctx, ev.ChatID, msgNoQuestions)
	}

	user.Session = datatypes.NewJSONType(model.NewTestSession())
	if err := s.Users.Save(user); err != nil {
		return err
	}

	return s.Transport.SendPrompt(ctx, ev.ChatID, questions[0].Text, promptOptions(questions[0]))
}

func (s *ConversationService) handleText(ctx context.Context, ev Event, user *model.User) error {
	session := user.Session.Data()

	switch session.Step {
	case model.StepAskFirstName:
		user.FirstName = ev.Text
		session.Step = model.StepAskLastName
		user.Session = datatypes.NewJSONType(session)
		if err := s.Users.Save(user); err != nil {
			return err
		}
		return s.Transport.SendMessage(ctx, ev.ChatID, msgAskLastName)

	case model.StepAskLastName:
		user.LastName = ev.Text
		session.Step = model.StepAskPhone
		user.Session = datatypes.NewJSONType(session)
		if err := s.Users.Save(user); err != nil {
			return err
		}
		return s.Transport.SendMessage(ctx, ev.ChatID, msgAskPhone)

	case model.StepAskPhone:
		// No format validation, by parity with the registration prompt.
		user.Phone = ev.Text
		user.Session = datatypes.NewJSONType(model.Session{})
		if err := s.Users.Save(user); err != nil {
			return err
		}
		return s.Transport.SendMessage(ctx, ev.ChatID, msgRegistered)

	case model.StepInTest:
		return s.Transport.SendMessage(ctx, ev.ChatID, msgUseButtons)

	default:
		return s.Transport.SendMessage(ctx, ev.ChatID, msgUnknownCommand)
	}
}

// handleSelection advances the test by one answered question. A press that
// does not match the question currently awaiting an answer — an unknown id,
// a stale button of an already-passed question, a webhook retry after the
// index advanced — gets the same not-found acknowledgment and changes
// nothing.
func (s *ConversationService) handleSelection(ctx context.Context, ev Event, user *model.User) error {
	session := user.Session.Data()
	if !session.InTest() {
		return s.Transport.Acknowledge(ctx, ev.CallbackID, msgStartTestFirst)
	}

	option, err := s.Catalog.GetOption(ctx, ev.OptionID)
	if errors.Is(err, util.ErrOptionNotFound) {
		return s.Transport.Acknowledge(ctx, ev.CallbackID, msgOptionNotFound)
	}
	if err != nil {
		return err
	}

	questions, err := s.Catalog.ListQuestions(ctx)
	if err != nil {
		return err
	}
	if session.Index >= len(questions) || questions[session.Index].ID != option.QuestionID {
		return s.Transport.Acknowledge(ctx, ev.CallbackID, msgOptionNotFound)
	}

	session.Answers = append(session.Answers, model.SessionAnswer{
		QuestionID: option.QuestionID,
		OptionID:   option.ID,
	})
	session.Index++

	if session.Index >= len(questions) {
		return s.finishTest(ctx, ev, user, session)
	}

	user.Session = datatypes.NewJSONType(session)
	if err := s.Users.Save(user); err != nil {
		return err
	}

	next := questions[session.Index]
	if err := s.Transport.Acknowledge(ctx, ev.CallbackID, ""); err != nil {
		return err
	}
	return s.Transport.ReplacePrompt(ctx, ev.ChatID, ev.MessageID, next.Text, promptOptions(next))
}

func (s *ConversationService) finishTest(ctx context.Context, ev Event, user *model.User, session model.Session) error {
	recommendation, err := s.Scoring.CalculateProfession(ctx, session.Answers)
	if err != nil {
		return err
	}

	result, err := s.Results.Record(user, session.Answers, recommendation)
	if err != nil {
		return err
	}

	user.Session = datatypes.NewJSONType(model.Session{})
	if err := s.Users.Save(user); err != nil {
		return err
	}

	monitoring.QuizCompleted.Inc()

	if err := s.Transport.Acknowledge(ctx, ev.CallbackID, ""); err != nil {
		return err
	}
	text := fmt.Sprintf("Тест завершён.\nВам подходит: %s\n\n%s", result.Profession, result.ProfessionDescription)
	return s.Transport.EditMessage(ctx, ev.ChatID, ev.MessageID, text)
}

func (s *ConversationService) sendHistory(ctx context.Context, ev Event, user *model.User) error {
	results, err := s.Results.History(user.ID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return s.Transport.SendMessage(ctx, ev.ChatID, msgHistoryEmpty)
	}

	var b strings.Builder
	b.WriteString(msgHistoryHeader)
	for _, r := range results {
		fmt.Fprintf(&b, "%s — %s\n", r.CreatedAt.Format("02.01.2006 15:04"), r.Profession)
	}
	return s.Transport.SendMessage(ctx, ev.ChatID, b.String())
}

func promptOptions(q model.Question) []PromptOption {
	options := make([]PromptOption, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, PromptOption{ID: o.ID, Text: o.Text})
	}
	return options
}
