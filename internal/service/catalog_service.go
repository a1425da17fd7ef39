package service

import (
	"career_bot_backend/internal/model"
	"career_bot_backend/internal/repository"
	"career_bot_backend/internal/util"
	"career_bot_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newScores(m map[string]int) datatypes.JSONType[model.ScoreVector] {
	return datatypes.NewJSONType(model.ScoreVector(m))
}

const (
	catalogCacheKey = "career_bot:catalog"
	catalogCacheTTL = time.Hour
)

// CatalogService serves the question battery. The catalog is effectively
// static after seeding, so the ordered list is cached process-wide and the
// cache is dropped on every admin write.
type CatalogService struct {
	Repo  *repository.QuestionRepository
	Redis *redis.Client // optional second cache layer

	mu     sync.RWMutex
	cached []model.Question
}

func NewCatalogService(repo *repository.QuestionRepository, rdb *redis.Client) *CatalogService {
	return &CatalogService{Repo: repo, Redis: rdb}
}

// ListQuestions returns the full ordered battery with options. Callers must
// treat the returned slice as read-only.
func (s *CatalogService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	s.mu.RLock()
	if s.cached != nil {
		defer s.mu.RUnlock()
		return s.cached, nil
	}
	s.mu.RUnlock()

	if questions, ok := s.fromRedis(ctx); ok {
		s.mu.Lock()
		s.cached = questions
		s.mu.Unlock()
		return questions, nil
	}

	questions, err := s.Repo.ListWithOptions()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = questions
	s.mu.Unlock()
	s.toRedis(ctx, questions)

	return questions, nil
}

func (s *CatalogService) CountQuestions(ctx context.Context) (int, error) {
	questions, err := s.ListQuestions(ctx)
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

// GetOption resolves an option id, preferring the cached catalog. A miss maps
// to util.ErrOptionNotFound so callers can treat it as a user mistake rather
// than a storage failure.
func (s *CatalogService) GetOption(ctx context.Context, id uint) (*model.AnswerOption, error) {
	questions, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	for qi := range questions {
		for oi := range questions[qi].Options {
			if questions[qi].Options[oi].ID == id {
				return &questions[qi].Options[oi], nil
			}
		}
	}

	option, err := s.Repo.FindOptionByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrOptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return option, nil
}

// Invalidate drops both cache layers. Called by admin writes and the seeder.
func (s *CatalogService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	if s.Redis != nil {
		if err := s.Redis.Del(ctx, catalogCacheKey).Err(); err != nil {
			logger.Log.Warn("failed to drop redis catalog cache", zap.Error(err))
		}
	}
}

// QuestionRequest is the admin payload for creating a question with its
// owned options.
type QuestionRequest struct {
	Text    string          `json:"text" binding:"required"`
	Options []OptionRequest `json:"options" binding:"required,min=1,dive"`
}

type OptionRequest struct {
	Text   string         `json:"text" binding:"required"`
	Scores map[string]int `json:"scores"`
}

func (s *CatalogService) CreateQuestion(ctx context.Context, req QuestionRequest) (*model.Question, error) {
	options := make([]model.AnswerOption, 0, len(req.Options))
	for _, o := range req.Options {
		for _, weight := range o.Scores {
			if weight < 0 {
				return nil, util.ErrNegativeWeight
			}
		}
		options = append(options, model.AnswerOption{
			Text:   o.Text,
			Scores: newScores(o.Scores),
		})
	}

	question := &model.Question{Text: req.Text, Options: options}
	if err := s.Repo.CreateWithOptions(question); err != nil {
		return nil, err
	}

	s.Invalidate(ctx)
	return question, nil
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *CatalogService) fromRedis(ctx context.Context) ([]model.Question, bool) {
	if s.Redis == nil {
		return nil, false
	}
	raw, err := s.Redis.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("failed to read redis catalog cache", zap.Error(err))
		}
		return nil, false
	}
	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		logger.Log.Warn("corrupt redis catalog cache, dropping", zap.Error(err))
		s.Redis.Del(ctx, catalogCacheKey)
		return nil, false
	}
	return questions, true
}

func (s *CatalogService) toRedis(ctx context.Context, questions []model.Question) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, catalogCacheKey, raw, catalogCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to write redis catalog cache", zap.Error(err))
	}
}
