package service

import (
	"career_bot_backend/internal/model"
	"career_bot_backend/internal/util"
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
)

// Recommendation is the outcome of a finished test. Both fields may be empty
// when the winning category has no profession entry; the recorder substitutes
// fallback texts in that case.
type Recommendation struct {
	Profession  string `json:"profession"`
	Description string `json:"description"`
}

type professionEntry struct {
	Profession  string
	Description string
}

// professionTable maps a winning category to its recommendation. A category
// may carry a synonym entry under "<category>2"; when both exist one is
// picked uniformly at random.
var professionTable = map[string]professionEntry{
	"data":    {"Аналитик данных", "Работа с данными, SQL, визуализацией и метриками."},
	"data2":   {"Бизнес-аналитик", "Анализ бизнес-данных, отчеты, KPI."},
	"dev":     {"Разработчик", "Писать код, архитектура, автоматизация."},
	"dev2":    {"Backend-разработчик", "Серверная логика, API, базы данных."},
	"design":  {"UX/UI дизайнер", "Дизайн интерфейсов и пользовательский опыт."},
	"design2": {"Графический дизайнер", "Иллюстрации, визуальные концепции."},
	"qa":      {"QA инженер", "Тестирование, автоматизация тестов, контроль качества."},
	"qa2":     {"Тестировщик автоматизации", "Написание автотестов, контроль багов."},
}

const (
	noCategoryProfession  = "Generalist"
	noCategoryDescription = "Ни одна категория явно не выделилась."
)

// ScoringService reduces a finished answer list to a profession
// recommendation. The random source is injected so the synonym pick can be
// made deterministic in tests.
type ScoringService struct {
	Catalog *CatalogService

	mu  sync.Mutex
	rng *rand.Rand
}

func NewScoringService(catalog *CatalogService, src rand.Source) *ScoringService {
	return &ScoringService{Catalog: catalog, rng: rand.New(src)}
}

// CategoryTotals sums the score vectors of all resolved options. Options that
// no longer exist are skipped, not fatal.
func (s *ScoringService) CategoryTotals(ctx context.Context, answers []model.SessionAnswer) (map[string]int, error) {
	totals := make(map[string]int)
	for _, a := range answers {
		option, err := s.Catalog.GetOption(ctx, a.OptionID)
		if errors.Is(err, util.ErrOptionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for category, weight := range option.Scores.Data() {
			totals[category] += weight
		}
	}
	return totals, nil
}

// CalculateProfession picks the highest-total category and resolves it
// through the profession table. Ties between equal totals fall to whatever
// order the sort leaves them in; that is deliberately unspecified.
func (s *ScoringService) CalculateProfession(ctx context.Context, answers []model.SessionAnswer) (Recommendation, error) {
	totals, err := s.CategoryTotals(ctx, answers)
	if err != nil {
		return Recommendation{}, err
	}

	if len(totals) == 0 {
		return Recommendation{Profession: noCategoryProfession, Description: noCategoryDescription}, nil
	}

	type categoryTotal struct {
		Category string
		Total    int
	}
	sorted := make([]categoryTotal, 0, len(totals))
	for category, total := range totals {
		sorted = append(sorted, categoryTotal{category, total})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total > sorted[j].Total
	})

	winner := sorted[0].Category

	var candidates []professionEntry
	if entry, ok := professionTable[winner]; ok {
		candidates = append(candidates, entry)
	}
	if entry, ok := professionTable[winner+"2"]; ok {
		candidates = append(candidates, entry)
	}
	if len(candidates) == 0 {
		// Category without a table entry: empty recommendation, the
		// recorder substitutes the fallback texts.
		return Recommendation{}, nil
	}

	pick := candidates[s.intn(len(candidates))]
	return Recommendation{Profession: pick.Profession, Description: pick.Description}, nil
}

func (s *ScoringService) intn(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
