package database

import (
	"career_bot_backend/internal/config"
	"career_bot_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "career_bot.db"
		}
		dialector = sqlite.Open(path)
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := SeedQuestions(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.AnswerOption{},
		&model.TestResult{},
	)
}

// SeedQuestions installs the default question battery when the catalog is
// empty. Existing catalogs are never touched.
func SeedQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	questions := defaultQuestions()
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded sample questions")
	return nil
}

func defaultQuestions() []model.Question {
	scores := func(category string) datatypes.JSONType[model.ScoreVector] {
		return datatypes.NewJSONType(model.ScoreVector{category: 2})
	}

	return []model.Question{
		{
			Text: "Какой тип задач тебе нравится больше?",
			Options: []model.AnswerOption{
				{Text: "Анализ данных, таблицы, отчёты", Scores: scores("data")},
				{Text: "Писать код, решать алгоритмы", Scores: scores("dev")},
				{Text: "Делать интерфейсы и прототипы", Scores: scores("design")},
				{Text: "Проверять программы, тесты", Scores: scores("qa")},
			},
		},
		{
			Text: "Что доставляет удовольствие?",
			Options: []model.AnswerOption{
				{Text: "Разбирать большие наборы данных", Scores: scores("data")},
				{Text: "Оптимизировать и строить архитектуру", Scores: scores("dev")},
				{Text: "Работать с визуальной частью", Scores: scores("design")},
				{Text: "Искать баги и ломать систему", Scores: scores("qa")},
			},
		},
		{
			Text: "Какой инструмент хочешь изучать?",
			Options: []model.AnswerOption{
				{Text: "SQL / Python для данных", Scores: scores("data")},
				{Text: "Node / TypeScript / Frameworks", Scores: scores("dev")},
				{Text: "Figma / Sketch", Scores: scores("design")},
				{Text: "Selenium / Playwright", Scores: scores("qa")},
			},
		},
		{
			Text: "Ты любишь работать:",
			Options: []model.AnswerOption{
				{Text: "С числами и метриками", Scores: scores("data")},
				{Text: "С кодом и продуктом", Scores: scores("dev")},
				{Text: "С визуальными решениями", Scores: scores("design")},
				{Text: "С качеством и тестами", Scores: scores("qa")},
			},
		},
		{
			Text: "Какой рабочий ритм тебе ближе?",
			Options: []model.AnswerOption{
				{Text: "Аналитические исследования", Scores: scores("data")},
				{Text: "Проекты и релизы", Scores: scores("dev")},
				{Text: "Дизайн-спринты", Scores: scores("design")},
				{Text: "Тест-кейсы и выпуск багфиксов", Scores: scores("qa")},
			},
		},
	}
}
