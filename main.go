// @title Career Quiz Bot API
// @version 1.0
// @description Admin and webhook API of the career guidance Telegram bot.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"career_bot_backend/internal/app"
	"career_bot_backend/internal/config"
	"career_bot_backend/pkg/configwatcher"
	"career_bot_backend/pkg/logger"
	"log"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("Config file changed; restart to apply server or telegram settings")
	})

	application.Run()
}
