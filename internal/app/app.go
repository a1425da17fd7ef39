package app

import (
	"career_bot_backend/internal/bot"
	"career_bot_backend/internal/config"
	"career_bot_backend/internal/controller"
	"career_bot_backend/internal/repository"
	"career_bot_backend/internal/service"
	"career_bot_backend/pkg/database"
	"career_bot_backend/pkg/logger"
	"career_bot_backend/pkg/monitoring"
	"career_bot_backend/pkg/security"
	"career_bot_backend/pkg/telegram"
	"career_bot_backend/pkg/tracing"
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	dispatcher *bot.Dispatcher
}

type repositories struct {
	user     *repository.UserRepository
	question *repository.QuestionRepository
	result   *repository.TestResultRepository
}

type services struct {
	catalog      *service.CatalogService
	scoring      *service.ScoringService
	result       *service.ResultService
	conversation *service.ConversationService
	auth         *service.AuthService
}

type controllers struct {
	auth     *controller.AuthController
	question *controller.QuestionController
	result   *controller.ResultController
	webhook  *controller.WebhookController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		question: repository.NewQuestionRepository(db),
		result:   repository.NewTestResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, transport service.Transport) *services {
	s := &services{}

	s.catalog = service.NewCatalogService(repos.question, rdb)
	s.scoring = service.NewScoringService(s.catalog, rand.NewSource(time.Now().UnixNano()))
	s.result = service.NewResultService(repos.result)
	s.conversation = service.NewConversationService(repos.user, s.catalog, s.scoring, s.result, transport)
	s.auth = service.NewAuthService(cfg)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, dispatcher *bot.Dispatcher, cfg *config.Config) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		question: controller.NewQuestionController(s.catalog),
		result:   controller.NewResultController(s.result),
		webhook:  controller.NewWebhookController(dispatcher, cfg.Telegram.WebhookSecret),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	} else {
		logger.Log.Info("Redis not configured, catalog cache is in-process only")
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	tgClient := telegram.NewClient(cfg.Telegram.Token)
	transport := bot.NewTransport(tgClient)

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb, transport)

	app.dispatcher = bot.NewDispatcher(tgClient, services.conversation, cfg.Telegram.PollTimeout)

	controllers := app.initControllers(services, db, app.dispatcher, cfg)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("career-bot", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	botCtx, stopBot := context.WithCancel(context.Background())
	a.startBot(botCtx)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopBot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// startBot connects to Telegram in the configured mode. A missing token is
// tolerated so the admin API can run standalone.
func (a *App) startBot(ctx context.Context) {
	cfg := a.Config.Telegram
	if cfg.Token == "" {
		logger.Log.Warn("Telegram token not configured, bot is disabled")
		return
	}

	switch cfg.Mode {
	case "webhook":
		go func() {
			if err := a.dispatcher.Client.SetWebhook(ctx, cfg.WebhookURL, cfg.WebhookSecret); err != nil {
				logger.Log.Error("Failed to set telegram webhook", zap.Error(err))
				return
			}
			logger.Log.Info("Telegram webhook registered", zap.String("url", cfg.WebhookURL))
		}()
	default:
		go func() {
			// Polling conflicts with a leftover webhook registration.
			if err := a.dispatcher.Client.DeleteWebhook(ctx); err != nil {
				logger.Log.Warn("Failed to delete telegram webhook", zap.Error(err))
			}
			a.dispatcher.RunPolling(ctx)
		}()
	}
}
