package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admissions/config"
	"admissions/cron"
	"admissions/database"
	bookingRepo "admissions/database/repository/booking"
	dialogRepo "admissions/database/repository/dialog"
	knowledgeRepo "admissions/database/repository/knowledge"
	profileRepo "admissions/database/repository/profile"
	"admissions/handlers"
	"admissions/middleware"
	"admissions/routes"
	"admissions/services/assistant"
	bookingSvc "admissions/services/booking"
	"admissions/services/calendar"
	"admissions/services/intake"
	ai "admissions/services/intelligence"
	"admissions/services/notification"
	"admissions/services/retrieval"
	"admissions/services/tasks"
	"admissions/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	db, closeDB, err := database.Connect(startCtx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}
	defer closeDB()

	utils.InitSessionCache()

	// Repositories.
	bookRepo, err := bookingRepo.NewMongoBookingRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to init booking repository: %v", err)
	}
	knowRepo, err := knowledgeRepo.NewMongoKnowledgeRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to init knowledge repository: %v", err)
	}
	profRepo, err := profileRepo.NewMongoProfileRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to init profile repository: %v", err)
	}
	diaRepo, err := dialogRepo.NewMongoDialogRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to init dialog repository: %v", err)
	}

	// Slot calendar and retrieval corpus are immutable after startup.
	cal, err := calendar.New(config.AppConfig)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid calendar configuration: %v", err)
	}
	kbEntries, err := knowRepo.AllKnowledge(startCtx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load knowledge corpus: %v", err)
	}
	faqEntries, err := knowRepo.AllFAQ(startCtx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load FAQ corpus: %v", err)
	}
	ranker := retrieval.NewRanker(config.AppConfig, kbEntries, faqEntries)

	// Services.
	bookService := bookingSvc.NewDefaultService(bookRepo, cal, logger)

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMin) * time.Minute
	sessions := intake.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)

	reminderScheduler := tasks.NewAsynqScheduler(cal.Location())
	defer reminderScheduler.Close()

	machine := intake.NewMachine(sessions, bookService, cal, profRepo, reminderScheduler, logger)

	var generator ai.Generator
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to init Gemini client: %v", err)
		}
		generator = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, generative fallback disabled")
	}
	aiSvc := &ai.DefaultService{
		Generator:   generator,
		Ranker:      ranker,
		Dialog:      diaRepo,
		Logger:      logger,
		ContextMode: config.AppConfig.AIContextMode,
		TopK:        config.AppConfig.KBTopK,
		HistoryLen:  config.AppConfig.DialogHistoryLen,
		Timeout:     time.Duration(config.AppConfig.AITimeoutSec) * time.Second,
	}

	assistantSvc := &assistant.DefaultService{
		Machine:  machine,
		Sessions: sessions,
		Bookings: bookService,
		Profiles: profRepo,
		Dialog:   diaRepo,
		Ranker:   ranker,
		AI:       aiSvc,
		Logger:   logger,
	}

	// Background reminder delivery.
	cron.InitReminderWorker(&notification.LogNotifier{Logger: logger})

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	messageHandler := handlers.NewMessageHandler(assistantSvc)
	handlerBundle := &handlers.HandlerBundle{
		HandleMessage: messageHandler.HandleMessage,
		AdminHandler:  handlers.NewAdminHandler(bookService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
