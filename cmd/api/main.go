package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/northstackhq/funnelbot/internal/api/router"
	"github.com/northstackhq/funnelbot/internal/assistant"
	"github.com/northstackhq/funnelbot/internal/bot"
	"github.com/northstackhq/funnelbot/internal/capture"
	appconfig "github.com/northstackhq/funnelbot/internal/config"
	"github.com/northstackhq/funnelbot/internal/http/handlers"
	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/notify"
	"github.com/northstackhq/funnelbot/internal/observability/metrics"
	"github.com/northstackhq/funnelbot/internal/override"
	"github.com/northstackhq/funnelbot/internal/profiles"
	"github.com/northstackhq/funnelbot/internal/wizard"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

func main() {
	// A local .env is optional; production injects real environment.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting funnelbot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	m := metrics.New()

	var (
		leadsRepo     leads.Repository
		profilesRepo  profiles.Repository
		wizardStore   wizard.Store
		overrideStore override.Store
		pool          *pgxpool.Pool
	)
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		leadsRepo = leads.NewPostgresRepository(pool)
		profilesRepo = profiles.NewPostgresRepository(pool)
		wizardStore = wizard.NewPostgresStore(pool)
		overrideStore = override.NewPostgresStore(pool)
		logger.Info("using postgres storage")
	} else {
		memLeads := leads.NewInMemoryRepository()
		leadsRepo = memLeads
		profilesRepo = profiles.NewInMemoryRepository(memLeads)
		wizardStore = wizard.NewInMemoryStore()
		overrideStore = override.NewInMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	}
	notifySvc := notify.NewService(cfg.NotificationChatIDs(), nil, emailSender, cfg.EmailRecipients(), logger)

	var submitter leads.Submitter
	if cfg.LeadAPIEnabled {
		submitter = leads.NewAPIClient(cfg.LeadAPIBase, cfg.LeadAPITimeout, logger)
	} else {
		submitter = leads.NewRepositorySubmitter(leadsRepo, notifySvc, logger)
	}

	wizardEngine := wizard.NewEngine(wizardStore, submitter, m, logger)

	var chatClient assistant.ChatClient
	if cfg.AssistantEnabled && cfg.OpenAIAPIKey != "" {
		chatClient = assistant.NewOpenAIClient(
			cfg.OpenAIAPIKey,
			cfg.OpenAIModel,
			cfg.OpenAIBaseURL,
			cfg.AssistantMaxTokens,
			m, logger,
		)
	} else {
		logger.Warn("generative replies disabled, canned fallbacks only")
	}
	asst := assistant.New(
		chatClient,
		assistant.NewHistory(cfg.AssistantHistorySize, cfg.AssistantHistoryChars),
		assistant.NewComposer(cfg.SalesMaxDiscountPct, overrideStore, logger),
		assistant.NewEnforcer(cfg.SalesMaxDiscountPct),
		cfg.AssistantTimeout,
		m, logger,
	)

	policy := capture.NewPolicy(
		cfg.AutoCaptureMinMessages,
		cfg.AutoCaptureMinDetailsChars,
		cfg.FollowUpDetailsAfterMessages,
	)
	pipeline := capture.NewPipeline(cfg.AutoCaptureEnabled, profilesRepo, policy, notifySvc, m, logger)

	engine := bot.NewEngine(wizardEngine, asst, pipeline, notifySvc, m, logger)
	dispatcher := bot.NewDispatcher(engine, bot.NewMemoryQueue(cfg.QueueBuffer), logger,
		bot.WithWorkerCount(cfg.WorkerCount))

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(leadsRepo, notifySvc, logger),
		TurnsHandler:       handlers.NewTurnsHandler(dispatcher, logger),
		AdminAssistant:     handlers.NewAdminAssistantHandler(overrideStore, logger),
		AdminAuthSecret:    cfg.AdminAuthSecret,
		MetricsHandler:     m.Handler(),
		CORSAllowedOrigins: cfg.CORSOrigins(),
		TurnRatePerSec:     cfg.TurnRatePerSec,
		TurnBurst:          cfg.TurnBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := dispatcher.Shutdown(ctx); err != nil {
		logger.Error("dispatcher forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
