package bootstrap

import (
	"context"
	"fmt"

	"askgov-sg/internal/config"
	"askgov-sg/internal/constant"
	"askgov-sg/internal/controller"
	"askgov-sg/internal/pkg/logger"
	"askgov-sg/internal/pkg/serverutils"
	"askgov-sg/internal/repository/contract"
	"askgov-sg/internal/repository/memory"
	redisrepo "askgov-sg/internal/repository/redis"
	"askgov-sg/internal/service"
	"askgov-sg/pkg/answer"
	"askgov-sg/pkg/llm/openai"
	"askgov-sg/pkg/render"
	"askgov-sg/pkg/search"
	"askgov-sg/web"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	PageController controller.IPageController
	GateController controller.IGateController
	AskController  controller.IAskController

	// Session plumbing used by the server middleware
	Sessions      contract.SessionRepository
	SessionIssuer *serverutils.SessionIssuer

	// Background services (started by main)
	AuditService service.IAuditService

	// Services (also used directly by the CLI)
	GateService service.IGateService
	AskService  service.IAskService

	Logger      logger.ILogger
	AuditLogger logger.ILogger

	redisClient *redis.Client
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Loggers
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	// 2. Session store
	var (
		sessions    contract.SessionRepository
		redisClient *redis.Client
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := redisrepo.NewClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect session redis: %w", err)
		}
		redisClient = client
		sessions = redisrepo.NewSessionRepository(client, cfg.Session.TTL)
	default:
		sessions = memory.NewSessionRepository(cfg.Session.TTL)
	}

	issuer, err := serverutils.NewSessionIssuer(cfg.Session.SigningKey, cfg.Session.TTL, cfg.Session.SecureOnly)
	if err != nil {
		return nil, err
	}

	// 3. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	auditService := service.NewAuditService(pubSub, constant.TopicQueryCompleted, auditLogger, sysLogger)

	// 4. External clients
	searcher := search.NewGoogleCSEClient(cfg.Keys.GoogleSearch, cfg.Keys.GoogleCSEID, cfg.Search.BaseURL, cfg.Search.Timeout)
	provider := openai.NewProvider(cfg.Keys.OpenAI, cfg.Ai.BaseURL, cfg.Ai.Model, cfg.Ai.Timeout)
	composer := answer.NewPromptComposer(provider, cfg.Ai.IncludeSnippets)

	// 5. Services
	gateService := service.NewGateService(cfg.App.AccessPassword, sessions, sysLogger)
	askService := service.NewAskService(searcher, composer, render.NewMarkdown(), sessions, auditService, sysLogger)

	// 6. Controllers
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}

	return &Container{
		PageController: controller.NewPageController(tmpl, gateService, askService),
		GateController: controller.NewGateController(gateService),
		AskController:  controller.NewAskController(askService),
		Sessions:       sessions,
		SessionIssuer:  issuer,
		AuditService:   auditService,
		GateService:    gateService,
		AskService:     askService,
		Logger:         sysLogger,
		AuditLogger:    auditLogger,
		redisClient:    redisClient,
	}, nil
}

// Close stops the event bus and releases the session store connection.
func (c *Container) Close() error {
	var firstErr error
	if err := c.AuditService.Close(); err != nil {
		firstErr = err
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = c.Logger.Sync()
	_ = c.AuditLogger.Sync()
	return firstErr
}
