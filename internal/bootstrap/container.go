package bootstrap

import (
	"context"
	"log"

	"leadgen-suite-be/internal/config"
	"leadgen-suite-be/internal/controller"
	"leadgen-suite-be/internal/handler"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/mailer"
	"leadgen-suite-be/internal/repository/implementation"
	"leadgen-suite-be/internal/repository/memory"
	"leadgen-suite-be/internal/service"
	"leadgen-suite-be/internal/source"
	"leadgen-suite-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController  controller.ISearchController
	ExportController  controller.IExportController
	ReportController  controller.IReportController
	HistoryController controller.IHistoryController

	// Background services (exposed for main.go to start)
	SearchService       service.ISearchService
	NotificationService service.INotificationService

	// WebSockets & notifications
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.RelayURL,
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Redis (quota counters + websocket fan-out)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. Source adapters
	registry := source.NewRegistry(cfg.Sources.DefaultSource)
	registry.Register("linkedin", source.WithCache(
		source.NewLinkedInAdapter(cfg.Sources.LinkedInURL, sysLogger), cfg.Sources.CacheTTL))
	registry.Register("maps", source.WithCache(
		source.NewGoogleMapsAdapter(cfg.Sources.GoogleMapsURL, sysLogger), cfg.Sources.CacheTTL))
	for id, url := range cfg.Sources.Aggregators {
		registry.Register(id, source.WithCache(
			source.NewAggregatorAdapter(id, url, sysLogger), cfg.Sources.CacheTTL))
	}

	// 5. Repositories
	sessions := memory.NewResultSessionRepository(cfg.Limits.SessionTTL)
	historyRepo := implementation.NewSearchHistoryRepository(db)
	leadRepo := implementation.NewLeadRepository(db)
	exportRepo := implementation.NewExportRepository(db)
	emailRepo := implementation.NewEmailHistoryRepository(db)
	notificationRepo := implementation.NewNotificationRepository(db)

	// 6. WebSocket hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 7. Services
	quota := service.NewSearchQuota(rdb, cfg.Limits.DailySearchQuota, sysLogger)
	searchService := service.NewSearchService(registry, sessions, pubSub, historyRepo, leadRepo, quota, sysLogger)
	resultService := service.NewResultService(sessions)
	exportService := service.NewExportService(sessions, exportRepo, pubSub, sysLogger)
	reportService := service.NewReportService(sessions, emailService, emailRepo, pubSub, sysLogger)
	historyService := service.NewHistoryService(historyRepo, exportRepo, pubSub, sysLogger)
	notificationService := service.NewNotificationService(
		notificationRepo, emailRepo, pubSub, wsHub, cfg.Limits.NotificationDebounce, sysLogger)

	// 8. Controllers
	return &Container{
		SearchController:  controller.NewSearchController(searchService, resultService),
		ExportController:  controller.NewExportController(exportService),
		ReportController:  controller.NewReportController(reportService),
		HistoryController: controller.NewHistoryController(historyService),

		SearchService:       searchService,
		NotificationService: notificationService,

		NotificationHandler: handler.NewNotificationHandler(notificationService, wsHub, sysLogger),
		WebSocketHub:        wsHub,
	}
}
