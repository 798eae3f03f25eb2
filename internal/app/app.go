package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/scoutreport/activityform/internal/config"
	"github.com/scoutreport/activityform/internal/db"
	"github.com/scoutreport/activityform/internal/flash"
	"github.com/scoutreport/activityform/internal/repository"
	"github.com/scoutreport/activityform/internal/scheduler"
	"github.com/scoutreport/activityform/internal/service"
	"github.com/scoutreport/activityform/internal/service/notify"
	"github.com/scoutreport/activityform/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Flash             *flash.Store
	ActivityService   *service.ActivityService
	AttachmentService *service.AttachmentService
	FailureRepository repository.NotificationFailureRepository
	NotificationQueue *notify.Queue
	Scheduler         *scheduler.Scheduler
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	activityRepository := repository.NewActivityRepository(database)
	attachmentRepository := repository.NewAttachmentRepository(database)
	failureRepository := repository.NewNotificationFailureRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Notifications
	sender, err := notify.NewSender(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize notification sender: %w", err)
	}
	queue := notify.NewQueue(sender, failureRepository, cfg.NotifyQueueSize)
	queue.Start()

	// Services
	attachmentService := service.NewAttachmentService(attachmentRepository, fileStorage)
	activityService := service.NewActivityService(activityRepository, attachmentService, queue, cfg.Location())

	return &App{
		Cfg:               cfg,
		DB:                database,
		Flash:             flash.NewStore(cfg.SecretKey, cfg.IsProduction()),
		ActivityService:   activityService,
		AttachmentService: attachmentService,
		FailureRepository: failureRepository,
		NotificationQueue: queue,
		Scheduler: scheduler.New(activityService, failureRepository, scheduler.Config{
			DigestSpec: cfg.DigestCron,
			PruneSpec:  cfg.FailurePruneCron,
			Retention:  cfg.FailureRetention,
			Location:   cfg.Location(),
		}),
	}, nil
}

// Close drains pending notifications before closing the database, which
// the queue's failure log still writes to.
func (a *App) Close() error {
	if a.NotificationQueue != nil {
		a.NotificationQueue.Close()
		slog.Info("notification queue drained")
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
