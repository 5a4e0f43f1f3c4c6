package di

import (
	"github.com/cold-17/smart-todo-app-sub000/application/serviceimpl"
	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	natspkg "github.com/cold-17/smart-todo-app-sub000/infrastructure/nats"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/postgres"
	redispkg "github.com/cold-17/smart-todo-app-sub000/infrastructure/redis"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/websocket"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/handlers"
	"github.com/cold-17/smart-todo-app-sub000/pkg/config"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/scheduler"

	"gorm.io/gorm"
)

// Container wires configuration, infrastructure, repositories and services.
// Redis and NATS are optional: the app starts without them, losing only the
// materialization lease and the realtime fan-out respectively.
type Container struct {
	Config *config.Config

	DB             *gorm.DB
	RedisClient    *redispkg.Client
	NATSClient     *natspkg.Client
	EventScheduler scheduler.EventScheduler
	WSManager      *websocket.WebSocketManager

	EventPublisher  ports.TaskEventPublisher
	EventSubscriber ports.TaskEventSubscriber
	Broadcaster     *websocket.TaskEventBroadcaster

	UserRepository repositories.UserRepository
	TaskRepository repositories.TaskRepository
	ListRepository repositories.ListRepository

	UserService       services.UserService
	TaskService       services.TaskService
	ListService       services.ListService
	AnalyticsService  services.AnalyticsService
	RecurrenceService *serviceimpl.RecurrenceServiceImpl
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	c.initRepositories()

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	if err := c.initBroadcaster(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, materialization lease disabled", "error", err)
		} else {
			c.RedisClient = redisClient
		}
	}

	c.WSManager = websocket.NewWebSocketManager()
	c.WSManager.Start()

	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(&c.Config.NATS)
		if err != nil {
			logger.Warn("NATS unavailable, falling back to local event delivery", "error", err)
		} else {
			c.NATSClient = natsClient
			c.EventPublisher = natspkg.NewPublisher(natsClient)
			c.EventSubscriber = natspkg.NewSubscriber(natsClient)
		}
	}

	// Single-node fallback: push events straight to the in-process websocket
	// manager instead of through the broker.
	if c.EventPublisher == nil {
		c.EventPublisher = websocket.NewLocalPublisher(c.WSManager)
	}

	return nil
}

func (c *Container) initRepositories() {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	c.ListRepository = postgres.NewListRepository(c.DB)
	logger.Info("Repositories initialized")
}

func (c *Container) initServices() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.Config.JWT.Secret)
	c.RecurrenceService = serviceimpl.NewRecurrenceService(
		c.TaskRepository,
		c.RedisClient,
		c.EventPublisher,
		c.EventScheduler,
		&c.Config.Recurrence,
	)
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.ListRepository, c.RecurrenceService, c.EventPublisher)
	c.ListService = serviceimpl.NewListService(c.ListRepository, c.TaskRepository, c.UserRepository, c.EventPublisher)
	c.AnalyticsService = serviceimpl.NewAnalyticsService(c.TaskRepository, c.RedisClient)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	if err := c.RecurrenceService.RegisterBackfillJob(); err != nil {
		return err
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) initBroadcaster() error {
	if c.EventSubscriber == nil {
		logger.Warn("Skipping task event broadcaster (NATS not available)")
		return nil
	}

	c.Broadcaster = websocket.NewTaskEventBroadcaster(c.EventSubscriber, c.WSManager)
	return c.Broadcaster.Start()
}

// GetHandlerServices packages services for the HTTP layer.
func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:       c.UserService,
		TaskService:       c.TaskService,
		ListService:       c.ListService,
		AnalyticsService:  c.AnalyticsService,
		RecurrenceService: c.RecurrenceService,
		JWTSecret:         c.Config.JWT.Secret,
	}
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) Cleanup() error {
	if c.Broadcaster != nil {
		c.Broadcaster.Stop()
	}

	if c.EventScheduler != nil {
		c.EventScheduler.Stop()
	}

	if c.WSManager != nil {
		c.WSManager.Stop()
	}

	if c.NATSClient != nil {
		c.NATSClient.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Redis close failed", "error", err)
		}
	}

	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	logger.Info("Container cleaned up")
	return nil
}
