package container

import (
	"evote-api/internal/config"
	"evote-api/internal/service"
	"evote-api/internal/service/auth"
	"evote-api/pkg/logger"
	"evote-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	AuthService service.AuthService
	Notifier    service.Notifier
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Redis is optional: without it the service runs uncached and the
	// database uniqueness constraint carries duplicate prevention alone.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without caching")
	}

	authService := auth.NewService(cfg.AuthJWTSecret, logger)
	notifier := service.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyAuthToken, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		AuthService: authService,
		Notifier:    notifier,
	}, nil
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.AuthService
}

// GetNotifier returns the notification sender
func (c *Container) GetNotifier() service.Notifier {
	return c.Notifier
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
