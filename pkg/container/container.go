package container

import (
	"context"
	"fmt"
	"time"

	"person-registry/internal/config"
	"person-registry/internal/domains/account"
	accountHandler "person-registry/internal/domains/account/handler"
	accountRepo "person-registry/internal/domains/account/repository"
	accountService "person-registry/internal/domains/account/service"
	"person-registry/internal/domains/person"
	personHandler "person-registry/internal/domains/person/handler"
	personRepo "person-registry/internal/domains/person/repository"
	personService "person-registry/internal/domains/person/service"
	infraCache "person-registry/internal/infrastructure/cache"
	"person-registry/internal/infrastructure/database"
	"person-registry/pkg/cache"
	"person-registry/pkg/jwt"
	"person-registry/pkg/logger"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton, initialized once at startup in dependency order: config,
// infrastructure, repositories, services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	PersonRepo    person.Repository
	PersonService person.Service
	PersonHandler *personHandler.PersonHandler

	AccountRepo    account.Repository
	AccountService account.Service
	AccountHandler *accountHandler.AccountHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Cache is an optimization, not a dependency; point lookups fall
		// through to the database when redis is down.
		logger.Warn("redis connection failed (non-critical)", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// Repositories
	c.PersonRepo = personRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.AccountRepo = accountRepo.NewPostgresRepository(db.Pool)

	// Services
	c.PersonService = personService.NewPersonService(c.PersonRepo)
	c.AccountService = accountService.NewAccountService(c.AccountRepo, c.JWTManager, cfg.Operator)

	// Handlers
	c.PersonHandler = personHandler.NewPersonHandler(c.PersonService)
	c.AccountHandler = accountHandler.NewAccountHandler(c.AccountService)

	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if closer, ok := c.Cache.(*infraCache.RedisCache); ok {
		_ = closer.Close()
	}
}
