// Package app wires configuration, storage, services and HTTP routes into a
// runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kriya/internal/config"
	"kriya/internal/events"
	"kriya/internal/handlers"
	"kriya/internal/middleware"
	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/services"
	"kriya/internal/session"
	"kriya/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// App is a fully wired server.
type App struct {
	Fiber *fiber.App

	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
	Auth     *services.AuthService

	cfg     config.Config
	log     *zap.Logger
	mq      *rabbitmq.Client
	closers []func() error
}

type repos struct {
	products repositories.ProductRepository
	carts    repositories.CartRepository
	orders   repositories.OrderRepository
	users    repositories.UserRepository
}

// New builds the storage adapters, services and routes selected by cfg.
// Resources opened before a failure are released.
func New(cfg config.Config, log *zap.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	rs, err := a.openRepositories()
	if err != nil {
		return nil, err
	}
	sessions, err := a.openSessionStore()
	if err != nil {
		return nil, err
	}
	publisher, err := a.openPublisher()
	if err != nil {
		return nil, err
	}

	a.Products = services.NewProductService(rs.products, log)
	a.Carts = services.NewCartService(rs.carts, rs.products, cfg.CartMaxCASAttempts, log)
	a.Orders = services.NewOrderService(rs.orders, a.Carts, publisher, log)
	a.Auth = services.NewAuthService(rs.users, sessions, cfg.JWTSecret, cfg.TokenTTL, log)

	if cfg.SeedProducts {
		if err := seedProducts(context.Background(), rs.products, log); err != nil {
			return nil, err
		}
	}

	a.Fiber = a.routes()
	return a, nil
}

func (a *App) policy() repositories.Policy {
	p := repositories.DefaultPolicy
	if a.cfg.StoreTimeout > 0 {
		p.Timeout = a.cfg.StoreTimeout
	}
	p.MaxRetries = a.cfg.StoreMaxRetries
	return p
}

func (a *App) openRepositories() (repos, error) {
	if a.cfg.DatabaseDriver == "memory" {
		return repos{
			products: repositories.NewMockProductRepository(),
			carts:    repositories.NewMockCartRepository(),
			orders:   repositories.NewMockOrderRepository(),
			users:    repositories.NewMockUserRepository(),
		}, nil
	}

	db, err := openDB(a.cfg)
	if err != nil {
		return repos{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return repos{}, fmt.Errorf("failed to get database handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)

	p := a.policy()
	return repos{
		products: repositories.NewGORMProductRepository(db, p),
		carts:    repositories.NewGORMCartRepository(db, p),
		orders:   repositories.NewGORMOrderRepository(db, p),
		users:    repositories.NewGORMUserRepository(db, p),
	}, nil
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	level := gormlogger.Warn
	if cfg.AppEnv == "development" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DatabaseDriver, err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Cart{}, &models.Order{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}

func (a *App) openSessionStore() (session.Store, error) {
	if a.cfg.SessionStore != "redis" {
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	a.closers = append(a.closers, client.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", a.cfg.RedisAddr, err)
	}
	return session.NewRedisStore(client), nil
}

func (a *App) openPublisher() (events.Publisher, error) {
	var publisher events.Publisher
	switch a.cfg.EventsBroker {
	case "rabbitmq":
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.cfg.RabbitMQURL}, a.log)
		if err != nil {
			return nil, err
		}
		a.mq = mq
		publisher = events.NewRabbitPublisher(mq)
	case "kafka":
		if len(a.cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS must list at least one broker")
		}
		publisher = events.NewKafkaPublisher(a.cfg.KafkaBrokers, a.cfg.KafkaTopic)
	default:
		publisher = events.NewLogPublisher(a.log)
	}
	a.closers = append(a.closers, publisher.Close)
	return publisher, nil
}

func (a *App) routes() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "kriya",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	if a.cfg.AppEnv == "development" {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": a.cfg.DatabaseDriver,
			"sessions": a.cfg.SessionStore,
			"events":   a.cfg.EventsBroker,
		})
	})

	requireAuth := middleware.AuthRequired(a.Auth, a.log)
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(a.Auth, a.log).RegisterRoutes(apiV1, requireAuth)
	handlers.NewProductHandler(a.Products, a.log).RegisterRoutes(apiV1)
	handlers.NewSellerHandler(a.Products, a.log).RegisterRoutes(apiV1, requireAuth, middleware.RequireRole(models.RoleArtisan))
	handlers.NewCartHandler(a.Carts, a.log).RegisterRoutes(apiV1, requireAuth)
	handlers.NewOrderHandler(a.Orders, a.log).RegisterRoutes(apiV1, requireAuth)
	return app
}

// StartConsumers starts the order event consumer when RabbitMQ is the
// broker. Other brokers have no in-process consumer.
func (a *App) StartConsumers() error {
	if a.mq == nil {
		return nil
	}
	a.log.Info("starting RabbitMQ consumer for orders")
	return a.mq.Consume(a.handleOrderEvent)
}

func (a *App) handleOrderEvent(msg amqp.Delivery) error {
	evt, err := events.Decode(msg.Body)
	if err != nil {
		return err
	}
	a.log.Info("order event received",
		zap.Uint64("delivery_tag", msg.DeliveryTag),
		zap.String("order_id", evt.OrderID),
		zap.Strings("seller_ids", evt.SellerIDs),
		zap.Int("item_count", evt.ItemCount))
	return nil
}

// Listen serves HTTP on the configured port until Shutdown.
func (a *App) Listen() error {
	a.log.Info("starting server", zap.String("port", a.cfg.AppPort))
	return a.Fiber.Listen(a.cfg.AppPort)
}

// Shutdown stops accepting requests, waits for in-flight ones up to ctx's
// deadline and then releases every resource.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Fiber != nil {
		if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
		}
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases storage, session and broker connections in reverse order of
// opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
