package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/act/eventportal/internal/app/controllers"
	appMigrations "github.com/act/eventportal/internal/app/migrations"
	appRepos "github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/app/repositories/memstore"
	appRoutes "github.com/act/eventportal/internal/app/routes"
	appServices "github.com/act/eventportal/internal/app/services"
	"github.com/act/eventportal/internal/config"
	"github.com/act/eventportal/internal/db"
	appMiddleware "github.com/act/eventportal/internal/middleware"
	"github.com/act/eventportal/internal/pkg/auth"
	"github.com/act/eventportal/internal/pkg/email"
	"github.com/act/eventportal/internal/pkg/logger"
	"github.com/act/eventportal/internal/pkg/session"
	"github.com/act/eventportal/internal/seed"
)

// Storage is the selected persistence backend
type Storage struct {
	Repos      *appRepos.Repositories
	Transactor appRepos.Transactor
	Pinger     appControllers.Pinger
	// Postgres is nil when the memory driver is used
	Postgres *db.PostgresDB
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.Postgres != nil {
		s.Postgres.Close()
	}
}

// Sessions is the selected session backend
type Sessions struct {
	Store session.Store
	// Redis is nil when the memory store is used
	Redis *redis.Client
}

// Close closes the redis client, if any
func (s *Sessions) Close() error {
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AdminService        appServices.AdminService
	FacultyService      appServices.FacultyService
	StudentService      appServices.StudentService
	NotificationService appServices.NotificationService
	AdminController     *appControllers.AdminController
	FacultyController   *appControllers.FacultyController
	StudentController   *appControllers.StudentController
	ContactController   *appControllers.ContactController
	HealthController    *appControllers.HealthController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	SessionManager      *session.Manager
	Repos               *appRepos.Repositories
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured storage backend, applies migrations and seeds the
// default admin.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	var storage *Storage

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage; data is lost on restart")
		store := memstore.New()
		storage = &Storage{
			Repos:      store.Repositories(),
			Transactor: store,
			Pinger:     appControllers.PingFunc(func(context.Context) error { return nil }),
		}

	default:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		if err := runMigrations(ctx, cfg, database, lgr); err != nil {
			database.Close()
			return nil, err
		}

		storage = &Storage{
			Repos:      appRepos.NewRepositories(database.Pool),
			Transactor: appRepos.NewTransactor(database),
			Pinger:     database,
			Postgres:   database,
		}
	}

	adminSeed := seed.AdminSeed{
		Username: cfg.Seed.AdminUsername,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultData(ctx, storage.Repos, adminSeed, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return storage, nil
}

func runMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupSessions connects the configured session store
func SetupSessions(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Sessions, error) {
	if cfg.Session.Store == config.SessionStoreMemory {
		lgr.Warn().Msg("Using in-memory session store; sessions are lost on restart")
		return &Sessions{Store: session.NewMemoryStore()}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis session store connected")

	return &Sessions{Store: session.NewRedisStore(client), Redis: client}, nil
}

// NewMailSender builds the SMTP sender from configuration
func NewMailSender(cfg *config.Config) *email.SMTPSender {
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		FromName:  cfg.Mail.FromName,
		FromEmail: cfg.Mail.FromEmail,
		UseTLS:    cfg.Mail.UseTLS,
	}, logger.Component("mail"))
	if !sender.Configured() {
		logger.Warn().Msg("SMTP credentials not configured; outbound mail will fail and be logged")
	}
	return sender
}

// BuildDependencies initializes services, controllers and middleware over the chosen backends.
func BuildDependencies(cfg *config.Config, storage *Storage, sessions *Sessions, sender email.Sender, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, Repos: storage.Repos}

	deps.SessionManager = session.NewManager(sessions.Store, session.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		TTL:    cfg.SessionTTL(),
	})

	resetTokens := auth.NewResetTokenService(auth.ResetTokenConfig{
		SecretKey:   cfg.JWT.Secret,
		Expiration:  cfg.ResetTokenTTL(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.NotificationService = appServices.NewNotificationService(sender, appServices.NotificationConfig{
		FrontendURL:      cfg.Server.FrontendURL,
		ContactRecipient: cfg.Mail.ContactRecipient,
	}, lgr.With().Str("component", "notifications").Logger())

	deps.AdminService = appServices.NewAdminService(
		storage.Repos,
		storage.Transactor,
		deps.NotificationService,
		resetTokens,
		lgr.With().Str("component", "admin").Logger(),
	)
	deps.FacultyService = appServices.NewFacultyService(storage.Repos, lgr.With().Str("component", "faculty").Logger())
	deps.StudentService = appServices.NewStudentService(storage.Repos, lgr.With().Str("component", "student").Logger())

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionManager, storage.Repos)

	deps.AdminController = appControllers.NewAdminController(deps.AdminService, deps.SessionManager, lgr)
	deps.FacultyController = appControllers.NewFacultyController(deps.FacultyService, deps.SessionManager, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.SessionManager, lgr)
	deps.ContactController = appControllers.NewContactController(deps.NotificationService)
	deps.HealthController = appControllers.NewHealthController(map[string]appControllers.Pinger{
		"database": storage.Pinger,
		"sessions": sessions.Store,
	})

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.ConfigureValidator()
	metrics := appMiddleware.NewMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http"), "/metrics", "/api/health"))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", metrics.Handler())
	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AdminController,
		deps.FacultyController,
		deps.StudentController,
		deps.ContactController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}
