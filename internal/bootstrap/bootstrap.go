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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/examplanner/examplanner/internal/app/controllers"
	appMigrations "github.com/examplanner/examplanner/internal/app/migrations"
	appRepos "github.com/examplanner/examplanner/internal/app/repositories"
	appRoutes "github.com/examplanner/examplanner/internal/app/routes"
	appServices "github.com/examplanner/examplanner/internal/app/services"
	"github.com/examplanner/examplanner/internal/config"
	"github.com/examplanner/examplanner/internal/db"
	appMiddleware "github.com/examplanner/examplanner/internal/middleware"
	pkgAuth "github.com/examplanner/examplanner/internal/pkg/auth"
	"github.com/examplanner/examplanner/internal/pkg/email"
	"github.com/examplanner/examplanner/internal/pkg/logger"
	"github.com/examplanner/examplanner/internal/pkg/validation"
	"github.com/examplanner/examplanner/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService      *appServices.AuthService
	ExamService      *appServices.ExamService
	ReportService    *appServices.ReportService
	CourseService    *appServices.CourseService
	RoomService      *appServices.RoomService
	PeriodService    *appServices.PeriodService
	AdminService     *appServices.AdminService
	AuthController   *appControllers.AuthController
	ExamController   *appControllers.ExamController
	ReportController *appControllers.ReportController
	CourseController *appControllers.CourseController
	RoomController   *appControllers.RoomController
	PeriodController *appControllers.PeriodController
	AdminController  *appControllers.AdminController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	Notifier         email.Notifier
	Logger           zerolog.Logger
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
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default accounts.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default accounts after migrations
	if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default accounts, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: parseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Notifier = email.NewSMTPNotifier(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		UseTLS:    cfg.Email.UseTLS,
	}, lgr)

	// Initialize services
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)
	deps.ExamService = appServices.NewExamService(
		deps.Repos.ExamRepository,
		deps.Repos.CourseRepository,
		deps.Repos.GroupRepository,
		deps.Repos.RoomRepository,
		deps.Repos.UserRepository,
		deps.Repos.PeriodRepository,
		deps.Notifier,
	)
	deps.ReportService = appServices.NewReportService(deps.Repos.ExamRepository, deps.Repos.GroupRepository)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.GroupRepository,
		deps.Repos.UserRepository,
	)
	deps.RoomService = appServices.NewRoomService(deps.Repos.RoomRepository)
	deps.PeriodService = appServices.NewPeriodService(deps.Repos.PeriodRepository)
	deps.AdminService = appServices.NewAdminService(deps.Repos.UserRepository, deps.Repos.MaintenanceRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ExamController = appControllers.NewExamController(deps.ExamService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.RoomController = appControllers.NewRoomController(deps.RoomService)
	deps.PeriodController = appControllers.NewPeriodController(deps.PeriodService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.Setup()

	router := gin.Default()
	router.Use(appMiddleware.RequestID())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ExamController,
		deps.ReportController,
		deps.CourseController,
		deps.RoomController,
		deps.PeriodController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}

// parseDuration parses a duration string, falling back to a default
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
