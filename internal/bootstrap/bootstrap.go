package bootstrap

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Aryan9inja/edu-collab/docs" // Import generated swagger docs
	appControllers "github.com/Aryan9inja/edu-collab/internal/app/controllers"
	appMigrations "github.com/Aryan9inja/edu-collab/internal/app/migrations"
	appRepos "github.com/Aryan9inja/edu-collab/internal/app/repositories"
	appRoutes "github.com/Aryan9inja/edu-collab/internal/app/routes"
	appServices "github.com/Aryan9inja/edu-collab/internal/app/services"
	"github.com/Aryan9inja/edu-collab/internal/config"
	"github.com/Aryan9inja/edu-collab/internal/db"
	appMiddleware "github.com/Aryan9inja/edu-collab/internal/middleware"
	pkgAuth "github.com/Aryan9inja/edu-collab/internal/pkg/auth"
	"github.com/Aryan9inja/edu-collab/internal/pkg/filestorage"
	"github.com/Aryan9inja/edu-collab/internal/pkg/helpers"
	"github.com/Aryan9inja/edu-collab/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	ClassroomService    appServices.ClassroomService
	UsernameService     appServices.UsernameService
	NoteService         appServices.NoteService
	AssistantService    appServices.AssistantService
	AuthController      *appControllers.AuthController
	UserController      *appControllers.UserController
	ClassroomController *appControllers.ClassroomController
	NoteController      *appControllers.NoteController
	AssistantController *appControllers.AssistantController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Logger              zerolog.Logger
	FileStorage         *filestorage.LocalStorage
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Base URL must match the static file serving endpoint
	publicURL := cfg.Server.PublicURL
	if publicURL == "" {
		publicURL = "http://localhost:" + cfg.Server.Port
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, publicURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.UsernameRepository,
		deps.JWTService,
		lgr.With().Str("service", "auth").Logger(),
	)
	deps.ClassroomService = appServices.NewClassroomService(
		deps.Repos.ClassroomRepository,
		deps.Repos.MembershipRepository,
		deps.Repos.UsernameRepository,
		deps.Repos.NoteRepository,
		deps.Repos.FileRepository,
		deps.FileStorage,
		lgr.With().Str("service", "classroom").Logger(),
	)
	deps.UsernameService = appServices.NewUsernameService(
		deps.Repos.UsernameRepository,
		deps.Repos.ClassroomRepository,
		deps.Repos.MembershipRepository,
		lgr.With().Str("service", "username").Logger(),
	)
	deps.NoteService = appServices.NewNoteService(
		deps.Repos.ClassroomRepository,
		deps.Repos.NoteRepository,
		deps.Repos.FileRepository,
		deps.FileStorage,
		lgr.With().Str("service", "note").Logger(),
	)
	deps.AssistantService = appServices.NewAssistantService(
		deps.Repos.ClassroomRepository,
		cfg.Assistant,
		lgr.With().Str("service", "assistant").Logger(),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UsernameService)
	deps.ClassroomController = appControllers.NewClassroomController(deps.ClassroomService)
	deps.NoteController = appControllers.NewNoteController(deps.NoteService)
	deps.AssistantController = appControllers.NewAssistantController(deps.AssistantService)

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

	router := gin.Default()

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ClassroomController,
		deps.NoteController,
		deps.AssistantController,
		deps.AuthMiddleware,
	)

	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
