// Package app wires configuration, databases, services and the HTTP router.
package app

import (
	"context"
	"net/http"
	"slices"
	"time"

	"todo_api/internal/config"
	"todo_api/internal/handler"
	"todo_api/internal/middleware"
	"todo_api/internal/repository"
	"todo_api/internal/service"
	"todo_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const ServiceName = "todo-api"

// App is built once at startup and shared by every request.
type App struct {
	Config     config.Config
	AppDB      *pgxpool.Pool
	IdentityDB *pgxpool.Pool
	JWT        *utils.JWTUtil

	Todos  service.TodoService
	Auth   service.AuthService
	Seeder *service.Seeder
}

// New connects both databases and builds the service graph.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	appDB, err := config.ConnectDB(ctx, "app", cfg.AppDatabaseURL, cfg.DBMaxRetries, cfg.DBRetryInterval)
	if err != nil {
		return nil, err
	}
	identityDB, err := config.ConnectDB(ctx, "identity", cfg.IdentityDatabaseURL, cfg.DBMaxRetries, cfg.DBRetryInterval)
	if err != nil {
		appDB.Close()
		return nil, err
	}

	a := build(cfg, repository.NewTodoRepository(appDB), repository.NewUserRepository(identityDB))
	a.AppDB = appDB
	a.IdentityDB = identityDB
	return a, nil
}

func build(cfg config.Config, todos repository.TodoRepository, users repository.UserRepository) *App {
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiration)

	seedPassword := cfg.SeedPassword
	if seedPassword == "" {
		seedPassword = service.DevelopmentSeedPassword
	}

	return &App{
		Config: cfg,
		JWT:    jwtUtil,
		Todos:  service.NewTodoService(todos),
		Auth:   service.NewAuthService(users, jwtUtil),
		Seeder: service.NewSeeder(users, service.SeedOptions{
			Accounts: cfg.SeedAccounts(),
			Password: seedPassword,
		}),
	}
}

// Close releases both pools.
func (a *App) Close() {
	if a.AppDB != nil {
		a.AppDB.Close()
	}
	if a.IdentityDB != nil {
		a.IdentityDB.Close()
	}
}

// Migrate applies both schemas.
func (a *App) Migrate(ctx context.Context) error {
	if err := config.Migrate(ctx, a.AppDB, config.AppSchema); err != nil {
		return err
	}
	if err := config.Migrate(ctx, a.IdentityDB, config.IdentitySchema); err != nil {
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}

// Prepare migrates and seeds. Failures are logged and startup continues.
func (a *App) Prepare(ctx context.Context) {
	if err := a.Migrate(ctx); err != nil {
		log.Error().Err(err).Msg("database migration failed, continuing")
		return
	}
	if err := a.Seeder.Seed(ctx); err != nil {
		log.Error().Err(err).Msg("database seeding failed, continuing")
	}
}

// Router builds the gin engine with every route.
func (a *App) Router() *gin.Engine {
	if !a.Config.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.Timeout(a.Config.RequestTimeout),
	)

	router.GET("/health", handler.NewHealthHandler(a.healthChecks()).Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := router.Group("")
	handler.NewAuthHandler(a.Auth).RegisterAuthRoutes(root)
	handler.NewTodoHandler(a.Todos).RegisterTodoRoutes(root,
		middleware.JWTAuthMiddleware(a.JWT),
		middleware.UserMiddleware(),
	)
	return router
}

func (a *App) healthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{}
	if a.AppDB != nil {
		checks["app"] = a.AppDB
	}
	if a.IdentityDB != nil {
		checks["identity"] = a.IdentityDB
	}
	return checks
}

// Handler wraps the router with CORS, per-IP rate limiting and tracing.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.Router()
	h = cors.Handler(corsOptions(a.Config.AllowedOrigins))(h)
	if n := a.Config.RateLimitPerMinute; n > 0 {
		h = httprate.LimitByIP(n, time.Minute)(h)
	}
	return otelhttp.NewHandler(h, ServiceName)
}

// Server returns the HTTP server for the configured address.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              a.Config.ServerAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func corsOptions(allowed []string) cors.Options {
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: !slices.Contains(allowed, "*"),
		MaxAge:           int((10 * time.Minute).Seconds()),
	}
}
