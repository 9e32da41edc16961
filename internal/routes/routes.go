package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parc-info/internal/controllers"
	"parc-info/internal/repositories"
	"parc-info/internal/services"
	"parc-info/pkg/config"
	"parc-info/pkg/constants"
	"parc-info/pkg/middleware"
	"parc-info/pkg/session"
)

// InitRouter wires repositories, services and controllers, then mounts the
// API under /api with three access tiers: public, authenticated, and
// role-gated (Gestionnaire for stock, Admin for user management).
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	sessions *session.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) {
	txManager := repositories.NewTxManager(dbConn)

	userRepo := repositories.NewUserRepository(dbConn, logger)
	materielRepo := repositories.NewMaterielRepository(dbConn, logger)
	demandeRepo := repositories.NewDemandeRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient, logger)

	authService := services.NewAuthService(
		userRepo, cacheRepo, sessions,
		cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutDuration, logger,
	)
	userService := services.NewUserService(userRepo, materielRepo, txManager, logger)
	materielService := services.NewMaterielService(materielRepo, userRepo, logger)
	importService := services.NewMaterielImportService(materielRepo, logger)
	demandeService := services.NewDemandeService(demandeRepo, materielRepo, txManager, logger)

	authController := controllers.NewAuthController(
		authService, cfg.Session.CookieName, cfg.Session.TTL, cfg.Session.Secure, logger,
	)
	userController := controllers.NewUserController(userService, logger)
	materielController := controllers.NewMaterielController(materielService, importService, logger)
	demandeController := controllers.NewDemandeController(demandeService, logger)

	authMW := middleware.NewAuthMiddleware(sessions, cfg.Session.CookieName, logger)

	api := e.Group("/api")
	authed := api.Group("", authMW.Auth)
	gestion := api.Group("", authMW.Auth, authMW.RequireRoles(constants.RoleAdmin, constants.RoleGestionnaire))
	admin := api.Group("", authMW.Auth, authMW.RequireRoles(constants.RoleAdmin))

	runAuthRouter(api, authed, authController)
	runUserRouter(admin, userController)
	runMaterielRouter(authed, gestion, materielController)
	runDemandeRouter(authed, gestion, demandeController)

	logger.Info("routes mounted")
}
