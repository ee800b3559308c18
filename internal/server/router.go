// Package server wires services, controllers and middlewares into the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-menu-api/internal/auth"
	"github.com/franciscosanchezn/gin-menu-api/internal/cache"
	"github.com/franciscosanchezn/gin-menu-api/internal/config"
	"github.com/franciscosanchezn/gin-menu-api/internal/controllers"
	"github.com/franciscosanchezn/gin-menu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"gorm.io/gorm"
)

// Dependencies are the collaborators shared by every request
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Cache     cache.Cache
	RateStore limiter.Store
	Logger    *logrus.Logger
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	controllers.RegisterBindingTypes()

	// Services
	validate := services.NewValidator()
	sessionService := services.NewSessionService(deps.DB, deps.Cache, cfg.SessionTTL, cfg.SessionCacheTTL)
	organizationService := services.NewOrganizationService(deps.DB, deps.Cache, cfg.PasswordCost, cfg.ResetTokenTTL)
	menuService := services.NewMenuService(deps.DB, validate)
	clientService := services.NewClientService(deps.DB, cfg.PasswordCost)
	oauthService := auth.NewOAuthService(deps.DB, cfg.JWTSecret)

	// Controllers
	organizationController := controllers.NewOrganizationController(organizationService, sessionService, controllers.CookieConfig{
		Name:   cfg.AuthCookieName,
		MaxAge: cfg.SessionTTL,
		Secure: !cfg.IsDevelopment(),
	}, cfg.Env != "production")
	menuController := controllers.NewMenuController(menuService)
	clientController := controllers.NewClientController(clientService)

	// Middlewares
	jwtSecret := []byte(cfg.JWTSecret)
	sessionAuth := middleware.SessionAuth(sessionService, cfg.AuthCookieName)
	requireOrganization := middleware.RequireOrganization(sessionService, cfg.AuthCookieName, jwtSecret)
	requireWrite := middleware.RequireScope("write")
	rateLimit := middleware.RateLimit(deps.RateStore, cfg.RateLimitPerMinute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(cors.New(corsConfig(cfg)))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(deps.DB))

	organization := router.Group("/organization")
	{
		organization.POST("/register", rateLimit, organizationController.Register)
		organization.POST("/login", rateLimit, organizationController.Login)
		organization.POST("/forgot-password", rateLimit, organizationController.ForgotPassword)
		organization.POST("/reset-password/:resetToken", rateLimit, organizationController.ResetPassword)

		session := organization.Group("", sessionAuth)
		session.GET("", organizationController.GetOrganization)
		session.DELETE("/logout", organizationController.Logout)
		session.DELETE("/logout-all", organizationController.LogoutAll)
		session.DELETE("/me", organizationController.DeleteMe)
	}

	oauth := router.Group("/oauth")
	{
		oauth.POST("/token", rateLimit, oauthService.HandleToken)
		oauth.GET("/authorize", sessionAuth, oauthService.HandleAuthorize)

		// Only a logged in organization manages its clients, a client cannot mint new ones
		clients := oauth.Group("/clients", sessionAuth)
		clients.POST("", clientController.CreateClient)
		clients.GET("", clientController.ListClients)
		clients.DELETE("/:id", clientController.DeleteClient)
	}

	// Organization-scoped resources accept the session cookie or a Bearer token
	api := router.Group("", requireOrganization)
	{
		menu := api.Group("/menu")
		menu.GET("", menuController.ListMenus)
		menu.GET("/:menuId", menuController.GetMenu)
		menu.POST("", requireWrite, menuController.CreateMenu)
		menu.PUT("/:menuId", requireWrite, menuController.UpdateMenu)
		menu.DELETE("/:menuId", requireWrite, menuController.DeleteMenu)

		controllers.NewScopedController(services.NewScopedService[models.Shop](deps.DB, validate)).
			Register(api.Group("/shop"), requireWrite)
		controllers.NewScopedController(services.NewScopedService[models.Merchant](deps.DB, validate)).
			Register(api.Group("/merchant"), requireWrite)
		controllers.NewScopedController(services.NewScopedService[models.MenuCategory](deps.DB, validate)).
			Register(api.Group("/menu-category"), requireWrite)
		controllers.NewScopedController(services.NewScopedService[models.MenuProduct](deps.DB, validate)).
			Register(api.Group("/menu-product"), requireWrite)
		controllers.NewScopedController(services.NewScopedService[models.MenuProductOption](deps.DB, validate)).
			Register(api.Group("/menu-product-option"), requireWrite)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// Credentials cannot be shared with a wildcard origin
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	return corsConfig
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service and its database are up
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, health, database := http.StatusOK, "healthy", "up"
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logrus.WithError(err).Error("Health check database ping failed")
			status, health, database = http.StatusServiceUnavailable, "unhealthy", "down"
		}

		c.JSON(status, gin.H{
			"status":    health,
			"database":  database,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "gin-menu-api",
		})
	}
}
