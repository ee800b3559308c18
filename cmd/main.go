package main

import (
	"context"
	"fmt"

	_ "github.com/franciscosanchezn/gin-menu-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-menu-api/internal/cache"
	"github.com/franciscosanchezn/gin-menu-api/internal/config"
	"github.com/franciscosanchezn/gin-menu-api/internal/database"
	"github.com/franciscosanchezn/gin-menu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-menu-api/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"gorm.io/gorm"
)

// @title Menu API
// @version 1.0
// @description Multi-tenant restaurant menu API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	if !configuration.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	db := setupDatabase(configuration)

	// Sessions and rate limits share one redis connection when REDIS_URL is set
	sessionCache, rateStore := setupCache(configuration)

	router := server.NewRouter(server.Dependencies{
		Config:    configuration,
		DB:        db,
		Cache:     sessionCache,
		RateStore: rateStore,
		Logger:    log.StandardLogger(),
	})

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	if err := router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter.
// LOG_LEVEL wins over the level derived from the environment.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if raw := config.GetEnvWithDefault("LOG_LEVEL", ""); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			log.WithField("log_level", raw).Warn("Unknown LOG_LEVEL, keeping default")
			return
		}
		log.SetLevel(level)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupDatabase connects to the configured database and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.FromConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	return db
}

// setupCache returns the session cache and the rate limit store
func setupCache(conf *config.Config) (cache.Cache, limiter.Store) {
	var client *redis.Client
	sessionCache := cache.NewMemory()

	if conf.RedisURL != "" {
		var err error
		client, err = cache.NewRedisClient(context.Background(), conf.RedisURL)
		checkPanicErr(err)
		sessionCache = cache.NewRedis(client)
	} else {
		log.Info("REDIS_URL not set, sessions and rate limits stay in process memory")
	}

	rateStore, err := middleware.NewRateLimitStore(client)
	checkPanicErr(err)
	return sessionCache, rateStore
}
