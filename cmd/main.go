package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	_ "github.com/sbilibin2017/gw-feedback/docs"
	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/middlewares"
	"github.com/sbilibin2017/gw-feedback/internal/migrations"
	"github.com/sbilibin2017/gw-feedback/internal/passwords"
	"github.com/sbilibin2017/gw-feedback/internal/repositories"
	"github.com/sbilibin2017/gw-feedback/internal/router"
	"github.com/sbilibin2017/gw-feedback/internal/services"
	"github.com/sbilibin2017/gw-feedback/internal/session"
	"github.com/sbilibin2017/gw-feedback/internal/views"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

var errNoSessionSecret = errors.New("SESSION_SECRET_KEY is not set")

// config holds everything read from the environment.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisHost         string
	redisPort         int
	redisDB           int
	redisPassword     string
	redisPoolSize     int
	redisMinIdleConns int

	kafkaBrokers []string
	kafkaTopic   string

	sessionSecret    string
	sessionExpSecond int
	cookieSecure     bool

	bcryptCost         int
	loginRatePerMinute int
	loginRateBurst     int
}

// @title gw-feedback API
// @version 1.0.0
// @description Session-authenticated service for user accounts and their feedback notes
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// application, database, Redis, Kafka, session and login settings.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var err error
	atoi := func(key, defaultValue string) int {
		if err != nil {
			return 0
		}
		var n int
		if n, err = strconv.Atoi(getEnv(key, defaultValue)); err != nil {
			err = fmt.Errorf("%s: %w", key, err)
		}
		return n
	}

	cfg := &config{
		// Application config
		appHost:  getEnv("APP_HOST", "localhost"),
		appPort:  getEnv("APP_PORT", "8080"),
		logLevel: getEnv("APP_LOG_LEVEL", "info"),

		// PostgreSQL config
		pgHost:         getEnv("POSTGRES_HOST", "localhost"),
		pgPort:         atoi("POSTGRES_PORT", "5432"),
		pgUser:         getEnv("POSTGRES_USER", "user"),
		pgPassword:     getEnv("POSTGRES_PASSWORD", "password"),
		pgDB:           getEnv("POSTGRES_DB", "database"),
		pgMaxOpenConns: atoi("POSTGRES_MAX_OPEN_CONNS", "16"),
		pgMaxIdleConns: atoi("POSTGRES_MAX_IDLE_CONNS", "8"),

		// Redis config
		redisHost:         getEnv("REDIS_HOST", "localhost"),
		redisPort:         atoi("REDIS_PORT", "6379"),
		redisDB:           atoi("REDIS_DB", "0"),
		redisPassword:     getEnv("REDIS_PASSWORD", ""),
		redisPoolSize:     atoi("REDIS_POOL_SIZE", "10"),
		redisMinIdleConns: atoi("REDIS_MIN_IDLE_CONNS", "2"),

		// Kafka config
		kafkaTopic: getEnv("KAFKA_TOPIC", "feedback-events"),

		// Session config
		sessionSecret:    getEnv("SESSION_SECRET_KEY", ""),
		sessionExpSecond: atoi("SESSION_EXP_SECOND", "86400"),

		// Login config
		bcryptCost:         atoi("BCRYPT_COST", "10"),
		loginRatePerMinute: atoi("LOGIN_RATE_PER_MINUTE", "10"),
		loginRateBurst:     atoi("LOGIN_RATE_BURST", "5"),
	}
	if err != nil {
		return nil, err
	}

	for _, broker := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.kafkaBrokers = append(cfg.kafkaBrokers, broker)
		}
	}

	if cfg.cookieSecure, err = strconv.ParseBool(getEnv("SESSION_COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("SESSION_COOKIE_SECURE: %w", err)
	}

	if cfg.sessionSecret == "" {
		return nil, errNoSessionSecret
	}

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.pgHost, "port", cfg.pgPort, "db", cfg.pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgres connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)

	if err := migrations.Up(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
		Password:     cfg.redisPassword,
		DB:           cfg.redisDB,
		PoolSize:     cfg.redisPoolSize,
		MinIdleConns: cfg.redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka is optional
	var kafkaWriter services.KafkaWriter
	if len(cfg.kafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.kafkaBrokers...),
			Topic:                  cfg.kafkaTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		defer w.Close()
		kafkaWriter = services.NewDeferredWriter(w, middlewares.AfterCommit)
		logger.Log.Infow("Kafka publishing enabled", "brokers", cfg.kafkaBrokers, "topic", cfg.kafkaTopic)
	}

	// Initialize sessions
	sessions := session.New(
		session.WithSecretKey(cfg.sessionSecret),
		session.WithExpiration(time.Duration(cfg.sessionExpSecond)*time.Second),
		session.WithSecureCookie(cfg.cookieSecure),
		session.WithRevoker(repositories.NewSessionRevocationRepository(rdb)),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db, middlewares.GetTxFromContext)
	userWriteRepo := repositories.NewUserWriteRepository(db, middlewares.GetTxFromContext)
	feedbackReadRepo := repositories.NewFeedbackReadRepository(db, middlewares.GetTxFromContext)
	feedbackWriteRepo := repositories.NewFeedbackWriteRepository(db, middlewares.GetTxFromContext)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, passwords.New(cfg.bcryptCost), kafkaWriter)
	accountService := services.NewAccountService(userReadRepo, userWriteRepo, feedbackReadRepo, feedbackWriteRepo, kafkaWriter)
	feedbackService := services.NewFeedbackService(feedbackReadRepo, feedbackWriteRepo, kafkaWriter)

	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	// Setup router
	handler := router.New(router.Deps{
		Log:          logger.Log,
		Renderer:     renderer,
		Sessions:     sessions,
		Auth:         authService,
		Accounts:     accountService,
		Feedback:     feedbackService,
		DB:           db,
		Pinger:       db,
		LoginLimiter: middlewares.NewRateLimiter(cfg.loginRatePerMinute, cfg.loginRateBurst),
		SwaggerURL:   fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
