package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bbq-storefront/checkout"
	"bbq-storefront/config"
	"bbq-storefront/database"
	"bbq-storefront/kitchen"
	"bbq-storefront/metrics"
	"bbq-storefront/middleware"
	"bbq-storefront/routes"
	"bbq-storefront/upsell"
	"bbq-storefront/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

type ticketPublisher interface {
	kitchen.Publisher
	Close() error
}

type nopCloser struct{ kitchen.Publisher }

func (nopCloser) Close() error { return nil }

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Validate critical environment variables
	if err := config.ValidateEnv(cfg, log); err != nil {
		log.Fatal("environment validation failed", zap.Error(err))
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	if n, err := database.SeedMenu(db); err != nil {
		log.Warn("could not seed menu", zap.Error(err))
	} else if n > 0 {
		log.Info("seeded default menu", zap.Int("items", n))
	}

	var publisher ticketPublisher = nopCloser{kitchen.LogPublisher{Log: log}}
	if cfg.KafkaBrokers != "" {
		publisher = kitchen.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTicketTopic)
		log.Info("sending kitchen tickets to kafka",
			zap.String("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTicketTopic))
	}

	sessions := utils.NewSessionStore()
	reg := metrics.NewRegistry()
	mailer := utils.NewMailer(utils.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, log)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	origins := []string{cfg.FrontendURL}
	if cfg.FrontendURL == "" {
		origins = []string{"http://localhost:3000"}
		log.Warn("no CORS origin configured, defaulting to http://localhost:3000")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	limiter := routes.SetupRoutes(r, routes.Dependencies{
		DB:        db,
		Config:    cfg,
		Log:       log,
		Sessions:  sessions,
		Metrics:   reg,
		Publisher: publisher,
		Mailer:    mailer,
		Processor: checkout.SimulatedProcessor{},
		Engine:    upsell.DefaultEngine(),
	})

	// Expire idle sessions in the background
	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stopCleanup:
				return
			case <-ticker.C:
				if n := sessions.CleanupIdle(cfg.SessionIdleTTL); n > 0 {
					log.Info("expired idle sessions", zap.Int("count", n))
				}
				reg.ActiveSessions.Set(float64(sessions.Len()))
			}
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	close(stopCleanup)
	limiter.Stop()

	if err := publisher.Close(); err != nil {
		log.Warn("error closing ticket publisher", zap.Error(err))
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn("error closing database connection", zap.Error(err))
		} else {
			log.Info("database connection closed")
		}
	}

	log.Info("server exited gracefully")
}
