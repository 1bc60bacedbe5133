package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pymenet/pymenet/internal/controller"
	"github.com/pymenet/pymenet/internal/db"
	"github.com/pymenet/pymenet/internal/events"
	"github.com/pymenet/pymenet/internal/handlers"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort      int      `yaml:"HTTP_PORT"`
	DBHost        string   `yaml:"DB_HOST"`
	DBPort        int      `yaml:"DB_PORT"`
	DBUser        string   `yaml:"DB_USER"`
	DBPassword    string   `yaml:"DB_PASSWORD"`
	DBName        string   `yaml:"DB_NAME"`
	DBSSLMode     string   `yaml:"DB_SSLMODE"`
	KafkaBrokers  []string `yaml:"KAFKA_BROKERS"`
	Topic         string   `yaml:"TOPIC"`
	ConsumerGroup string   `yaml:"CONSUMER_GROUP"`
	JWTSecret     string   `yaml:"JWT_SECRET"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(&db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startAuditConsumer(ctx, cfg, logger)

	accountSvc := controller.NewAccountService(repo, producer, logger)
	orgSvc := controller.NewOrganizationService(repo, producer, logger)
	messagingSvc := controller.NewMessagingService(repo, producer, logger)

	router := handlers.NewRouter(
		handlers.NewAccountHandler(accountSvc, cfg.JWTSecret, logger),
		handlers.NewOrganizationHandler(orgSvc, logger),
		handlers.NewMessagingHandler(messagingSvc, logger),
		cfg.JWTSecret,
		logger,
	)

	server := handlers.NewServer(cfg.HTTPPort, router, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration from CONFIG_PATH, defaulting to a
// config.yaml next to the binary.
func loadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// startAuditConsumer tails the event topic and logs every event. It is the
// audit trail for registrations, membership changes and chat activity; a
// missing consumer group disables it.
func startAuditConsumer(ctx context.Context, cfg *Config, logger *zap.Logger) {
	if cfg.ConsumerGroup == "" {
		return
	}
	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
	consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
		logger.Info("Audit event",
			zap.String("type", string(event.Type)),
			zap.String("key", event.Key),
			zap.Time("at", event.At),
		)
		return nil
	})
	consumer.Start(ctx)
	go func() {
		<-ctx.Done()
		consumer.Close()
	}()
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then
// shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
