package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/expoflow-platform/logistics-service/internal/activities"
	"github.com/expoflow-platform/logistics-service/internal/application"
	"github.com/expoflow-platform/logistics-service/internal/config"
	"github.com/expoflow-platform/logistics-service/internal/domain"
	mongoRepo "github.com/expoflow-platform/logistics-service/internal/infrastructure/mongodb"
	"github.com/expoflow-platform/logistics-service/internal/infrastructure/routing"
	"github.com/expoflow-platform/logistics-service/internal/infrastructure/staffing"
	"github.com/expoflow-platform/logistics-service/internal/workflows"
	"github.com/expoflow-platform/logistics-service/pkg/kafka"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
	"github.com/expoflow-platform/logistics-service/pkg/metrics"
	"github.com/expoflow-platform/logistics-service/pkg/mongodb"
)

const serviceName = "logistics-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting logistics-service worker")

	cfg := loadConfig()
	ctx := context.Background()

	tariffs, err := config.LoadTariffs(cfg.TariffsPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load tariffs")
		os.Exit(1)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()

	projectRepo := mongoRepo.NewProjectRepository(mongoClient.Database())
	artworkRepo := mongoRepo.NewArtworkRepository(mongoClient.Database())
	flowRepo := mongoRepo.NewFlowRepository(mongoClient.Database())
	quoteRepo := mongoRepo.NewQuoteLineRepository(mongoClient.Database())

	geo := domain.NewGeoResolver(tariffs.Organizer.CountryCode)
	packing := domain.NewPackingEngine(tariffs.Packing)
	costing := domain.NewCostCalculator(tariffs.Costing, tariffs.Currency)
	transport := domain.NewTransportCalculator(tariffs.Transport, tariffs.Handling)

	routeResolver := routing.NewClient(routing.DefaultConfig(cfg.RoutingURL), m, logger)
	staffingPlanner := staffing.NewClient(staffing.DefaultConfig(cfg.StaffingURL), m, logger)

	generator := application.NewFlowGenerator(geo, packing, costing, transport,
		routeResolver, staffingPlanner, tariffs, logger)

	flowActivities := activities.NewFlowActivities(projectRepo, artworkRepo,
		flowRepo, quoteRepo, generator, packing, costing, tariffs, producer, m, logger)

	temporalClient, err := temporalclient.Dial(temporalclient.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
		Identity:  "logistics-worker",
	})
	if err != nil {
		logger.WithError(err).Error("Failed to create Temporal client")
		os.Exit(1)
	}
	defer temporalClient.Close()
	logger.Info("Connected to Temporal", "hostPort", cfg.TemporalHostPort)

	w := worker.New(temporalClient, cfg.TemporalTaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: 10,
	})

	w.RegisterWorkflowWithOptions(workflows.FlowGenerationWorkflow, workflow.RegisterOptions{
		Name: workflows.FlowGenerationWorkflowName,
	})
	w.RegisterActivity(flowActivities)
	logger.Info("Registered workflow and activities", "workflow", workflows.FlowGenerationWorkflowName)

	go func() {
		if err := w.Run(nil); err != nil {
			logger.Error("Worker failed", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("Worker started", "taskQueue", cfg.TemporalTaskQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down worker...")

	w.Stop()
	logger.Info("Worker stopped")
}

// Config holds worker configuration
type Config struct {
	TariffsPath       string
	RoutingURL        string
	StaffingURL       string
	TemporalHostPort  string
	TemporalNamespace string
	TemporalTaskQueue string
	MongoDB           *mongodb.Config
	Kafka             *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		TariffsPath:       getEnv("TARIFFS_PATH", ""),
		RoutingURL:        getEnv("ROUTING_SERVICE_URL", "http://localhost:8091"),
		StaffingURL:       getEnv("STAFFING_SERVICE_URL", "http://localhost:8092"),
		TemporalHostPort:  getEnv("TEMPORAL_HOSTPORT", "localhost:7233"),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue: getEnv("TEMPORAL_TASK_QUEUE", "logistics-flow-generation"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "logistics"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
