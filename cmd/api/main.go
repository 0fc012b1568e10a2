package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/expoflow-platform/logistics-service/internal/application"
	"github.com/expoflow-platform/logistics-service/internal/config"
	"github.com/expoflow-platform/logistics-service/internal/domain"
	mongoRepo "github.com/expoflow-platform/logistics-service/internal/infrastructure/mongodb"
	"github.com/expoflow-platform/logistics-service/internal/infrastructure/routing"
	"github.com/expoflow-platform/logistics-service/internal/infrastructure/staffing"
	"github.com/expoflow-platform/logistics-service/internal/workflows"
	"github.com/expoflow-platform/logistics-service/pkg/errors"
	"github.com/expoflow-platform/logistics-service/pkg/kafka"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
	"github.com/expoflow-platform/logistics-service/pkg/metrics"
	"github.com/expoflow-platform/logistics-service/pkg/middleware"
	"github.com/expoflow-platform/logistics-service/pkg/mongodb"
)

const serviceName = "logistics-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting logistics-service API")

	cfg := loadConfig()
	ctx := context.Background()

	tariffs, err := config.LoadTariffs(cfg.TariffsPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load tariffs")
		os.Exit(1)
	}
	logger.Info("Tariffs loaded", "path", cfg.TariffsPath, "currency", tariffs.Currency)

	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", cfg.Kafka.Brokers)

	// Repositories
	projectRepo := mongoRepo.NewProjectRepository(mongoClient.Database())
	artworkRepo := mongoRepo.NewArtworkRepository(mongoClient.Database())
	flowRepo := mongoRepo.NewFlowRepository(mongoClient.Database())
	quoteRepo := mongoRepo.NewQuoteLineRepository(mongoClient.Database())
	constraintsRepo := mongoRepo.NewConstraintsRepository(mongoClient.Database())

	// Engines
	geo := domain.NewGeoResolver(tariffs.Organizer.CountryCode)
	packing := domain.NewPackingEngine(tariffs.Packing)
	costing := domain.NewCostCalculator(tariffs.Costing, tariffs.Currency)
	transport := domain.NewTransportCalculator(tariffs.Transport, tariffs.Handling)
	ruleEngine := domain.NewRuleEngine(tariffs.Rules, tariffs.Currency)

	// External collaborators
	routeResolver := routing.NewClient(routing.DefaultConfig(cfg.RoutingURL), m, logger)
	staffingPlanner := staffing.NewClient(staffing.DefaultConfig(cfg.StaffingURL), m, logger)

	generator := application.NewFlowGenerator(geo, packing, costing, transport,
		routeResolver, staffingPlanner, tariffs, logger)

	planningService := application.NewPlanningService(projectRepo, artworkRepo,
		flowRepo, quoteRepo, generator, packing, costing, producer, m, logger)

	constraintsValidator, err := application.NewConstraintsValidator()
	if err != nil {
		logger.WithError(err).Error("Failed to compile constraints schema")
		os.Exit(1)
	}
	constraintService := application.NewConstraintService(constraintsRepo, projectRepo,
		artworkRepo, flowRepo, quoteRepo, ruleEngine, constraintsValidator, producer, m, logger)

	// Optional Temporal client for asynchronous generation runs
	var temporal temporalclient.Client
	if cfg.TemporalHostPort != "" {
		temporal, err = temporalclient.Dial(temporalclient.Options{
			HostPort:  cfg.TemporalHostPort,
			Namespace: cfg.TemporalNamespace,
		})
		if err != nil {
			logger.WithError(err).Warn("Temporal unavailable, generation runs synchronously")
			temporal = nil
		} else {
			defer temporal.Close()
			logger.Info("Temporal client initialized", "hostPort", cfg.TemporalHostPort)
		}
	}

	registerValidations()

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	api := router.Group("/api/v1")
	{
		api.POST("/projects", createProjectHandler(planningService, logger))
		api.GET("/projects/:projectId", getProjectHandler(planningService, logger))
		api.POST("/projects/:projectId/artworks", importArtworksHandler(planningService, logger))
		api.GET("/projects/:projectId/artworks", listArtworksHandler(planningService, logger))
		api.PUT("/artworks/:artworkId", updateArtworkHandler(planningService, logger))
		api.POST("/projects/:projectId/flows/generate", generateFlowsHandler(planningService, temporal, cfg.TemporalTaskQueue, logger))
		api.GET("/projects/:projectId/flows", listFlowsHandler(planningService, logger))
		api.GET("/projects/:projectId/quote-lines", listQuoteLinesHandler(planningService, logger))
		api.POST("/projects/:projectId/constraints", saveConstraintsHandler(constraintService, logger))
		api.GET("/projects/:projectId/constraints", getConstraintsHandler(constraintService, logger))
		api.POST("/projects/:projectId/constraints/apply", applyConstraintsHandler(constraintService, logger))
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr        string
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
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		TariffsPath:       getEnv("TARIFFS_PATH", ""),
		RoutingURL:        getEnv("ROUTING_SERVICE_URL", "http://localhost:8091"),
		StaffingURL:       getEnv("STAFFING_SERVICE_URL", "http://localhost:8092"),
		TemporalHostPort:  getEnv("TEMPORAL_HOSTPORT", ""),
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

// registerValidations adds the domain enum validations to gin's binding
// validator
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("typology", func(fl validator.FieldLevel) bool {
		return domain.ValidTypology(domain.Typology(fl.Field().String()))
	})
}

// HTTP Handlers

func createProjectHandler(service *application.PlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CreateProjectCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		project, err := service.CreateProject(c.Request.Context(), cmd)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

func getProjectHandler(service *application.PlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.GetProjectQuery{ProjectID: c.Param("projectId")}
		project, err := service.GetProject(c.Request.Context(), query)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func importArtworksHandler(service *application.PlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Artworks []application.ArtworkInput `json:"artworks" binding:"required,min=1,dive"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		cmd := application.ImportArtworksCommand{
			ProjectID: c.Param("projectId"),
			Artworks:  req.Artworks,
		}

		artworks, err := service.ImportArtworks(c.Request.Context(), cmd)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"artworks": artworks, "count": len(artworks)})
	}
}

func listArtworksHandler(service *application.PlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		artworks, err := service.ListArtworks(c.Request.Context(), c.Param("projectId"))
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"artworks": artworks, "count": len(artworks)})
	}
}

func updateArtworkHandler(service *application.PlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.UpdateArtworkCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}
		cmd.ArtworkID = c.Param("artworkId")

		artwork, err := service.UpdateArtwork(c.Request.Context(), cmd)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, artwork)
	}
}

func generateFlowsHandler(service *application.PlanningService, temporal temporalclient.Client, taskQueue string, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)
		projectID := c.Param("projectId")

		// With a Temporal client the run executes asynchronously on the
		// worker; without one it runs inline.
		if temporal != nil {
			opts := temporalclient.StartWorkflowOptions{
				ID:        "flow-generation-" + projectID + "-" + uuid.New().String()[:8],
				TaskQueue: taskQueue,
			}
			run, err := temporal.ExecuteWorkflow(c.Request.Context(), opts,
				workflows.FlowGenerationWorkflowName,
				workflows.FlowGenerationInput{ProjectID: projectID})
			if err != nil {
				respond(responder, err)
				return
			}
			c.JSON(http.StatusAccepted, gin.H{
				"workflowId": run.GetID(),
				"runId":      run.GetRunID(),
			})
			return
		}

		result, err := service.GenerateFlows(c.Request.Context(), application.GenerateFlowsCommand{ProjectID: projectID})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func listFlowsHandler(service *application.PlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		flows, err := service.ListFlows(c.Request.Context(), c.Param("projectId"))
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"flows": flows, "count": len(flows)})
	}
}

func listQuoteLinesHandler(service *application.PlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		lines, err := service.ListQuoteLines(c.Request.Context(), c.Param("projectId"))
		if err != nil {
			respond(responder, err)
			return
		}

		total := 0.0
		for _, l := range lines {
			total += l.TotalPrice
		}
		c.JSON(http.StatusOK, gin.H{"quoteLines": lines, "count": len(lines), "total": total})
	}
}

func saveConstraintsHandler(service *application.ConstraintService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		raw, err := c.GetRawData()
		if err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		cmd := application.SaveConstraintsCommand{
			ProjectID: c.Param("projectId"),
			Matrix:    raw,
		}
		if err := service.SaveConstraints(c.Request.Context(), cmd); err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"projectId": cmd.ProjectID, "status": "saved"})
	}
}

func getConstraintsHandler(service *application.ConstraintService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		matrix, err := service.GetConstraints(c.Request.Context(), c.Param("projectId"))
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, matrix)
	}
}

func applyConstraintsHandler(service *application.ConstraintService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.ApplyConstraintsCommand{ProjectID: c.Param("projectId")}
		result, err := service.ApplyConstraints(c.Request.Context(), cmd)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func respond(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}
