package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/expoflow-platform/logistics-service/internal/domain"
	apperrors "github.com/expoflow-platform/logistics-service/pkg/errors"
	"github.com/expoflow-platform/logistics-service/pkg/kafka"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
	"github.com/expoflow-platform/logistics-service/pkg/metrics"
)

// PlanningService handles project, artwork and flow-generation use cases
type PlanningService struct {
	projects  domain.ProjectRepository
	artworks  domain.ArtworkRepository
	flows     domain.FlowRepository
	quotes    domain.QuoteLineRepository
	generator *FlowGenerator
	packing   *domain.PackingEngine
	costing   *domain.CostCalculator
	producer  *kafka.Producer
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewPlanningService creates a new PlanningService
func NewPlanningService(
	projects domain.ProjectRepository,
	artworks domain.ArtworkRepository,
	flows domain.FlowRepository,
	quotes domain.QuoteLineRepository,
	generator *FlowGenerator,
	packing *domain.PackingEngine,
	costing *domain.CostCalculator,
	producer *kafka.Producer,
	m *metrics.Metrics,
	logger *logging.Logger,
) *PlanningService {
	return &PlanningService{
		projects:  projects,
		artworks:  artworks,
		flows:     flows,
		quotes:    quotes,
		generator: generator,
		packing:   packing,
		costing:   costing,
		producer:  producer,
		metrics:   m,
		logger:    logger.WithComponent("planning_service"),
	}
}

// CreateProject creates a new exhibition project
func (s *PlanningService) CreateProject(ctx context.Context, cmd CreateProjectCommand) (*ProjectDTO, error) {
	projectID := cmd.ProjectID
	if projectID == "" {
		projectID = uuid.New().String()
	}

	project := domain.NewProject(projectID, cmd.Name, cmd.OrganizerCity, cmd.OrganizerCountry)

	if err := s.projects.Save(ctx, project); err != nil {
		s.logger.WithError(err).Error("Failed to create project", "projectId", projectID)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Event(ctx, "planning.project_created", map[string]any{
		"projectId": projectID,
		"name":      cmd.Name,
	})

	return ToProjectDTO(project), nil
}

// GetProject retrieves one project
func (s *PlanningService) GetProject(ctx context.Context, query GetProjectQuery) (*ProjectDTO, error) {
	project, err := s.projects.FindByID(ctx, query.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, apperrors.ErrNotFoundWithID("project", query.ProjectID)
	}
	return ToProjectDTO(project), nil
}

// ImportArtworks bulk-imports artworks, computing the crate specification
// and cost for each at ingest
func (s *PlanningService) ImportArtworks(ctx context.Context, cmd ImportArtworksCommand) ([]*ArtworkDTO, error) {
	project, err := s.projects.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, apperrors.ErrNotFoundWithID("project", cmd.ProjectID)
	}

	imported := make([]*domain.Artwork, 0, len(cmd.Artworks))
	for _, input := range cmd.Artworks {
		artworkID := input.ArtworkID
		if artworkID == "" {
			artworkID = uuid.New().String()
		}

		artwork, err := domain.NewArtwork(artworkID, cmd.ProjectID, input.Title,
			input.HeightCm, input.WidthCm, input.DepthCm, input.WeightKg, input.Typology, input.Fragility)
		if err != nil {
			return nil, apperrors.ErrValidation(err.Error()).WithDetail("title", input.Title)
		}

		artwork.Artist = input.Artist
		artwork.FragileFrame = input.FragileFrame
		artwork.InsuranceValue = input.InsuranceValue
		artwork.LenderCity = input.LenderCity
		artwork.LenderCountry = input.LenderCountry
		artwork.DestinationCity = input.DestinationCity
		artwork.SecondDestination = input.SecondDestination
		artwork.ImposedCarrier = input.ImposedCarrier
		artwork.RequiresCustoms = input.RequiresCustoms
		artwork.RequiresCourier = input.RequiresCourier

		s.computeCrate(ctx, artwork)
		imported = append(imported, artwork)
	}

	if err := s.artworks.SaveAll(ctx, imported); err != nil {
		s.logger.WithError(err).Error("Failed to import artworks", "projectId", cmd.ProjectID)
		return nil, fmt.Errorf("failed to import artworks: %w", err)
	}

	s.logger.Event(ctx, "planning.artworks_imported", map[string]any{
		"projectId": cmd.ProjectID,
		"count":     len(imported),
	})

	dtos := make([]*ArtworkDTO, 0, len(imported))
	for _, a := range imported {
		dtos = append(dtos, ToArtworkDTO(a))
	}
	return dtos, nil
}

// UpdateArtwork replaces an artwork's physical attributes and recomputes its
// crate specification and cost atomically
func (s *PlanningService) UpdateArtwork(ctx context.Context, cmd UpdateArtworkCommand) (*ArtworkDTO, error) {
	artwork, err := s.artworks.FindByID(ctx, cmd.ArtworkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}
	if artwork == nil {
		return nil, apperrors.ErrNotFoundWithID("artwork", cmd.ArtworkID)
	}

	if err := artwork.UpdatePhysical(cmd.HeightCm, cmd.WidthCm, cmd.DepthCm,
		cmd.WeightKg, cmd.Typology, cmd.Fragility, cmd.FragileFrame); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	s.computeCrate(ctx, artwork)

	if err := s.artworks.Save(ctx, artwork); err != nil {
		s.logger.WithError(err).Error("Failed to save artwork", "artworkId", cmd.ArtworkID)
		return nil, fmt.Errorf("failed to save artwork: %w", err)
	}

	return ToArtworkDTO(artwork), nil
}

// ListArtworks returns the artworks of a project
func (s *PlanningService) ListArtworks(ctx context.Context, projectID string) ([]*ArtworkDTO, error) {
	artworks, err := s.artworks.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	dtos := make([]*ArtworkDTO, 0, len(artworks))
	for _, a := range artworks {
		dtos = append(dtos, ToArtworkDTO(a))
	}
	return dtos, nil
}

// GenerateFlows runs the generation pipeline for a project and persists the
// result, replacing any previous generation
func (s *PlanningService) GenerateFlows(ctx context.Context, cmd GenerateFlowsCommand) (*GenerationResultDTO, error) {
	start := time.Now()

	project, err := s.projects.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, apperrors.ErrNotFoundWithID("project", cmd.ProjectID)
	}

	artworks, err := s.artworks.FindByProjectID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artworks: %w", err)
	}
	if len(artworks) == 0 {
		return nil, apperrors.ErrValidation("project has no artworks to generate flows for")
	}

	result, err := s.generator.Generate(ctx, project, artworks)
	if err != nil {
		return nil, fmt.Errorf("flow generation failed: %w", err)
	}

	if err := s.PersistGeneration(ctx, cmd.ProjectID, result); err != nil {
		return nil, err
	}

	s.metrics.ObserveEngineRun("flow_generator", time.Since(start))
	for _, f := range result.Flows {
		s.metrics.FlowsGenerated.WithLabelValues("logistics-service", string(f.Type)).Inc()
	}
	for _, q := range result.QuoteLines {
		s.metrics.QuoteLinesEmitted.WithLabelValues("logistics-service", string(q.Category), string(q.Source)).Inc()
	}

	s.publishGenerated(ctx, cmd.ProjectID, result)

	return ToGenerationResultDTO(result), nil
}

// PersistGeneration replaces the project's flows and generated quote lines
// with a fresh generation result
func (s *PlanningService) PersistGeneration(ctx context.Context, projectID string, result *GenerationResult) error {
	if err := s.flows.DeleteByProjectID(ctx, projectID); err != nil {
		return fmt.Errorf("failed to clear previous flows: %w", err)
	}
	if err := s.quotes.DeleteByProjectID(ctx, projectID); err != nil {
		return fmt.Errorf("failed to clear previous quote lines: %w", err)
	}

	if err := s.flows.SaveAll(ctx, result.Flows); err != nil {
		return fmt.Errorf("failed to save flows: %w", err)
	}
	if err := s.quotes.SaveAll(ctx, result.QuoteLines); err != nil {
		return fmt.Errorf("failed to save quote lines: %w", err)
	}
	if err := s.artworks.SaveAll(ctx, result.Artworks); err != nil {
		return fmt.Errorf("failed to save artworks: %w", err)
	}
	return nil
}

// ListFlows returns the flows of a project
func (s *PlanningService) ListFlows(ctx context.Context, projectID string) ([]FlowDTO, error) {
	flows, err := s.flows.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	dtos := make([]FlowDTO, 0, len(flows))
	for _, f := range flows {
		dtos = append(dtos, ToFlowDTO(f))
	}
	return dtos, nil
}

// ListQuoteLines returns the quote lines of a project
func (s *PlanningService) ListQuoteLines(ctx context.Context, projectID string) ([]QuoteLineDTO, error) {
	lines, err := s.quotes.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote lines: %w", err)
	}
	dtos := make([]QuoteLineDTO, 0, len(lines))
	for _, l := range lines {
		dtos = append(dtos, ToQuoteLineDTO(l))
	}
	return dtos, nil
}

// computeCrate derives the crate specification and cost for an artwork and
// records the metric; emits a crate-computed event
func (s *PlanningService) computeCrate(ctx context.Context, artwork *domain.Artwork) {
	spec := s.packing.ComputeCrate(artwork)
	cost := s.costing.Compute(spec)
	artwork.AssignCrate(spec, cost)

	s.metrics.CrateSpecsComputed.WithLabelValues("logistics-service", string(spec.Type)).Inc()

	if s.producer == nil {
		return
	}
	event, err := kafka.NewEvent(
		"logistics.packing.crate-computed", "logistics-service", artwork.ArtworkID, artwork.ProjectID,
		&domain.CrateComputedEvent{
			ProjectID:    artwork.ProjectID,
			ArtworkID:    artwork.ArtworkID,
			CrateType:    spec.Type,
			VolumeM3:     spec.BillableVolumeM3,
			SellingPrice: cost.SellingPrice,
			ComputedAt:   spec.ComputedAt,
		})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to build crate event", "artworkId", artwork.ArtworkID)
		return
	}
	pubErr := s.producer.PublishEvent(ctx, kafka.Topics.PackingEvents, event)
	if pubErr != nil {
		s.logger.WithError(pubErr).Warn("Failed to publish crate event", "artworkId", artwork.ArtworkID)
	}
	s.metrics.ObserveKafkaPublish(kafka.Topics.PackingEvents, event.Type, pubErr)
}

// publishGenerated emits the flows-generated event; publication failures are
// logged, not surfaced, since the generation itself succeeded
func (s *PlanningService) publishGenerated(ctx context.Context, projectID string, result *GenerationResult) {
	if s.producer == nil {
		return
	}
	event, err := kafka.NewEvent(
		"logistics.planning.flows-generated", "logistics-service", projectID, projectID,
		&domain.FlowsGeneratedEvent{
			ProjectID:    projectID,
			FlowCount:    len(result.Flows),
			QuoteLines:   len(result.QuoteLines),
			ArtworkCount: len(result.Artworks),
			GeneratedAt:  time.Now().UTC(),
		})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to build generation event", "projectId", projectID)
		return
	}
	pubErr := s.producer.PublishEvent(ctx, kafka.Topics.PlanningEvents, event)
	if pubErr != nil {
		s.logger.WithError(pubErr).Warn("Failed to publish generation event", "projectId", projectID)
	}
	s.metrics.ObserveKafkaPublish(kafka.Topics.PlanningEvents, event.Type, pubErr)
}
