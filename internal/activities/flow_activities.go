package activities

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/expoflow-platform/logistics-service/internal/application"
	"github.com/expoflow-platform/logistics-service/internal/config"
	"github.com/expoflow-platform/logistics-service/internal/domain"
	"github.com/expoflow-platform/logistics-service/pkg/kafka"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
	"github.com/expoflow-platform/logistics-service/pkg/metrics"
)

const serviceName = "logistics-service"

// FlowRef identifies one planned flow for the enrichment fan-out
type FlowRef struct {
	FlowID   string `json:"flowId"`
	Key      string `json:"key"`
	IsReturn bool   `json:"isReturn"`
}

// PlanResult is the output of the planning activity
type PlanResult struct {
	Flows        []FlowRef `json:"flows"`
	ArtworkCount int       `json:"artworkCount"`
	PackingLines int       `json:"packingLines"`
}

// EnrichFlowInput is the input of the per-flow enrichment activity
type EnrichFlowInput struct {
	ProjectID string `json:"projectId"`
	FlowID    string `json:"flowId"`
}

// PublishInput is the input of the event publication activity
type PublishInput struct {
	ProjectID      string `json:"projectId"`
	FlowCount      int    `json:"flowCount"`
	QuoteLineCount int    `json:"quoteLineCount"`
	ArtworkCount   int    `json:"artworkCount"`
}

// FlowActivities contains the activities of the flow generation workflow
type FlowActivities struct {
	projects  domain.ProjectRepository
	artworks  domain.ArtworkRepository
	flows     domain.FlowRepository
	quotes    domain.QuoteLineRepository
	generator *application.FlowGenerator
	packing   *domain.PackingEngine
	costing   *domain.CostCalculator
	tariffs   *config.Tariffs
	producer  *kafka.Producer
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewFlowActivities creates a new FlowActivities instance
func NewFlowActivities(
	projects domain.ProjectRepository,
	artworks domain.ArtworkRepository,
	flows domain.FlowRepository,
	quotes domain.QuoteLineRepository,
	generator *application.FlowGenerator,
	packing *domain.PackingEngine,
	costing *domain.CostCalculator,
	tariffs *config.Tariffs,
	producer *kafka.Producer,
	m *metrics.Metrics,
	logger *logging.Logger,
) *FlowActivities {
	return &FlowActivities{
		projects:  projects,
		artworks:  artworks,
		flows:     flows,
		quotes:    quotes,
		generator: generator,
		packing:   packing,
		costing:   costing,
		tariffs:   tariffs,
		producer:  producer,
		metrics:   m,
		logger:    logger.WithComponent("flow_activities"),
	}
}

// PlanProjectFlows loads the project's artworks, ensures every artwork has a
// crate specification, plans the flow segments and persists the planned state.
// Any previous generation for the project is replaced.
func (a *FlowActivities) PlanProjectFlows(ctx context.Context, projectID string) (*PlanResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Planning project flows", "projectId", projectID)

	project, err := a.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("project not found: %s", projectID)
	}

	artworks, err := a.artworks.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artworks: %w", err)
	}
	if len(artworks) == 0 {
		return nil, fmt.Errorf("project %s has no artworks to generate flows for", projectID)
	}

	for _, artwork := range artworks {
		if artwork.CrateSpec == nil {
			spec := a.packing.ComputeCrate(artwork)
			artwork.AssignCrate(spec, a.costing.Compute(spec))
			if a.metrics != nil {
				a.metrics.CrateSpecsComputed.WithLabelValues(serviceName, string(spec.Type)).Inc()
			}
		}
	}

	flows := a.generator.PlanFlows(project, artworks)

	if err := a.flows.DeleteByProjectID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to clear previous flows: %w", err)
	}
	if err := a.quotes.DeleteByProjectID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to clear previous quote lines: %w", err)
	}
	if err := a.flows.SaveAll(ctx, flows); err != nil {
		return nil, fmt.Errorf("failed to save flows: %w", err)
	}
	if err := a.artworks.SaveAll(ctx, artworks); err != nil {
		return nil, fmt.Errorf("failed to save artworks: %w", err)
	}

	packingLines := make([]*domain.QuoteLine, 0, len(artworks))
	for _, artwork := range artworks {
		if artwork.CrateCost == nil {
			continue
		}
		line := domain.NewQuoteLine(uuid.New().String(), projectID, domain.CategoryPacking,
			fmt.Sprintf("Crate %s (%s)", artwork.Title, artwork.CrateSpec.Type),
			1, artwork.CrateCost.SellingPrice, a.tariffs.Currency, domain.SourceCalculation)
		line.ArtworkID = artwork.ArtworkID
		line.FlowID = artwork.FlowID
		packingLines = append(packingLines, line)
	}
	if err := a.quotes.SaveAll(ctx, packingLines); err != nil {
		return nil, fmt.Errorf("failed to save packing quote lines: %w", err)
	}

	result := &PlanResult{
		ArtworkCount: len(artworks),
		PackingLines: len(packingLines),
	}
	for _, flow := range flows {
		if a.metrics != nil {
			a.metrics.FlowsGenerated.WithLabelValues(serviceName, string(flow.Type)).Inc()
		}
		result.Flows = append(result.Flows, FlowRef{
			FlowID:   flow.FlowID,
			Key:      flow.Key(),
			IsReturn: flow.IsReturn,
		})
	}

	logger.Info("Project flows planned",
		"projectId", projectID,
		"flowCount", len(result.Flows),
		"artworkCount", result.ArtworkCount,
	)
	return result, nil
}

// EnrichProjectFlow prices one planned flow and persists the flow together
// with its quote lines. Returns the number of emitted lines.
func (a *FlowActivities) EnrichProjectFlow(ctx context.Context, input EnrichFlowInput) (int, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Enriching flow", "projectId", input.ProjectID, "flowId", input.FlowID)

	flow, err := a.flows.FindByID(ctx, input.FlowID)
	if err != nil {
		return 0, fmt.Errorf("failed to find flow: %w", err)
	}
	if flow == nil {
		return 0, fmt.Errorf("flow not found: %s", input.FlowID)
	}

	artworks, err := a.artworks.FindByProjectID(ctx, input.ProjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to load artworks: %w", err)
	}

	byID := make(map[string]*domain.Artwork, len(artworks))
	for _, artwork := range artworks {
		byID[artwork.ArtworkID] = artwork
	}
	flowArtworks := make([]*domain.Artwork, 0, len(flow.ArtworkIDs))
	for _, id := range flow.ArtworkIDs {
		if artwork, ok := byID[id]; ok {
			flowArtworks = append(flowArtworks, artwork)
		}
	}

	lines, err := a.generator.EnrichFlow(ctx, flow, flowArtworks)
	if err != nil {
		return 0, err
	}

	if err := a.flows.Save(ctx, flow); err != nil {
		return 0, fmt.Errorf("failed to save flow: %w", err)
	}
	if err := a.quotes.SaveAll(ctx, lines); err != nil {
		return 0, fmt.Errorf("failed to save quote lines: %w", err)
	}

	if a.metrics != nil {
		for _, line := range lines {
			a.metrics.QuoteLinesEmitted.WithLabelValues(serviceName, string(line.Category), string(line.Source)).Inc()
		}
	}

	logger.Info("Flow enriched", "flowId", flow.FlowID, "lineCount", len(lines))
	return len(lines), nil
}

// EscalateFlow hands a flow over to an agent after enrichment gave up
func (a *FlowActivities) EscalateFlow(ctx context.Context, flowID string) error {
	flow, err := a.flows.FindByID(ctx, flowID)
	if err != nil {
		return fmt.Errorf("failed to find flow: %w", err)
	}
	if flow == nil {
		return fmt.Errorf("flow not found: %s", flowID)
	}

	flow.Escalate()
	if err := a.flows.Save(ctx, flow); err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}

	activity.GetLogger(ctx).Info("Flow escalated to agent", "flowId", flowID)
	return nil
}

// PublishFlowsGenerated emits the flows-generated event for downstream
// consumers
func (a *FlowActivities) PublishFlowsGenerated(ctx context.Context, input PublishInput) error {
	if a.producer == nil {
		return nil
	}

	event, err := kafka.NewEvent(
		"logistics.planning.flows-generated", serviceName, input.ProjectID, input.ProjectID,
		&domain.FlowsGeneratedEvent{
			ProjectID:    input.ProjectID,
			FlowCount:    input.FlowCount,
			QuoteLines:   input.QuoteLineCount,
			ArtworkCount: input.ArtworkCount,
			GeneratedAt:  time.Now().UTC(),
		})
	if err != nil {
		return fmt.Errorf("failed to build generation event: %w", err)
	}

	pubErr := a.producer.PublishEvent(ctx, kafka.Topics.PlanningEvents, event)
	if a.metrics != nil {
		a.metrics.ObserveKafkaPublish(kafka.Topics.PlanningEvents, event.Type, pubErr)
	}
	return pubErr
}
