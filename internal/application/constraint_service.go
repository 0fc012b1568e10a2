package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/expoflow-platform/logistics-service/internal/domain"
	apperrors "github.com/expoflow-platform/logistics-service/pkg/errors"
	"github.com/expoflow-platform/logistics-service/pkg/kafka"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
	"github.com/expoflow-platform/logistics-service/pkg/metrics"
)

// ConstraintService stores constraints matrices and runs the rule engine,
// applying the produced actions to the project's persisted state
type ConstraintService struct {
	constraints domain.ConstraintsRepository
	projects    domain.ProjectRepository
	artworks    domain.ArtworkRepository
	flows       domain.FlowRepository
	quotes      domain.QuoteLineRepository
	engine      *domain.RuleEngine
	validator   *ConstraintsValidator
	producer    *kafka.Producer
	metrics     *metrics.Metrics
	logger      *logging.Logger
}

// NewConstraintService creates a new ConstraintService
func NewConstraintService(
	constraints domain.ConstraintsRepository,
	projects domain.ProjectRepository,
	artworks domain.ArtworkRepository,
	flows domain.FlowRepository,
	quotes domain.QuoteLineRepository,
	engine *domain.RuleEngine,
	validator *ConstraintsValidator,
	producer *kafka.Producer,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ConstraintService {
	return &ConstraintService{
		constraints: constraints,
		projects:    projects,
		artworks:    artworks,
		flows:       flows,
		quotes:      quotes,
		engine:      engine,
		validator:   validator,
		producer:    producer,
		metrics:     m,
		logger:      logger.WithComponent("constraint_service"),
	}
}

// SaveConstraints validates and stores the constraints matrix for a project
func (s *ConstraintService) SaveConstraints(ctx context.Context, cmd SaveConstraintsCommand) error {
	project, err := s.projects.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return apperrors.ErrNotFoundWithID("project", cmd.ProjectID)
	}

	if err := s.validator.Validate(cmd.Matrix); err != nil {
		return apperrors.ErrValidation(err.Error())
	}

	var input ConstraintsInput
	if err := json.Unmarshal(cmd.Matrix, &input); err != nil {
		return apperrors.ErrValidation(fmt.Sprintf("failed to decode constraints matrix: %v", err))
	}

	if err := s.constraints.Save(ctx, input.ToMatrix(cmd.ProjectID)); err != nil {
		s.logger.WithError(err).Error("Failed to save constraints", "projectId", cmd.ProjectID)
		return fmt.Errorf("failed to save constraints: %w", err)
	}

	s.logger.Event(ctx, "planning.constraints_saved", map[string]any{
		"projectId": cmd.ProjectID,
	})
	return nil
}

// GetConstraints retrieves the constraints matrix of a project
func (s *ConstraintService) GetConstraints(ctx context.Context, projectID string) (*domain.ConstraintsMatrix, error) {
	matrix, err := s.constraints.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get constraints: %w", err)
	}
	if matrix == nil {
		return nil, apperrors.ErrNotFoundWithID("constraints matrix", projectID)
	}
	return matrix, nil
}

// ApplyConstraints runs the rule engine over the project's current state and
// applies the produced actions. Returns every action, with alerts split out
// for direct display.
func (s *ConstraintService) ApplyConstraints(ctx context.Context, cmd ApplyConstraintsCommand) (*ApplyConstraintsResultDTO, error) {
	start := time.Now()

	project, err := s.projects.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, apperrors.ErrNotFoundWithID("project", cmd.ProjectID)
	}

	matrix, err := s.constraints.FindByProjectID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get constraints: %w", err)
	}
	if matrix == nil {
		return nil, apperrors.ErrNotFoundWithID("constraints matrix", cmd.ProjectID)
	}

	artworks, err := s.artworks.FindByProjectID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artworks: %w", err)
	}
	flows, err := s.flows.FindByProjectID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flows: %w", err)
	}
	lines, err := s.quotes.FindByProjectID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote lines: %w", err)
	}

	actions := s.engine.Evaluate(domain.RuleInput{
		Matrix:     matrix,
		Project:    project,
		Artworks:   artworks,
		Flows:      flows,
		QuoteLines: lines,
	})

	if err := s.applyActions(ctx, project, flows, lines, actions); err != nil {
		return nil, err
	}

	s.metrics.ObserveEngineRun("rule_engine", time.Since(start))
	for _, a := range actions {
		s.metrics.RuleActionsProduced.WithLabelValues("logistics-service", string(a.Type)).Inc()
	}

	s.publishAlerts(ctx, cmd.ProjectID, actions)

	result := &ApplyConstraintsResultDTO{
		Actions: make([]RuleActionDTO, 0, len(actions)),
	}
	for _, a := range actions {
		dto := ToRuleActionDTO(a)
		result.Actions = append(result.Actions, dto)
		if a.Type == domain.ActionAlert {
			result.Alerts = append(result.Alerts, dto)
		}
	}
	return result, nil
}

// applyActions mutates the persisted state according to the action list. The
// engine itself never mutates; this is the single place actions take effect.
func (s *ConstraintService) applyActions(
	ctx context.Context,
	project *domain.Project,
	flows []*domain.LogisticsFlow,
	lines []*domain.QuoteLine,
	actions []domain.RuleAction,
) error {
	flowsByID := make(map[string]*domain.LogisticsFlow, len(flows))
	for _, f := range flows {
		flowsByID[f.FlowID] = f
	}
	linesByID := make(map[string]*domain.QuoteLine, len(lines))
	for _, l := range lines {
		linesByID[l.LineID] = l
	}

	projectDirty := false

	for _, action := range actions {
		switch action.Type {
		case domain.ActionAddQuoteLine:
			if err := s.quotes.Save(ctx, action.QuoteLine); err != nil {
				return fmt.Errorf("failed to add quote line: %w", err)
			}

		case domain.ActionUpdateQuoteLine:
			line, ok := linesByID[action.QuoteLineUpdate.LineID]
			if !ok {
				continue
			}
			factor := 1.0
			if line.UnitPrice != 0 {
				factor = action.QuoteLineUpdate.UnitPrice / line.UnitPrice
			}
			line.ApplyMultiplier(factor, action.Constraint)
			if err := s.quotes.Save(ctx, line); err != nil {
				return fmt.Errorf("failed to update quote line: %w", err)
			}

		case domain.ActionUpdateFlow:
			flow, ok := flowsByID[action.FlowUpdate.FlowID]
			if !ok {
				continue
			}
			flow.ConvertType(action.FlowUpdate.NewType)
			if err := s.flows.Save(ctx, flow); err != nil {
				return fmt.Errorf("failed to update flow: %w", err)
			}

		case domain.ActionUpdateProject:
			if action.ProjectUpdate.EndDate != nil && project.TightenEndDate(*action.ProjectUpdate.EndDate) {
				projectDirty = true
			}
		}
	}

	if projectDirty {
		if err := s.projects.Save(ctx, project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
	}
	return nil
}

// publishAlerts emits one event per alert for downstream notification
func (s *ConstraintService) publishAlerts(ctx context.Context, projectID string, actions []domain.RuleAction) {
	if s.producer == nil {
		return
	}

	events := make([]*kafka.Event, 0)
	for _, a := range actions {
		if a.Type != domain.ActionAlert {
			continue
		}
		event, err := kafka.NewEvent(
			"logistics.alerts.constraint-alert", "logistics-service", a.Constraint, projectID,
			&domain.ConstraintAlertEvent{
				ProjectID:   projectID,
				Constraint:  a.Constraint,
				Severity:    a.Severity,
				Description: a.Description,
				RaisedAt:    time.Now().UTC(),
			})
		if err != nil {
			s.logger.WithError(err).Warn("Failed to build alert event", "constraint", a.Constraint)
			continue
		}
		events = append(events, event)
	}
	if len(events) == 0 {
		return
	}

	pubErr := s.producer.PublishBatch(ctx, kafka.Topics.AlertEvents, events)
	if pubErr != nil {
		s.logger.WithError(pubErr).Warn("Failed to publish alert events", "projectId", projectID)
	}
	s.metrics.ObserveKafkaPublish(kafka.Topics.AlertEvents, "logistics.alerts.constraint-alert", pubErr)
}
