package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/expoflow-platform/logistics-service/internal/activities"
)

// FlowGenerationWorkflowName is the registered workflow type name
const FlowGenerationWorkflowName = "FlowGenerationWorkflow"

// FlowGenerationInput represents the input for the flow generation workflow
type FlowGenerationInput struct {
	ProjectID string `json:"projectId"`
}

// FlowGenerationResult represents the result of the flow generation workflow
type FlowGenerationResult struct {
	ProjectID      string   `json:"projectId"`
	FlowCount      int      `json:"flowCount"`
	QuoteLineCount int      `json:"quoteLineCount"`
	FailedFlows    []string `json:"failedFlows,omitempty"`
	Success        bool     `json:"success"`
}

// FlowGenerationWorkflow orchestrates one generation run for a project:
// plan the flow segments, enrich each segment independently, publish the
// completion event. A segment whose enrichment keeps failing is escalated
// to an agent; its siblings keep their computed data.
func FlowGenerationWorkflow(ctx workflow.Context, input FlowGenerationInput) (*FlowGenerationResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting flow generation workflow", "projectId", input.ProjectID)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	result := &FlowGenerationResult{ProjectID: input.ProjectID}

	var plan activities.PlanResult
	if err := workflow.ExecuteActivity(ctx, "PlanProjectFlows", input.ProjectID).Get(ctx, &plan); err != nil {
		logger.Error("Flow planning failed", "projectId", input.ProjectID, "error", err)
		return result, err
	}

	result.FlowCount = len(plan.Flows)
	result.QuoteLineCount = plan.PackingLines

	for _, ref := range plan.Flows {
		var lineCount int
		err := workflow.ExecuteActivity(ctx, "EnrichProjectFlow", activities.EnrichFlowInput{
			ProjectID: input.ProjectID,
			FlowID:    ref.FlowID,
		}).Get(ctx, &lineCount)
		if err != nil {
			logger.Warn("Flow enrichment failed, escalating",
				"flowId", ref.FlowID, "key", ref.Key, "error", err)
			result.FailedFlows = append(result.FailedFlows, ref.FlowID)

			if escErr := workflow.ExecuteActivity(ctx, "EscalateFlow", ref.FlowID).Get(ctx, nil); escErr != nil {
				logger.Warn("Flow escalation failed", "flowId", ref.FlowID, "error", escErr)
			}
			continue
		}
		result.QuoteLineCount += lineCount
	}

	if err := workflow.ExecuteActivity(ctx, "PublishFlowsGenerated", activities.PublishInput{
		ProjectID:      input.ProjectID,
		FlowCount:      result.FlowCount,
		QuoteLineCount: result.QuoteLineCount,
		ArtworkCount:   plan.ArtworkCount,
	}).Get(ctx, nil); err != nil {
		logger.Warn("Generation event publication failed", "projectId", input.ProjectID, "error", err)
	}

	result.Success = len(result.FailedFlows) == 0

	logger.Info("Flow generation workflow completed",
		"projectId", input.ProjectID,
		"flowCount", result.FlowCount,
		"quoteLineCount", result.QuoteLineCount,
		"failedFlows", len(result.FailedFlows),
		"success", result.Success,
	)
	return result, nil
}
