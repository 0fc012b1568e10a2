package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/expoflow-platform/logistics-service/internal/activities"
)

func TestFlowGenerationWorkflow_Success(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&activities.FlowActivities{})

	plan := &activities.PlanResult{
		Flows: []activities.FlowRef{
			{FlowID: "flow-1", Key: "Lyon|Paris"},
			{FlowID: "flow-2", Key: "Berlin|Paris"},
			{FlowID: "flow-3", Key: "Paris|Lyon", IsReturn: true},
		},
		ArtworkCount: 3,
		PackingLines: 3,
	}
	env.OnActivity("PlanProjectFlows", mock.Anything, "proj-1").Return(plan, nil)
	env.OnActivity("EnrichProjectFlow", mock.Anything, mock.Anything).Return(2, nil)
	env.OnActivity("PublishFlowsGenerated", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(FlowGenerationWorkflow, FlowGenerationInput{ProjectID: "proj-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result FlowGenerationResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, "proj-1", result.ProjectID)
	require.Equal(t, 3, result.FlowCount)
	require.Equal(t, 9, result.QuoteLineCount) // 3 packing lines + 2 per flow
	require.Empty(t, result.FailedFlows)
	require.True(t, result.Success)
}

func TestFlowGenerationWorkflow_FailedEnrichmentEscalatesFlow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&activities.FlowActivities{})

	plan := &activities.PlanResult{
		Flows: []activities.FlowRef{
			{FlowID: "flow-1", Key: "Lyon|Paris"},
			{FlowID: "flow-2", Key: "New York|Paris"},
		},
		ArtworkCount: 2,
		PackingLines: 2,
	}
	env.OnActivity("PlanProjectFlows", mock.Anything, "proj-1").Return(plan, nil)
	env.OnActivity("EnrichProjectFlow", mock.Anything,
		activities.EnrichFlowInput{ProjectID: "proj-1", FlowID: "flow-1"}).Return(2, nil)
	env.OnActivity("EnrichProjectFlow", mock.Anything,
		activities.EnrichFlowInput{ProjectID: "proj-1", FlowID: "flow-2"}).
		Return(0, errors.New("route resolution failed"))
	env.OnActivity("EscalateFlow", mock.Anything, "flow-2").Return(nil)
	env.OnActivity("PublishFlowsGenerated", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(FlowGenerationWorkflow, FlowGenerationInput{ProjectID: "proj-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result FlowGenerationResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, 2, result.FlowCount)
	require.Equal(t, 4, result.QuoteLineCount)
	require.Equal(t, []string{"flow-2"}, result.FailedFlows)
	require.False(t, result.Success)
	env.AssertCalled(t, "EscalateFlow", mock.Anything, "flow-2")
}

func TestFlowGenerationWorkflow_PlanningFailure(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&activities.FlowActivities{})

	env.OnActivity("PlanProjectFlows", mock.Anything, "proj-1").
		Return(nil, errors.New("project not found: proj-1"))

	env.ExecuteWorkflow(FlowGenerationWorkflow, FlowGenerationInput{ProjectID: "proj-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
}
