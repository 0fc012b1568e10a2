package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expoflow-platform/logistics-service/internal/config"
)

func newRuleEngine() *RuleEngine {
	tariffs := config.DefaultTariffs()
	return NewRuleEngine(tariffs.Rules, tariffs.Currency)
}

func floatPtr(v float64) *float64 { return &v }

func emptyMatrix(projectID string) *ConstraintsMatrix {
	return &ConstraintsMatrix{ProjectID: projectID}
}

func actionsOfType(actions []RuleAction, actionType ActionType) []RuleAction {
	var out []RuleAction
	for _, a := range actions {
		if a.Type == actionType {
			out = append(out, a)
		}
	}
	return out
}

func TestRuleEngine_NoConstraintsNoActions(t *testing.T) {
	engine := newRuleEngine()

	actions := engine.Evaluate(RuleInput{
		Matrix:  emptyMatrix("proj-1"),
		Project: NewProject("proj-1", "Test", "Paris", "France"),
	})
	assert.Empty(t, actions)

	assert.Nil(t, engine.Evaluate(RuleInput{}))
}

func TestRuleEngine_HeightLimitConvertsDedicatedTrucks(t *testing.T) {
	engine := newRuleEngine()

	matrix := emptyMatrix("proj-1")
	matrix.Access.MaxHeightM = floatPtr(3.5)

	dedicated := NewLogisticsFlow("flow-1", "proj-1", "Paris", "France", "Lyon", "France", FlowTypeDedicatedTruck)
	road := NewLogisticsFlow("flow-2", "proj-1", "Paris", "France", "Berlin", "Germany", FlowTypeEURoad)

	actions := engine.Evaluate(RuleInput{
		Matrix:  matrix,
		Project: NewProject("proj-1", "Test", "Paris", "France"),
		Flows:   []*LogisticsFlow{dedicated, road},
	})

	alerts := actionsOfType(actions, ActionAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, ConstraintHeightLimit, alerts[0].Constraint)

	updates := actionsOfType(actions, ActionUpdateFlow)
	require.Len(t, updates, 1)
	assert.Equal(t, "flow-1", updates[0].FlowUpdate.FlowID)
	assert.Equal(t, FlowTypeArtShuttle, updates[0].FlowUpdate.NewType)
}

func TestRuleEngine_HeightLimitAboveVehicleHeightIgnored(t *testing.T) {
	engine := newRuleEngine()

	matrix := emptyMatrix("proj-1")
	matrix.Access.MaxHeightM = floatPtr(4.5)

	actions := engine.Evaluate(RuleInput{
		Matrix:  matrix,
		Project: NewProject("proj-1", "Test", "Paris", "France"),
		Flows: []*LogisticsFlow{
			NewLogisticsFlow("flow-1", "proj-1", "Paris", "France", "Lyon", "France", FlowTypeDedicatedTruck),
		},
	})
	assert.Empty(t, actions)
}

func TestRuleEngine_TailLiftSurchargePerFlow(t *testing.T) {
	engine := newRuleEngine()

	matrix := emptyMatrix("proj-1")
	matrix.Access.TailLiftRequired = true

	flows := []*LogisticsFlow{
		NewLogisticsFlow("flow-1", "proj-1", "Paris", "France", "Lyon", "France", FlowTypeDomesticRoad),
		NewLogisticsFlow("flow-2", "proj-1", "Paris", "France", "Berlin", "Germany", FlowTypeEURoad),
	}

	actions := engine.Evaluate(RuleInput{
		Matrix:  matrix,
		Project: NewProject("proj-1", "Test", "Paris", "France"),
		Flows:   flows,
	})

	adds := actionsOfType(actions, ActionAddQuoteLine)
	require.Len(t, adds, 2)
	for _, add := range adds {
		assert.Equal(t, ConstraintTailLift, add.Constraint)
		assert.True(t, add.QuoteLine.HasConstraint(ConstraintTailLift))
		assert.NotEmpty(t, add.QuoteLine.FlowID)
	}
}

func TestRuleEngine_ElevatorOversizedCrate(t *testing.T) {
	engine := newRuleEngine()
	packing := NewPackingEngine(config.DefaultTariffs().Packing)

	matrix := emptyMatrix("proj-1")
	matrix.Access.ElevatorHeightCm = floatPtr(200)
	matrix.Access.ElevatorWidthCm = floatPtr(120)

	big := testArtwork(t, 190, 150, 10, 30, TypologyPainting, 2)
	big.AssignCrate(packing.ComputeCrate(big), nil)

	small := testArtwork(t, 50, 40, 5, 4, TypologyPainting, 2)
	small.AssignCrate(packing.ComputeCrate(small), nil)

	uncrated := testArtwork(t, 300, 300, 300, 500, TypologyInstallation, 5)

	actions := engine.Evaluate(RuleInput{
		Matrix:   matrix,
		Project:  NewProject("proj-1", "Test", "Paris", "France"),
		Artworks: []*Artwork{big, small, uncrated},
	})

	// Only the crated oversized artwork triggers: one alert plus one crane line
	alerts := actionsOfType(actions, ActionAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)

	adds := actionsOfType(actions, ActionAddQuoteLine)
	require.Len(t, adds, 1)
	assert.Equal(t, big.ArtworkID, adds[0].QuoteLine.ArtworkID)
}

func TestRuleEngine_ArmoredTruckTriplesOnlyEstimatedTransport(t *testing.T) {
	engine := newRuleEngine()

	matrix := emptyMatrix("proj-1")
	matrix.Security.ArmoredTruckRequired = true

	estimated := NewQuoteLine("line-1", "proj-1", CategoryTransport, "Transport Paris-Lyon", 1, 450, "EUR", SourceEstimation)
	agent := NewQuoteLine("line-2", "proj-1", CategoryTransport, "Agent quote", 1, 900, "EUR", SourceAgent)
	manual := NewQuoteLine("line-3", "proj-1", CategoryTransport, "Manual entry", 1, 300, "EUR", SourceManual)
	handling := NewQuoteLine("line-4", "proj-1", CategoryHandling, "Handling", 1, 200, "EUR", SourceEstimation)

	actions := engine.Evaluate(RuleInput{
		Matrix:     matrix,
		Project:    NewProject("proj-1", "Test", "Paris", "France"),
		QuoteLines: []*QuoteLine{estimated, agent, manual, handling},
	})

	updates := actionsOfType(actions, ActionUpdateQuoteLine)
	require.Len(t, updates, 1)
	assert.Equal(t, "line-1", updates[0].QuoteLineUpdate.LineID)
	assert.InDelta(t, 450*3, updates[0].QuoteLineUpdate.UnitPrice, 1e-9)
	assert.InDelta(t, 450*3, updates[0].QuoteLineUpdate.TotalPrice, 1e-9)
}

func TestRuleEngine_NIMP15PerCratedArtwork(t *testing.T) {
	engine := newRuleEngine()
	packing := NewPackingEngine(config.DefaultTariffs().Packing)

	matrix := emptyMatrix("proj-1")
	matrix.Packing.NIMP15Required = true

	crated1 := testArtwork(t, 100, 80, 10, 20, TypologyPainting, 2)
	crated1.AssignCrate(packing.ComputeCrate(crated1), nil)
	crated2 := testArtwork(t, 60, 40, 30, 8, TypologyObject, 1)
	crated2.AssignCrate(packing.ComputeCrate(crated2), nil)
	uncrated := testArtwork(t, 60, 40, 30, 8, TypologyObject, 1)

	actions := engine.Evaluate(RuleInput{
		Matrix:   matrix,
		Project:  NewProject("proj-1", "Test", "Paris", "France"),
		Artworks: []*Artwork{crated1, crated2, uncrated},
	})

	adds := actionsOfType(actions, ActionAddQuoteLine)
	require.Len(t, adds, 1)
	assert.Equal(t, 2.0, adds[0].QuoteLine.Quantity)
	assert.InDelta(t, 2*45, adds[0].QuoteLine.TotalPrice, 1e-9)
}

func TestRuleEngine_AcclimatizationDays(t *testing.T) {
	engine := newRuleEngine()

	matrix := emptyMatrix("proj-1")
	matrix.Packing.AcclimatizationHours = floatPtr(36)

	actions := engine.Evaluate(RuleInput{
		Matrix:  matrix,
		Project: NewProject("proj-1", "Test", "Paris", "France"),
	})

	adds := actionsOfType(actions, ActionAddQuoteLine)
	require.Len(t, adds, 1)
	// 36 h rounds up to 2 days
	assert.Equal(t, 2.0, adds[0].QuoteLine.Quantity)
}

func TestRuleEngine_ForbiddenMaterials(t *testing.T) {
	engine := newRuleEngine()
	packing := NewPackingEngine(config.DefaultTariffs().Packing)

	crated := testArtwork(t, 100, 80, 10, 20, TypologyPainting, 2)
	crated.AssignCrate(packing.ComputeCrate(crated), nil)

	// A non-polyurethane term only raises a warning
	matrix := emptyMatrix("proj-1")
	matrix.Packing.ForbiddenMaterials = []string{"PVC"}
	actions := engine.Evaluate(RuleInput{
		Matrix:   matrix,
		Project:  NewProject("proj-1", "Test", "Paris", "France"),
		Artworks: []*Artwork{crated},
	})
	assert.Len(t, actionsOfType(actions, ActionAlert), 1)
	assert.Empty(t, actionsOfType(actions, ActionAddQuoteLine))

	// A polyurethane term adds the neutral materials line
	matrix.Packing.ForbiddenMaterials = []string{"PVC", "polyurethane foam"}
	actions = engine.Evaluate(RuleInput{
		Matrix:   matrix,
		Project:  NewProject("proj-1", "Test", "Paris", "France"),
		Artworks: []*Artwork{crated},
	})
	adds := actionsOfType(actions, ActionAddQuoteLine)
	require.Len(t, adds, 1)
	assert.Equal(t, ConstraintNeutralMaterials, adds[0].Constraint)
}

func TestRuleEngine_WorkingHoursMultipliers(t *testing.T) {
	engine := newRuleEngine()

	matrix := emptyMatrix("proj-1")
	matrix.Schedule.NightWorkRequired = true
	matrix.Schedule.SundayWorkRequired = true

	handling := NewQuoteLine("line-1", "proj-1", CategoryHandling, "Handling crew", 1, 200, "EUR", SourceEstimation)
	transport := NewQuoteLine("line-2", "proj-1", CategoryTransport, "Transport", 1, 450, "EUR", SourceEstimation)

	actions := engine.Evaluate(RuleInput{
		Matrix:     matrix,
		Project:    NewProject("proj-1", "Test", "Paris", "France"),
		QuoteLines: []*QuoteLine{handling, transport},
	})

	// One update per working-hours rule, both targeting the handling line
	updates := actionsOfType(actions, ActionUpdateQuoteLine)
	require.Len(t, updates, 2)
	assert.InDelta(t, 200*1.5, updates[0].QuoteLineUpdate.UnitPrice, 1e-9)
	assert.InDelta(t, 200*2.0, updates[1].QuoteLineUpdate.UnitPrice, 1e-9)
	for _, u := range updates {
		assert.Equal(t, "line-1", u.QuoteLineUpdate.LineID)
	}
}

func TestRuleEngine_HardDeadline(t *testing.T) {
	engine := newRuleEngine()
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	matrix := emptyMatrix("proj-1")
	matrix.Schedule.HardDeadline = &deadline

	// Unset end date gets aligned
	project := NewProject("proj-1", "Test", "Paris", "France")
	actions := engine.Evaluate(RuleInput{Matrix: matrix, Project: project})

	updates := actionsOfType(actions, ActionUpdateProject)
	require.Len(t, updates, 1)
	assert.True(t, updates[0].ProjectUpdate.EndDate.Equal(deadline))

	alerts := actionsOfType(actions, ActionAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)

	// A stricter existing deadline is never moved later
	earlier := deadline.AddDate(0, -2, 0)
	project.EndDate = &earlier
	actions = engine.Evaluate(RuleInput{Matrix: matrix, Project: project})
	assert.Empty(t, actionsOfType(actions, ActionUpdateProject))
}

func TestRuleEngine_RerunAfterApplyIsIdempotent(t *testing.T) {
	engine := newRuleEngine()

	matrix := emptyMatrix("proj-1")
	matrix.Access.TailLiftRequired = true
	matrix.Security.ArmoredTruckRequired = true
	matrix.Security.PoliceEscortRequired = true

	flow := NewLogisticsFlow("flow-1", "proj-1", "Paris", "France", "Lyon", "France", FlowTypeDomesticRoad)
	transport := NewQuoteLine("line-1", "proj-1", CategoryTransport, "Transport", 1, 450, "EUR", SourceEstimation)
	lines := []*QuoteLine{transport}

	first := engine.Evaluate(RuleInput{
		Matrix:     matrix,
		Project:    NewProject("proj-1", "Test", "Paris", "France"),
		Flows:      []*LogisticsFlow{flow},
		QuoteLines: lines,
	})

	// Apply the actions the way a caller would
	for _, action := range first {
		switch action.Type {
		case ActionAddQuoteLine:
			lines = append(lines, action.QuoteLine)
		case ActionUpdateQuoteLine:
			for _, l := range lines {
				if l.LineID == action.QuoteLineUpdate.LineID {
					factor := action.QuoteLineUpdate.UnitPrice / l.UnitPrice
					l.ApplyMultiplier(factor, action.Constraint)
				}
			}
		}
	}

	second := engine.Evaluate(RuleInput{
		Matrix:     matrix,
		Project:    NewProject("proj-1", "Test", "Paris", "France"),
		Flows:      []*LogisticsFlow{flow},
		QuoteLines: lines,
	})

	// Alerts repeat on every run, but no surcharge is produced twice
	assert.Empty(t, actionsOfType(second, ActionAddQuoteLine))
	assert.Empty(t, actionsOfType(second, ActionUpdateQuoteLine))
	assert.InDelta(t, 450*3, transport.UnitPrice, 1e-9)
}
