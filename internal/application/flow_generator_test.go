package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expoflow-platform/logistics-service/internal/config"
	"github.com/expoflow-platform/logistics-service/internal/domain"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
)

// stubRouteResolver returns a fixed route, optionally failing for a given
// origin city
type stubRouteResolver struct {
	distanceKm float64
	failOrigin string
}

func (s *stubRouteResolver) Resolve(_ context.Context, originCity, _, _, _ string) (*domain.Route, error) {
	if s.failOrigin != "" && originCity == s.failOrigin {
		return nil, errors.New("routing service unavailable")
	}
	return &domain.Route{DistanceKm: s.distanceKm, DurationHours: s.distanceKm / 80}, nil
}

type stubStaffingPlanner struct {
	members []domain.TeamMember
	days    float64
}

func (s *stubStaffingPlanner) Recommend(_ context.Context, _ int, _, _ float64, _ string) (*domain.StaffingRecommendation, error) {
	members := make([]domain.TeamMember, len(s.members))
	copy(members, s.members)
	return &domain.StaffingRecommendation{
		Members:             members,
		MissionDurationDays: s.days,
	}, nil
}

func newTestGenerator(routes domain.RouteResolver, staffing domain.StaffingPlanner) *FlowGenerator {
	tariffs := config.DefaultTariffs()
	logger := logging.New(logging.DefaultConfig("test"))
	return NewFlowGenerator(
		domain.NewGeoResolver(tariffs.Organizer.CountryCode),
		domain.NewPackingEngine(tariffs.Packing),
		domain.NewCostCalculator(tariffs.Costing, tariffs.Currency),
		domain.NewTransportCalculator(tariffs.Transport, tariffs.Handling),
		routes,
		staffing,
		tariffs,
		logger,
	)
}

func makeArtwork(t *testing.T, id, lenderCity, lenderCountry string) *domain.Artwork {
	t.Helper()
	a, err := domain.NewArtwork(id, "proj-1", "Piece "+id, 100, 80, 10, 20, domain.TypologyPainting, 2)
	require.NoError(t, err)
	a.LenderCity = lenderCity
	a.LenderCountry = lenderCountry
	return a
}

func TestFlowGenerator_PlanFlows_SharedKey(t *testing.T) {
	g := newTestGenerator(&stubRouteResolver{distanceKm: 400}, &stubStaffingPlanner{days: 2})
	project := domain.NewProject("proj-1", "Test", "Paris", "France")

	a1 := makeArtwork(t, "art-1", "Lyon", "France")
	a2 := makeArtwork(t, "art-2", "Lyon", "France")
	a3 := makeArtwork(t, "art-3", "Berlin", "Germany")

	flows := g.PlanFlows(project, []*domain.Artwork{a1, a2, a3})

	// Lyon->Paris shared, Berlin->Paris, plus two return legs
	require.Len(t, flows, 4)

	lyon := flows[0]
	assert.Equal(t, "Lyon", lyon.OriginCity)
	assert.Equal(t, "Paris", lyon.DestCity)
	assert.ElementsMatch(t, []string{"art-1", "art-2"}, lyon.ArtworkIDs)
	assert.Equal(t, domain.FlowTypeDomesticRoad, lyon.Type)

	// Artworks sharing a key share the flow id
	assert.Equal(t, a1.FlowID, a2.FlowID)
	assert.NotEqual(t, a1.FlowID, a3.FlowID)

	berlin := flows[2]
	assert.Equal(t, domain.FlowTypeEURoad, berlin.Type)

	returns := 0
	for _, f := range flows {
		if f.IsReturn {
			returns++
			assert.Empty(t, f.ArtworkIDs)
		}
	}
	assert.Equal(t, 2, returns)
}

func TestFlowGenerator_PlanFlows_TourSegments(t *testing.T) {
	g := newTestGenerator(&stubRouteResolver{distanceKm: 400}, &stubStaffingPlanner{days: 2})
	project := domain.NewProject("proj-1", "Test", "Paris", "France")

	a := makeArtwork(t, "art-1", "Madrid", "Spain")
	a.DestinationCity = "Paris"
	a.SecondDestination = "Berlin"

	flows := g.PlanFlows(project, []*domain.Artwork{a})

	// pickup->wp1, wp1->wp2, direct pickup->wp2, return wp2->pickup
	require.Len(t, flows, 4)
	assert.Equal(t, domain.FlowKey("Madrid", "Paris"), flows[0].Key())
	assert.Equal(t, domain.FlowKey("Paris", "Berlin"), flows[1].Key())
	assert.Equal(t, domain.FlowKey("Madrid", "Berlin"), flows[2].Key())
	assert.Equal(t, domain.FlowKey("Berlin", "Madrid"), flows[3].Key())
	assert.True(t, flows[3].IsReturn)
}

func TestFlowGenerator_PlanFlows_AirFreightAndEscalation(t *testing.T) {
	g := newTestGenerator(&stubRouteResolver{distanceKm: 5800}, &stubStaffingPlanner{days: 3})
	project := domain.NewProject("proj-1", "Test", "Paris", "France")

	a := makeArtwork(t, "art-1", "New York", "United States")
	a.RequiresCustoms = true

	flows := g.PlanFlows(project, []*domain.Artwork{a})
	require.NotEmpty(t, flows)

	pickup := flows[0]
	assert.Equal(t, domain.FlowTypeAirFreight, pickup.Type)
	assert.Equal(t, domain.FlowStatusPendingAgent, pickup.Status)
	assert.True(t, pickup.RequiresCustoms)
}

func TestFlowGenerator_Generate_QuoteLines(t *testing.T) {
	g := newTestGenerator(
		&stubRouteResolver{distanceKm: 460},
		&stubStaffingPlanner{
			members: []domain.TeamMember{{Role: "courier"}, {Role: "technician"}},
			days:    2,
		},
	)
	project := domain.NewProject("proj-1", "Test", "Paris", "France")

	a1 := makeArtwork(t, "art-1", "Lyon", "France")
	a2 := makeArtwork(t, "art-2", "Lyon", "France")

	result, err := g.Generate(context.Background(), project, []*domain.Artwork{a1, a2})
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	// Crates computed during generation
	require.NotNil(t, a1.CrateSpec)
	require.NotNil(t, a1.CrateCost)

	var transport, handling, packing, returnLines int
	for _, q := range result.QuoteLines {
		switch q.Category {
		case domain.CategoryTransport:
			if q.Source == domain.SourceEstimation && q.Quantity == 1 && q.FlowID != "" {
				transport++
			}
			if q.UnitPrice == config.DefaultTariffs().Transport.ReturnLegEstimate {
				returnLines++
			}
		case domain.CategoryHandling:
			handling++
		case domain.CategoryPacking:
			packing++
			assert.Equal(t, domain.SourceCalculation, q.Source)
		}
	}

	assert.Equal(t, 2, transport) // pickup leg + return leg
	assert.Equal(t, 1, returnLines)
	assert.Equal(t, 1, handling)
	assert.Equal(t, 2, packing)

	// Total equals quantity x unit price at creation
	for _, q := range result.QuoteLines {
		assert.InDelta(t, q.Quantity*q.UnitPrice, q.TotalPrice, 1e-9)
	}
}

func TestFlowGenerator_Generate_FailedSegmentDoesNotCorruptSiblings(t *testing.T) {
	g := newTestGenerator(
		&stubRouteResolver{distanceKm: 400, failOrigin: "Berlin"},
		&stubStaffingPlanner{days: 1},
	)
	project := domain.NewProject("proj-1", "Test", "Paris", "France")

	a1 := makeArtwork(t, "art-1", "Lyon", "France")
	a2 := makeArtwork(t, "art-2", "Berlin", "Germany")

	result, err := g.Generate(context.Background(), project, []*domain.Artwork{a1, a2})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Err, "routing service unavailable")

	// The Lyon flow was still fully priced
	var lyonPriced bool
	for _, f := range result.Flows {
		if f.OriginCity == "Lyon" && f.Transport != nil {
			lyonPriced = true
		}
	}
	assert.True(t, lyonPriced)
}

func TestFlowGenerator_Generate_CustomsLine(t *testing.T) {
	g := newTestGenerator(&stubRouteResolver{distanceKm: 5800}, &stubStaffingPlanner{days: 3})
	project := domain.NewProject("proj-1", "Test", "Paris", "France")

	a := makeArtwork(t, "art-1", "New York", "United States")
	a.RequiresCustoms = true

	result, err := g.Generate(context.Background(), project, []*domain.Artwork{a})
	require.NoError(t, err)

	var customs int
	for _, q := range result.QuoteLines {
		if q.Category == domain.CategoryCustoms {
			customs++
		}
	}
	assert.Equal(t, 1, customs)
}
