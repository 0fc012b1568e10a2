package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/expoflow-platform/logistics-service/internal/config"
	"github.com/expoflow-platform/logistics-service/internal/domain"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
)

// FlowGenerator clusters artworks into logistics flows, prices them through
// the packing/cost/transport engines and the external routing and staffing
// collaborators, and emits itemized quote lines. It never mutates persisted
// state: the caller applies the returned flows and lines.
type FlowGenerator struct {
	geo       *domain.GeoResolver
	packing   *domain.PackingEngine
	costing   *domain.CostCalculator
	transport *domain.TransportCalculator
	routes    domain.RouteResolver
	staffing  domain.StaffingPlanner
	tariffs   *config.Tariffs
	logger    *logging.Logger
}

// NewFlowGenerator wires the engines and external collaborators
func NewFlowGenerator(
	geo *domain.GeoResolver,
	packing *domain.PackingEngine,
	costing *domain.CostCalculator,
	transport *domain.TransportCalculator,
	routes domain.RouteResolver,
	staffing domain.StaffingPlanner,
	tariffs *config.Tariffs,
	logger *logging.Logger,
) *FlowGenerator {
	return &FlowGenerator{
		geo:       geo,
		packing:   packing,
		costing:   costing,
		transport: transport,
		routes:    routes,
		staffing:  staffing,
		tariffs:   tariffs,
		logger:    logger.WithComponent("flow_generator"),
	}
}

// FlowError records an enrichment failure for one flow. A failed segment
// never corrupts already-computed sibling segments.
type FlowError struct {
	FlowID string `json:"flowId"`
	Key    string `json:"key"`
	Err    string `json:"error"`
}

// GenerationResult is the full output of one generation run
type GenerationResult struct {
	Flows      []*domain.LogisticsFlow
	QuoteLines []*domain.QuoteLine
	Artworks   []*domain.Artwork
	Errors     []FlowError
}

// PlanFlows builds the deduplicated flow segments for a set of artworks.
// Pure planning: no external calls, no pricing. Artworks sharing an exact
// (origin city, destination city) pair share one flow.
func (g *FlowGenerator) PlanFlows(project *domain.Project, artworks []*domain.Artwork) []*domain.LogisticsFlow {
	byKey := make(map[string]*domain.LogisticsFlow)
	var ordered []*domain.LogisticsFlow

	segment := func(originCity, originCountry, destCity, destCountry string, isReturn bool) *domain.LogisticsFlow {
		key := domain.FlowKey(originCity, destCity)
		if flow, ok := byKey[key]; ok {
			return flow
		}

		originGeo := g.geo.Resolve(originCity, originCountry)
		destGeo := g.geo.Resolve(destCity, destCountry)

		flow := domain.NewLogisticsFlow(uuid.New().String(), project.ProjectID,
			originCity, originCountry, destCity, destCountry, flowType(originGeo, destGeo))
		flow.OriginGeo = originGeo
		flow.DestGeo = destGeo
		flow.IsReturn = isReturn

		byKey[key] = flow
		ordered = append(ordered, flow)
		return flow
	}

	for _, a := range artworks {
		originCity := a.LenderCity
		originCountry := a.LenderCountry
		if originCity == "" {
			originCity = g.tariffs.Organizer.City
			originCountry = g.tariffs.Organizer.Country
		}

		destCity := a.DestinationCity
		destCountry := ""
		if destCity == "" {
			destCity = g.tariffs.Organizer.City
			destCountry = g.tariffs.Organizer.Country
		}

		pickup := segment(originCity, originCountry, destCity, destCountry, false)
		pickup.AddArtwork(a.ArtworkID)
		a.AssignFlow(pickup.FlowID)

		lastCity := destCity
		if a.SecondDestination != "" {
			// Tour leg between the two waypoints, plus the direct
			// alternative kept for costing comparison
			tour := segment(destCity, destCountry, a.SecondDestination, "", false)
			tour.AddArtwork(a.ArtworkID)

			direct := segment(originCity, originCountry, a.SecondDestination, "", false)
			direct.AddArtwork(a.ArtworkID)

			lastCity = a.SecondDestination
		}

		// Return leg back to the pickup city; no artworks assigned, priced
		// as a flat estimation
		segment(lastCity, "", originCity, originCountry, true)

		if a.ImposedCarrier != "" {
			pickup.Carrier = a.ImposedCarrier
			pickup.CarrierImposed = true
			pickup.Escalate()
		}
		if a.RequiresCustoms {
			pickup.RequiresCustoms = true
			pickup.Escalate()
		}
		if a.RequiresCourier {
			pickup.Escalate()
		}
	}

	return ordered
}

// flowType classifies a segment by its endpoint geography: same country is
// domestic road, both trade-union members is intra-union road, anything else
// goes by air
func flowType(origin, dest domain.GeoInfo) domain.FlowType {
	switch {
	case origin.CountryCode == dest.CountryCode:
		return domain.FlowTypeDomesticRoad
	case origin.EUMember && dest.EUMember:
		return domain.FlowTypeEURoad
	default:
		return domain.FlowTypeAirFreight
	}
}

// EnrichFlow prices one flow: route lookup, transport cost, staffing
// recommendation, team cost and a default timeline. Returns the quote lines
// for this flow. External failures are returned to the caller; the flow is
// left in its planned state.
func (g *FlowGenerator) EnrichFlow(ctx context.Context, flow *domain.LogisticsFlow, flowArtworks []*domain.Artwork) ([]*domain.QuoteLine, error) {
	currency := g.tariffs.Currency
	projectID := flow.ProjectID

	if flow.IsReturn {
		// Empty return leg: flat estimation, lower confidence, no
		// external calls
		line := domain.NewQuoteLine(uuid.New().String(), projectID, domain.CategoryTransport,
			fmt.Sprintf("Return transport %s -> %s (estimated)", flow.OriginCity, flow.DestCity),
			1, g.tariffs.Transport.ReturnLegEstimate, currency, domain.SourceEstimation)
		line.FlowID = flow.FlowID
		return []*domain.QuoteLine{line}, nil
	}

	route, err := g.routes.Resolve(ctx, flow.OriginCity, flow.OriginCountry, flow.DestCity, flow.DestCountry)
	if err != nil {
		return nil, fmt.Errorf("route resolution failed for %s: %w", flow.Key(), err)
	}
	flow.SetRoute(route.DistanceKm, route.DurationHours)

	estimate := g.transport.EstimateTransport(flowArtworks, route.DistanceKm)
	flow.Transport = &estimate

	totalVolume := estimate.TotalVolumeM3
	rec, err := g.staffing.Recommend(ctx, len(flowArtworks), totalVolume, route.DistanceKm, flow.DestGeo.CountryCode)
	if err != nil {
		return nil, fmt.Errorf("staffing recommendation failed for %s: %w", flow.Key(), err)
	}

	teamCost := g.computeTeamCost(rec, flow.DestGeo.CountryCode)
	flow.Team = rec.Members
	flow.TeamCost = &teamCost
	flow.MissionDays = rec.MissionDurationDays

	flow.Timeline = []domain.TimelineStep{
		{
			Label:    fmt.Sprintf("Transport %s -> %s", flow.OriginCity, flow.DestCity),
			Location: flow.OriginCity,
		},
	}

	handlingCost := 0.0
	for _, a := range flowArtworks {
		handlingCost += g.transport.EstimateHandling(a).Cost
	}

	lines := []*domain.QuoteLine{}

	transportLine := domain.NewQuoteLine(uuid.New().String(), projectID, domain.CategoryTransport,
		fmt.Sprintf("Transport %s -> %s (%s)", flow.OriginCity, flow.DestCity, flow.Type),
		1, estimate.TotalCost, currency, domain.SourceEstimation)
	transportLine.FlowID = flow.FlowID
	lines = append(lines, transportLine)

	staffingTotal := handlingCost + teamCost.Total
	if staffingTotal > 0 {
		handlingLine := domain.NewQuoteLine(uuid.New().String(), projectID, domain.CategoryHandling,
			fmt.Sprintf("Handling and staffing %s -> %s", flow.OriginCity, flow.DestCity),
			1, staffingTotal, currency, domain.SourceEstimation)
		handlingLine.FlowID = flow.FlowID
		lines = append(lines, handlingLine)
	}

	if flow.Type == domain.FlowTypeAirFreight && anyRequiresCustoms(flowArtworks) {
		customsLine := domain.NewQuoteLine(uuid.New().String(), projectID, domain.CategoryCustoms,
			fmt.Sprintf("Customs handling %s -> %s", flow.OriginCity, flow.DestCity),
			1, g.tariffs.Customs.AirFreightFee, currency, domain.SourceEstimation)
		customsLine.FlowID = flow.FlowID
		lines = append(lines, customsLine)
	}

	return lines, nil
}

// computeTeamCost prices a staffing recommendation against the per-diem,
// hotel and day-rate tables
func (g *FlowGenerator) computeTeamCost(rec *domain.StaffingRecommendation, destCountryCode string) domain.TeamCostBreakdown {
	team := g.tariffs.Team

	perDiem := team.PerDiemDefault
	if v, ok := team.PerDiemByCountry[destCountryCode]; ok {
		perDiem = v
	}
	hotel := team.HotelDefault
	if v, ok := team.HotelByCountry[destCountryCode]; ok {
		hotel = v
	}

	var breakdown domain.TeamCostBreakdown
	for i := range rec.Members {
		member := &rec.Members[i]
		if member.Days == 0 {
			member.Days = rec.MissionDurationDays
		}
		if member.DayRate == 0 {
			member.DayRate = team.RoleDayDefault
			if v, ok := team.RoleDayRates[member.Role]; ok {
				member.DayRate = v
			}
		}

		breakdown.PerDiemTotal += perDiem * member.Days
		breakdown.HotelTotal += hotel * member.Days
		breakdown.DayRateTotal += member.DayRate * member.Days
	}

	breakdown.Total = breakdown.PerDiemTotal + breakdown.HotelTotal + breakdown.DayRateTotal
	return breakdown
}

func anyRequiresCustoms(artworks []*domain.Artwork) bool {
	for _, a := range artworks {
		if a.RequiresCustoms {
			return true
		}
	}
	return false
}

// Generate runs the whole pipeline: ensure every artwork has a crate and
// cost, plan the flow segments, enrich them sequentially and emit quote
// lines. Per-flow enrichment failures are collected; sibling flows keep
// their computed data.
func (g *FlowGenerator) Generate(ctx context.Context, project *domain.Project, artworks []*domain.Artwork) (*GenerationResult, error) {
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	for _, a := range artworks {
		if a.CrateSpec == nil {
			spec := g.packing.ComputeCrate(a)
			a.AssignCrate(spec, g.costing.Compute(spec))
		}
	}

	flows := g.PlanFlows(project, artworks)

	byID := make(map[string]*domain.Artwork, len(artworks))
	for _, a := range artworks {
		byID[a.ArtworkID] = a
	}

	result := &GenerationResult{
		Flows:    flows,
		Artworks: artworks,
	}

	for _, flow := range flows {
		flowArtworks := make([]*domain.Artwork, 0, len(flow.ArtworkIDs))
		for _, id := range flow.ArtworkIDs {
			if a, ok := byID[id]; ok {
				flowArtworks = append(flowArtworks, a)
			}
		}

		lines, err := g.EnrichFlow(ctx, flow, flowArtworks)
		if err != nil {
			g.logger.WithError(err).Warn("Flow enrichment failed",
				"flowId", flow.FlowID, "key", flow.Key())
			result.Errors = append(result.Errors, FlowError{
				FlowID: flow.FlowID,
				Key:    flow.Key(),
				Err:    err.Error(),
			})
			continue
		}
		result.QuoteLines = append(result.QuoteLines, lines...)
	}

	for _, a := range artworks {
		if a.CrateCost == nil {
			continue
		}
		line := domain.NewQuoteLine(uuid.New().String(), project.ProjectID, domain.CategoryPacking,
			fmt.Sprintf("Crate %s (%s)", a.Title, a.CrateSpec.Type),
			1, a.CrateCost.SellingPrice, g.tariffs.Currency, domain.SourceCalculation)
		line.ArtworkID = a.ArtworkID
		line.FlowID = a.FlowID
		result.QuoteLines = append(result.QuoteLines, line)
	}

	return result, nil
}
