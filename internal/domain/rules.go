package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/expoflow-platform/logistics-service/internal/config"
)

// RuleEngine consumes a constraints matrix and the current project state and
// emits an ordered list of mutation actions. The engine performs no mutation
// itself and never reads its own pending actions: a single deterministic pass.
// Generated quote lines carry their constraint tag, and multiplier rules skip
// lines already tagged, so re-running after the caller applied a previous
// batch produces no duplicate surcharges.
type RuleEngine struct {
	tariffs  config.RuleTariffs
	currency string
}

// NewRuleEngine creates a rule engine with the given surcharge tariffs
func NewRuleEngine(tariffs config.RuleTariffs, currency string) *RuleEngine {
	return &RuleEngine{tariffs: tariffs, currency: currency}
}

// RuleInput bundles the read-only state a rule evaluation runs over
type RuleInput struct {
	Matrix     *ConstraintsMatrix
	Project    *Project
	Artworks   []*Artwork
	Flows      []*LogisticsFlow
	QuoteLines []*QuoteLine
}

// Evaluate runs every rule in order and returns the produced actions
func (e *RuleEngine) Evaluate(in RuleInput) []RuleAction {
	if in.Matrix == nil {
		return nil
	}

	var actions []RuleAction
	actions = append(actions, e.heightLimitRule(in)...)
	actions = append(actions, e.tailLiftRule(in)...)
	actions = append(actions, e.elevatorRule(in)...)
	actions = append(actions, e.armoredTruckRule(in)...)
	actions = append(actions, e.fixedSurchargeRules(in)...)
	actions = append(actions, e.nimp15Rule(in)...)
	actions = append(actions, e.acclimatizationRule(in)...)
	actions = append(actions, e.forbiddenMaterialsRule(in)...)
	actions = append(actions, e.workingHoursRules(in)...)
	actions = append(actions, e.hardDeadlineRule(in)...)
	return actions
}

// heightLimitRule converts dedicated-truck flows to art shuttles when the
// venue height limit is below the standard vehicle height
func (e *RuleEngine) heightLimitRule(in RuleInput) []RuleAction {
	limit := in.Matrix.Access.MaxHeightM
	if limit == nil || *limit >= e.tariffs.MaxVehicleHeightM {
		return nil
	}

	actions := []RuleAction{
		NewAlert(ConstraintHeightLimit, SeverityCritical,
			fmt.Sprintf("Venue height limit %.1f m is below standard vehicle height; dedicated trucks cannot access the site", *limit)),
	}

	for _, flow := range in.Flows {
		if flow.Type == FlowTypeDedicatedTruck {
			actions = append(actions, RuleAction{
				Type:        ActionUpdateFlow,
				Constraint:  ConstraintHeightLimit,
				Description: fmt.Sprintf("Convert flow %s to art shuttle (smaller vehicle)", flow.FlowID),
				FlowUpdate:  &FlowUpdate{FlowID: flow.FlowID, NewType: FlowTypeArtShuttle},
			})
		}
	}
	return actions
}

// tailLiftRule adds one surcharge line per flow
func (e *RuleEngine) tailLiftRule(in RuleInput) []RuleAction {
	if !in.Matrix.Access.TailLiftRequired {
		return nil
	}

	actions := []RuleAction{
		NewAlert(ConstraintTailLift, SeverityInfo, "Tail-lift vehicle required for venue access"),
	}

	for _, flow := range in.Flows {
		if hasTaggedLineForFlow(in.QuoteLines, ConstraintTailLift, flow.FlowID) {
			continue
		}
		line := e.newRuleLine(in.Project.ProjectID, CategoryTransport,
			fmt.Sprintf("Tail-lift vehicle surcharge (%s -> %s)", flow.OriginCity, flow.DestCity),
			1, e.tariffs.TailLiftSurcharge, ConstraintTailLift)
		line.FlowID = flow.FlowID
		actions = append(actions, RuleAction{
			Type:        ActionAddQuoteLine,
			Constraint:  ConstraintTailLift,
			Description: "Tail-lift vehicle surcharge",
			QuoteLine:   line,
		})
	}
	return actions
}

// elevatorRule flags crates that do not fit the venue elevator and prices a
// crane service per oversized artwork
func (e *RuleEngine) elevatorRule(in RuleInput) []RuleAction {
	access := in.Matrix.Access
	if !access.HasElevator() {
		return nil
	}

	var actions []RuleAction
	for _, a := range in.Artworks {
		if a.CrateSpec == nil || crateFitsElevator(a.CrateSpec, access) {
			continue
		}

		actions = append(actions, NewAlert(ConstraintElevator, SeverityCritical,
			fmt.Sprintf("Crate for artwork %q exceeds the elevator opening; crane service required", a.Title)))

		if hasTaggedLineForArtwork(in.QuoteLines, ConstraintElevator, a.ArtworkID) {
			continue
		}
		line := e.newRuleLine(in.Project.ProjectID, CategoryHandling,
			fmt.Sprintf("Crane service for oversized crate (%s)", a.Title),
			1, e.tariffs.CraneService, ConstraintElevator)
		line.ArtworkID = a.ArtworkID
		actions = append(actions, RuleAction{
			Type:        ActionAddQuoteLine,
			Constraint:  ConstraintElevator,
			Description: "Crane service for oversized crate",
			QuoteLine:   line,
		})
	}
	return actions
}

// crateFitsElevator checks the crate's external dimensions against the
// elevator opening on every provided axis
func crateFitsElevator(spec *CrateSpecification, access AccessConstraints) bool {
	if access.ElevatorHeightCm != nil && float64(spec.ExternalMm.Height)/10 > *access.ElevatorHeightCm {
		return false
	}
	if access.ElevatorWidthCm != nil && float64(spec.ExternalMm.Width)/10 > *access.ElevatorWidthCm {
		return false
	}
	if access.ElevatorDepthCm != nil && float64(spec.ExternalMm.Depth)/10 > *access.ElevatorDepthCm {
		return false
	}
	return true
}

// armoredTruckRule triples every estimation-sourced transport line. Firm
// agent quotes and manual lines are not touched.
func (e *RuleEngine) armoredTruckRule(in RuleInput) []RuleAction {
	if !in.Matrix.Security.ArmoredTruckRequired {
		return nil
	}

	actions := []RuleAction{
		NewAlert(ConstraintArmoredTruck, SeverityWarning, "Armored truck required; estimated transport costs multiplied"),
	}

	factor := e.tariffs.ArmoredMultiplier
	for _, line := range in.QuoteLines {
		if line.Category != CategoryTransport || line.Source != SourceEstimation {
			continue
		}
		if line.HasConstraint(ConstraintArmoredTruck) {
			continue
		}
		actions = append(actions, RuleAction{
			Type:        ActionUpdateQuoteLine,
			Constraint:  ConstraintArmoredTruck,
			Description: fmt.Sprintf("Armored truck surcharge on %q", line.Description),
			QuoteLineUpdate: &QuoteLineUpdate{
				LineID:     line.LineID,
				UnitPrice:  line.UnitPrice * factor,
				TotalPrice: line.TotalPrice * factor,
			},
		})
	}
	return actions
}

// fixedSurchargeRules covers police escort, courier supervision and tarmac
// access, each an independent fixed-price line
func (e *RuleEngine) fixedSurchargeRules(in RuleInput) []RuleAction {
	sec := in.Matrix.Security
	var actions []RuleAction

	type fixed struct {
		enabled     bool
		tag         string
		category    QuoteCategory
		description string
		price       float64
	}

	for _, f := range []fixed{
		{sec.PoliceEscortRequired, ConstraintPoliceEscort, CategorySecurity, "Police escort for convoy", e.tariffs.PoliceEscort},
		{sec.CourierSupervision, ConstraintCourierSupervision, CategoryCourier, "Courier supervision during transport", e.tariffs.CourierSupervision},
		{sec.TarmacAccessRequired, ConstraintTarmacAccess, CategorySecurity, "Tarmac access and airside supervision", e.tariffs.TarmacAccess},
	} {
		if !f.enabled {
			continue
		}
		actions = append(actions, NewAlert(f.tag, SeverityInfo, f.description+" required"))
		if hasTaggedLine(in.QuoteLines, f.tag) {
			continue
		}
		actions = append(actions, RuleAction{
			Type:        ActionAddQuoteLine,
			Constraint:  f.tag,
			Description: f.description,
			QuoteLine:   e.newRuleLine(in.Project.ProjectID, f.category, f.description, 1, f.price, f.tag),
		})
	}
	return actions
}

// nimp15Rule prices the wood certification fee per crated artwork
func (e *RuleEngine) nimp15Rule(in RuleInput) []RuleAction {
	if !in.Matrix.Packing.NIMP15Required {
		return nil
	}

	crated := 0
	for _, a := range in.Artworks {
		if a.CrateSpec != nil {
			crated++
		}
	}

	actions := []RuleAction{
		NewAlert(ConstraintNIMP15, SeverityInfo, "NIMP15 certified wood mandatory for all crates"),
	}
	if crated == 0 || hasTaggedLine(in.QuoteLines, ConstraintNIMP15) {
		return actions
	}

	actions = append(actions, RuleAction{
		Type:        ActionAddQuoteLine,
		Constraint:  ConstraintNIMP15,
		Description: "NIMP15 certification fee",
		QuoteLine: e.newRuleLine(in.Project.ProjectID, CategoryPacking,
			"NIMP15 certification per crate", float64(crated), e.tariffs.NIMP15PerCrate, ConstraintNIMP15),
	})
	return actions
}

// acclimatizationRule prices climate-controlled storage per started day
func (e *RuleEngine) acclimatizationRule(in RuleInput) []RuleAction {
	hours := in.Matrix.Packing.AcclimatizationHours
	if hours == nil || *hours <= 0 {
		return nil
	}

	days := math.Ceil(*hours / 24)
	actions := []RuleAction{
		NewAlert(ConstraintAcclimatization, SeverityWarning,
			fmt.Sprintf("Artworks require %.0f h acclimatization before installation", *hours)),
	}
	if hasTaggedLine(in.QuoteLines, ConstraintAcclimatization) {
		return actions
	}

	actions = append(actions, RuleAction{
		Type:        ActionAddQuoteLine,
		Constraint:  ConstraintAcclimatization,
		Description: "Climate-controlled storage for acclimatization",
		QuoteLine: e.newRuleLine(in.Project.ProjectID, CategoryHandling,
			"Climate-controlled storage per day", days, e.tariffs.ClimateStoragePerDay, ConstraintAcclimatization),
	})
	return actions
}

// forbiddenMaterialsRule alerts on any forbidden materials list and prices
// neutral replacement materials when a polyurethane-family term appears
func (e *RuleEngine) forbiddenMaterialsRule(in RuleInput) []RuleAction {
	materials := in.Matrix.Packing.ForbiddenMaterials
	if len(materials) == 0 {
		return nil
	}

	actions := []RuleAction{
		NewAlert(ConstraintForbiddenMaterials, SeverityWarning,
			fmt.Sprintf("Forbidden packing materials: %s", strings.Join(materials, ", "))),
	}

	if !containsPolyurethane(materials) || hasTaggedLine(in.QuoteLines, ConstraintNeutralMaterials) {
		return actions
	}

	crated := 0
	for _, a := range in.Artworks {
		if a.CrateSpec != nil {
			crated++
		}
	}
	if crated == 0 {
		return actions
	}

	actions = append(actions, RuleAction{
		Type:        ActionAddQuoteLine,
		Constraint:  ConstraintNeutralMaterials,
		Description: "Neutral packing materials replacing polyurethane foam",
		QuoteLine: e.newRuleLine(in.Project.ProjectID, CategoryPacking,
			"Neutral packing materials per crate", float64(crated), e.tariffs.NeutralMaterialsPerCrate, ConstraintNeutralMaterials),
	})
	return actions
}

func containsPolyurethane(materials []string) bool {
	for _, m := range materials {
		lower := strings.ToLower(m)
		if strings.Contains(lower, "polyurethane") || strings.Contains(lower, "polyuréthane") || strings.Contains(lower, "pu foam") {
			return true
		}
	}
	return false
}

// workingHoursRules multiplies estimation-sourced handling lines for night
// and Sunday work
func (e *RuleEngine) workingHoursRules(in RuleInput) []RuleAction {
	var actions []RuleAction

	type hoursRule struct {
		enabled bool
		tag     string
		factor  float64
		label   string
	}

	for _, r := range []hoursRule{
		{in.Matrix.Schedule.NightWorkRequired, ConstraintNightWork, e.tariffs.NightMultiplier, "Night work required"},
		{in.Matrix.Schedule.SundayWorkRequired, ConstraintSundayWork, e.tariffs.SundayMultiplier, "Sunday work required"},
	} {
		if !r.enabled {
			continue
		}
		actions = append(actions, NewAlert(r.tag, SeverityWarning,
			fmt.Sprintf("%s; estimated handling costs multiplied by %.1f", r.label, r.factor)))

		for _, line := range in.QuoteLines {
			if line.Category != CategoryHandling || line.Source != SourceEstimation {
				continue
			}
			if line.HasConstraint(r.tag) {
				continue
			}
			actions = append(actions, RuleAction{
				Type:        ActionUpdateQuoteLine,
				Constraint:  r.tag,
				Description: fmt.Sprintf("%s surcharge on %q", r.label, line.Description),
				QuoteLineUpdate: &QuoteLineUpdate{
					LineID:     line.LineID,
					UnitPrice:  line.UnitPrice * r.factor,
					TotalPrice: line.TotalPrice * r.factor,
				},
			})
		}
	}
	return actions
}

// hardDeadlineRule tightens the project end date, never relaxing a stricter
// existing one
func (e *RuleEngine) hardDeadlineRule(in RuleInput) []RuleAction {
	deadline := in.Matrix.Schedule.HardDeadline
	if deadline == nil {
		return nil
	}

	actions := []RuleAction{
		NewAlert(ConstraintHardDeadline, SeverityCritical,
			fmt.Sprintf("Hard installation deadline: %s", deadline.Format("2006-01-02"))),
	}

	if in.Project.EndDate == nil || in.Project.EndDate.After(*deadline) {
		d := *deadline
		actions = append(actions, RuleAction{
			Type:          ActionUpdateProject,
			Constraint:    ConstraintHardDeadline,
			Description:   "Align project end date with the tender deadline",
			ProjectUpdate: &ProjectUpdate{EndDate: &d},
		})
	}
	return actions
}

// newRuleLine builds a surcharge quote line pre-tagged with its constraint
func (e *RuleEngine) newRuleLine(projectID string, category QuoteCategory, description string, quantity, unitPrice float64, tag string) *QuoteLine {
	line := NewQuoteLine(uuid.New().String(), projectID, category, description, quantity, unitPrice, e.currency, SourceCalculation)
	line.MarkConstraint(tag)
	return line
}

func hasTaggedLine(lines []*QuoteLine, tag string) bool {
	for _, l := range lines {
		if l.HasConstraint(tag) {
			return true
		}
	}
	return false
}

func hasTaggedLineForFlow(lines []*QuoteLine, tag, flowID string) bool {
	for _, l := range lines {
		if l.FlowID == flowID && l.HasConstraint(tag) {
			return true
		}
	}
	return false
}

func hasTaggedLineForArtwork(lines []*QuoteLine, tag, artworkID string) bool {
	for _, l := range lines {
		if l.ArtworkID == artworkID && l.HasConstraint(tag) {
			return true
		}
	}
	return false
}
