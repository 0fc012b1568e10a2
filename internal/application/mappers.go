package application

import (
	"github.com/expoflow-platform/logistics-service/internal/domain"
)

// ToProjectDTO maps a project aggregate to its API representation
func ToProjectDTO(p *domain.Project) *ProjectDTO {
	return &ProjectDTO{
		ProjectID:        p.ProjectID,
		Name:             p.Name,
		OrganizerCity:    p.OrganizerCity,
		OrganizerCountry: p.OrganizerCountry,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToCrateSpecDTO maps a crate specification
func ToCrateSpecDTO(s *domain.CrateSpecification) *CrateSpecDTO {
	if s == nil {
		return nil
	}
	return &CrateSpecDTO{
		Type:             string(s.Type),
		InternalMm:       s.InternalMm,
		ExternalMm:       s.ExternalMm,
		FoamThicknessMm:  s.FoamThicknessMm,
		WallThicknessMm:  s.WallThicknessMm,
		FrameThicknessMm: s.FrameThicknessMm,
		HasInternalFrame: s.HasInternalFrame,
		BillableVolumeM3: s.BillableVolumeM3,
	}
}

// ToCostBreakdownDTO maps a cost breakdown
func ToCostBreakdownDTO(c *domain.CostBreakdown) *CostBreakdownDTO {
	if c == nil {
		return nil
	}
	return &CostBreakdownDTO{
		WoodCost:     c.WoodCost,
		FoamCost:     c.FoamCost,
		HardwareCost: c.HardwareCost,
		FrameCost:    c.FrameCost,
		MaterialCost: c.MaterialCost,
		LaborHours:   c.LaborHours,
		LaborCost:    c.LaborCost,
		DirectCost:   c.DirectCost,
		FactoryCost:  c.FactoryCost,
		Margin:       c.Margin,
		SellingPrice: c.SellingPrice,
		Currency:     c.Currency,
	}
}

// ToArtworkDTO maps an artwork aggregate to its API representation
func ToArtworkDTO(a *domain.Artwork) *ArtworkDTO {
	return &ArtworkDTO{
		ArtworkID:         a.ArtworkID,
		ProjectID:         a.ProjectID,
		Title:             a.Title,
		Artist:            a.Artist,
		HeightCm:          a.HeightCm,
		WidthCm:           a.WidthCm,
		DepthCm:           a.DepthCm,
		WeightKg:          a.WeightKg,
		Typology:          string(a.Typology),
		Fragility:         a.Fragility,
		FragileFrame:      a.FragileFrame,
		InsuranceValue:    a.InsuranceValue,
		LenderCity:        a.LenderCity,
		LenderCountry:     a.LenderCountry,
		DestinationCity:   a.DestinationCity,
		SecondDestination: a.SecondDestination,
		FlowID:            a.FlowID,
		CrateSpec:         ToCrateSpecDTO(a.CrateSpec),
		CrateCost:         ToCostBreakdownDTO(a.CrateCost),
	}
}

// ToFlowDTO maps a logistics flow aggregate to its API representation
func ToFlowDTO(f *domain.LogisticsFlow) FlowDTO {
	return FlowDTO{
		FlowID:        f.FlowID,
		ProjectID:     f.ProjectID,
		OriginCity:    f.OriginCity,
		OriginCountry: f.OriginCountry,
		DestCity:      f.DestCity,
		DestCountry:   f.DestCountry,
		OriginGeo:     f.OriginGeo,
		DestGeo:       f.DestGeo,
		Type:          string(f.Type),
		Status:        string(f.Status),
		Carrier:       f.Carrier,
		IsReturn:      f.IsReturn,
		ArtworkIDs:    f.ArtworkIDs,
		DistanceKm:    f.DistanceKm,
		DurationHours: f.DurationHours,
		Transport:     f.Transport,
		Team:          f.Team,
		TeamCost:      f.TeamCost,
		MissionDays:   f.MissionDays,
		Timeline:      f.Timeline,
	}
}

// ToQuoteLineDTO maps a quote line to its API representation
func ToQuoteLineDTO(q *domain.QuoteLine) QuoteLineDTO {
	return QuoteLineDTO{
		LineID:             q.LineID,
		ProjectID:          q.ProjectID,
		FlowID:             q.FlowID,
		ArtworkID:          q.ArtworkID,
		Category:           string(q.Category),
		Description:        q.Description,
		Quantity:           q.Quantity,
		UnitPrice:          q.UnitPrice,
		TotalPrice:         q.TotalPrice,
		Currency:           q.Currency,
		Source:             string(q.Source),
		AppliedConstraints: q.AppliedConstraints,
	}
}

// ToGenerationResultDTO maps a generation run result
func ToGenerationResultDTO(r *GenerationResult) *GenerationResultDTO {
	dto := &GenerationResultDTO{
		Flows:      make([]FlowDTO, 0, len(r.Flows)),
		QuoteLines: make([]QuoteLineDTO, 0, len(r.QuoteLines)),
		Errors:     r.Errors,
	}
	for _, f := range r.Flows {
		dto.Flows = append(dto.Flows, ToFlowDTO(f))
	}
	for _, q := range r.QuoteLines {
		dto.QuoteLines = append(dto.QuoteLines, ToQuoteLineDTO(q))
	}
	return dto
}

// ToRuleActionDTO maps a rule action to its API representation
func ToRuleActionDTO(a domain.RuleAction) RuleActionDTO {
	dto := RuleActionDTO{
		Type:        string(a.Type),
		Constraint:  a.Constraint,
		Severity:    string(a.Severity),
		Description: a.Description,
		LineUpdate:  a.QuoteLineUpdate,
		FlowUpdate:  a.FlowUpdate,
		Project:     a.ProjectUpdate,
	}
	if a.QuoteLine != nil {
		line := ToQuoteLineDTO(a.QuoteLine)
		dto.QuoteLine = &line
	}
	return dto
}
