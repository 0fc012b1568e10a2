package application

import (
	"time"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

// ProjectDTO is the API representation of a project
type ProjectDTO struct {
	ProjectID        string     `json:"projectId"`
	Name             string     `json:"name"`
	OrganizerCity    string     `json:"organizerCity"`
	OrganizerCountry string     `json:"organizerCountry"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CrateSpecDTO is the API representation of a crate specification
type CrateSpecDTO struct {
	Type             string                   `json:"type"`
	InternalMm       domain.CrateDimensionsMm `json:"internalMm"`
	ExternalMm       domain.CrateDimensionsMm `json:"externalMm"`
	FoamThicknessMm  int                      `json:"foamThicknessMm"`
	WallThicknessMm  int                      `json:"wallThicknessMm"`
	FrameThicknessMm int                      `json:"frameThicknessMm,omitempty"`
	HasInternalFrame bool                     `json:"hasInternalFrame"`
	BillableVolumeM3 float64                  `json:"billableVolumeM3"`
}

// CostBreakdownDTO is the API representation of a crate cost breakdown
type CostBreakdownDTO struct {
	WoodCost     float64 `json:"woodCost"`
	FoamCost     float64 `json:"foamCost"`
	HardwareCost float64 `json:"hardwareCost"`
	FrameCost    float64 `json:"frameCost,omitempty"`
	MaterialCost float64 `json:"materialCost"`
	LaborHours   float64 `json:"laborHours"`
	LaborCost    float64 `json:"laborCost"`
	DirectCost   float64 `json:"directCost"`
	FactoryCost  float64 `json:"factoryCost"`
	Margin       float64 `json:"margin"`
	SellingPrice float64 `json:"sellingPrice"`
	Currency     string  `json:"currency"`
}

// ArtworkDTO is the API representation of an artwork
type ArtworkDTO struct {
	ArtworkID         string            `json:"artworkId"`
	ProjectID         string            `json:"projectId"`
	Title             string            `json:"title"`
	Artist            string            `json:"artist,omitempty"`
	HeightCm          float64           `json:"heightCm"`
	WidthCm           float64           `json:"widthCm"`
	DepthCm           float64           `json:"depthCm"`
	WeightKg          float64           `json:"weightKg"`
	Typology          string            `json:"typology"`
	Fragility         int               `json:"fragility"`
	FragileFrame      bool              `json:"fragileFrame"`
	InsuranceValue    float64           `json:"insuranceValue,omitempty"`
	LenderCity        string            `json:"lenderCity,omitempty"`
	LenderCountry     string            `json:"lenderCountry,omitempty"`
	DestinationCity   string            `json:"destinationCity,omitempty"`
	SecondDestination string            `json:"secondDestination,omitempty"`
	FlowID            string            `json:"flowId,omitempty"`
	CrateSpec         *CrateSpecDTO     `json:"crateSpec,omitempty"`
	CrateCost         *CostBreakdownDTO `json:"crateCost,omitempty"`
}

// FlowDTO is the API representation of a logistics flow
type FlowDTO struct {
	FlowID        string                     `json:"flowId"`
	ProjectID     string                     `json:"projectId"`
	OriginCity    string                     `json:"originCity"`
	OriginCountry string                     `json:"originCountry,omitempty"`
	DestCity      string                     `json:"destCity"`
	DestCountry   string                     `json:"destCountry,omitempty"`
	OriginGeo     domain.GeoInfo             `json:"originGeo"`
	DestGeo       domain.GeoInfo             `json:"destGeo"`
	Type          string                     `json:"type"`
	Status        string                     `json:"status"`
	Carrier       string                     `json:"carrier,omitempty"`
	IsReturn      bool                       `json:"isReturn"`
	ArtworkIDs    []string                   `json:"artworkIds,omitempty"`
	DistanceKm    float64                    `json:"distanceKm,omitempty"`
	DurationHours float64                    `json:"durationHours,omitempty"`
	Transport     *domain.TransportEstimate  `json:"transport,omitempty"`
	Team          []domain.TeamMember        `json:"team,omitempty"`
	TeamCost      *domain.TeamCostBreakdown  `json:"teamCost,omitempty"`
	MissionDays   float64                    `json:"missionDays,omitempty"`
	Timeline      []domain.TimelineStep      `json:"timeline,omitempty"`
}

// QuoteLineDTO is the API representation of a quote line
type QuoteLineDTO struct {
	LineID             string   `json:"lineId"`
	ProjectID          string   `json:"projectId"`
	FlowID             string   `json:"flowId,omitempty"`
	ArtworkID          string   `json:"artworkId,omitempty"`
	Category           string   `json:"category"`
	Description        string   `json:"description"`
	Quantity           float64  `json:"quantity"`
	UnitPrice          float64  `json:"unitPrice"`
	TotalPrice         float64  `json:"totalPrice"`
	Currency           string   `json:"currency"`
	Source             string   `json:"source"`
	AppliedConstraints []string `json:"appliedConstraints,omitempty"`
}

// GenerationResultDTO is the API representation of a generation run
type GenerationResultDTO struct {
	Flows      []FlowDTO      `json:"flows"`
	QuoteLines []QuoteLineDTO `json:"quoteLines"`
	Errors     []FlowError    `json:"errors,omitempty"`
}

// RuleActionDTO is the API representation of one rule-engine action
type RuleActionDTO struct {
	Type        string                  `json:"type"`
	Constraint  string                  `json:"constraint"`
	Severity    string                  `json:"severity,omitempty"`
	Description string                  `json:"description"`
	QuoteLine   *QuoteLineDTO           `json:"quoteLine,omitempty"`
	LineUpdate  *domain.QuoteLineUpdate `json:"quoteLineUpdate,omitempty"`
	FlowUpdate  *domain.FlowUpdate      `json:"flowUpdate,omitempty"`
	Project     *domain.ProjectUpdate   `json:"projectUpdate,omitempty"`
}

// ApplyConstraintsResultDTO is the outcome of a constraint application
type ApplyConstraintsResultDTO struct {
	Actions []RuleActionDTO `json:"actions"`
	Alerts  []RuleActionDTO `json:"alerts"`
}
