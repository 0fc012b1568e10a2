package domain

import (
	"github.com/expoflow-platform/logistics-service/internal/config"
)

// CostBreakdown is the full crate pricing audit trail. Every intermediate
// value is retained for reporting; the breakdown is recomputed atomically,
// never partially updated.
type CostBreakdown struct {
	WoodSurfaceM2 float64 `bson:"woodSurfaceM2" json:"woodSurfaceM2"`
	WoodCost      float64 `bson:"woodCost" json:"woodCost"`
	FoamSurfaceM2 float64 `bson:"foamSurfaceM2" json:"foamSurfaceM2"`
	FoamCost      float64 `bson:"foamCost" json:"foamCost"`
	HardwareCost  float64 `bson:"hardwareCost" json:"hardwareCost"`
	FrameLengthM  float64 `bson:"frameLengthM,omitempty" json:"frameLengthM,omitempty"`
	FrameCost     float64 `bson:"frameCost,omitempty" json:"frameCost,omitempty"`
	MaterialCost  float64 `bson:"materialCost" json:"materialCost"`

	LaborHours float64 `bson:"laborHours" json:"laborHours"`
	LaborCost  float64 `bson:"laborCost" json:"laborCost"`

	DirectCost          float64 `bson:"directCost" json:"directCost"`
	OverheadCoefficient float64 `bson:"overheadCoefficient" json:"overheadCoefficient"`
	FactoryCost         float64 `bson:"factoryCost" json:"factoryCost"`
	Margin              float64 `bson:"margin" json:"margin"`
	SellingPrice        float64 `bson:"sellingPrice" json:"sellingPrice"`
	Currency            string  `bson:"currency" json:"currency"`
}

// CostCalculator turns a crate specification into a priced breakdown
type CostCalculator struct {
	tariffs  config.CostingTariffs
	currency string
}

// NewCostCalculator creates a cost calculator with the given tariffs
func NewCostCalculator(tariffs config.CostingTariffs, currency string) *CostCalculator {
	return &CostCalculator{tariffs: tariffs, currency: currency}
}

// Compute prices a crate specification
func (c *CostCalculator) Compute(spec *CrateSpecification) *CostBreakdown {
	t := c.tariffs

	woodSurface := facesSurfaceM2(spec.ExternalMm)
	woodCost := woodSurface * t.WoodPricePerM2

	foamSurface := facesSurfaceM2(spec.InternalMm)
	foamCost := foamSurface * t.FoamPricePerM2

	frameLength := 0.0
	frameCost := 0.0
	if spec.HasInternalFrame {
		frameLength = internalPerimeterM(spec.InternalMm)
		frameCost = frameLength * t.FramePricePerM
	}

	materialCost := woodCost + foamCost + t.HardwareCost + frameCost

	hours := laborHours(t, spec)
	laborCost := hours * t.ShopHourlyRate

	directCost := materialCost + laborCost
	factoryCost := directCost * t.OverheadCoefficient

	margin := t.MarginStandard
	if spec.Type == CrateTypeMuseum || spec.HasInternalFrame {
		margin = t.MarginMuseum
	}

	return &CostBreakdown{
		WoodSurfaceM2:       woodSurface,
		WoodCost:            woodCost,
		FoamSurfaceM2:       foamSurface,
		FoamCost:            foamCost,
		HardwareCost:        t.HardwareCost,
		FrameLengthM:        frameLength,
		FrameCost:           frameCost,
		MaterialCost:        materialCost,
		LaborHours:          hours,
		LaborCost:           laborCost,
		DirectCost:          directCost,
		OverheadCoefficient: t.OverheadCoefficient,
		FactoryCost:         factoryCost,
		Margin:              margin,
		SellingPrice:        factoryCost * margin,
		Currency:            c.currency,
	}
}

// laborHours looks up build hours by crate type and the volume cut
func laborHours(t config.CostingTariffs, spec *CrateSpecification) float64 {
	idx := 0
	if spec.BillableVolumeM3 >= t.LaborVolumeCutM3 {
		idx = 1
	}
	if spec.Type == CrateTypeMuseum {
		return t.LaborHoursMuseum[idx]
	}
	return t.LaborHoursGallery[idx]
}

// facesSurfaceM2 returns the summed area of the six faces of a box
func facesSurfaceM2(d CrateDimensionsMm) float64 {
	h := float64(d.Height) / 1000
	w := float64(d.Width) / 1000
	dp := float64(d.Depth) / 1000
	return 2 * (h*w + h*dp + w*dp)
}

// internalPerimeterM returns the height x width perimeter in meters, used for
// the internal travel frame
func internalPerimeterM(d CrateDimensionsMm) float64 {
	return 2 * (float64(d.Height) + float64(d.Width)) / 1000
}
