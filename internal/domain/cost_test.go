package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/expoflow-platform/logistics-service/internal/config"
)

func TestCostCalculator_Invariants(t *testing.T) {
	tariffs := config.DefaultTariffs()
	packing := NewPackingEngine(tariffs.Packing)
	costing := NewCostCalculator(tariffs.Costing, tariffs.Currency)

	artworks := []*Artwork{
		testArtwork(t, 180, 120, 10, 25, TypologyPainting, 2),
		testArtwork(t, 220, 180, 40, 95, TypologySculpture, 4),
		testArtwork(t, 60, 40, 30, 8, TypologyObject, 1),
	}

	for _, a := range artworks {
		spec := packing.ComputeCrate(a)
		breakdown := costing.Compute(spec)

		assert.InDelta(t, breakdown.DirectCost*breakdown.OverheadCoefficient, breakdown.FactoryCost, 1e-9)
		assert.InDelta(t, breakdown.FactoryCost*breakdown.Margin, breakdown.SellingPrice, 1e-9)
		assert.InDelta(t, breakdown.MaterialCost+breakdown.LaborCost, breakdown.DirectCost, 1e-9)
		assert.InDelta(t,
			breakdown.WoodCost+breakdown.FoamCost+breakdown.HardwareCost+breakdown.FrameCost,
			breakdown.MaterialCost, 1e-9)
		assert.Equal(t, "EUR", breakdown.Currency)
	}
}

func TestCostCalculator_MarginSelection(t *testing.T) {
	tariffs := config.DefaultTariffs()
	packing := NewPackingEngine(tariffs.Packing)
	costing := NewCostCalculator(tariffs.Costing, tariffs.Currency)

	gallery := costing.Compute(packing.ComputeCrate(testArtwork(t, 100, 80, 10, 20, TypologyPainting, 2)))
	assert.Equal(t, tariffs.Costing.MarginStandard, gallery.Margin)

	museum := costing.Compute(packing.ComputeCrate(testArtwork(t, 100, 80, 10, 95, TypologyObject, 2)))
	assert.Equal(t, tariffs.Costing.MarginMuseum, museum.Margin)

	framed := testArtwork(t, 100, 80, 10, 20, TypologyPainting, 2)
	framed.FragileFrame = true
	framedCost := costing.Compute(packing.ComputeCrate(framed))
	assert.Equal(t, tariffs.Costing.MarginMuseum, framedCost.Margin)
	assert.Greater(t, framedCost.FrameCost, 0.0)
	assert.Greater(t, framedCost.FrameLengthM, 0.0)
}

func TestCostCalculator_LaborHoursLookup(t *testing.T) {
	tariffs := config.DefaultTariffs()
	costing := NewCostCalculator(tariffs.Costing, tariffs.Currency)

	small := &CrateSpecification{
		Type:             CrateTypeGallery,
		InternalMm:       CrateDimensionsMm{Height: 500, Width: 500, Depth: 300},
		ExternalMm:       CrateDimensionsMm{Height: 650, Width: 530, Depth: 330},
		BillableVolumeM3: 0.11,
	}
	assert.Equal(t, tariffs.Costing.LaborHoursGallery[0], costing.Compute(small).LaborHours)

	large := &CrateSpecification{
		Type:             CrateTypeMuseum,
		InternalMm:       CrateDimensionsMm{Height: 2000, Width: 1500, Depth: 500},
		ExternalMm:       CrateDimensionsMm{Height: 2160, Width: 1544, Depth: 544},
		BillableVolumeM3: 1.81,
	}
	assert.Equal(t, tariffs.Costing.LaborHoursMuseum[1], costing.Compute(large).LaborHours)

	// Exactly at the cut falls on the large side
	boundary := &CrateSpecification{
		Type:             CrateTypeGallery,
		InternalMm:       CrateDimensionsMm{Height: 1000, Width: 1000, Depth: 1000},
		ExternalMm:       CrateDimensionsMm{Height: 1000, Width: 1000, Depth: 1000},
		BillableVolumeM3: 1.0,
	}
	assert.Equal(t, tariffs.Costing.LaborHoursGallery[1], costing.Compute(boundary).LaborHours)
}
