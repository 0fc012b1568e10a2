package domain

import (
	"math"
	"time"

	"github.com/expoflow-platform/logistics-service/internal/config"
)

// CrateType is the packaging tier for an artwork
type CrateType string

const (
	CrateTypeGallery CrateType = "gallery_grade"
	CrateTypeMuseum  CrateType = "museum_grade"
)

// CrateDimensionsMm holds crate dimensions in millimeters. All crate
// arithmetic stays in integer millimeters to avoid rounding drift; only the
// final billable volume is expressed in cubic meters.
type CrateDimensionsMm struct {
	Height int `bson:"height" json:"height"`
	Width  int `bson:"width" json:"width"`
	Depth  int `bson:"depth" json:"depth"`
}

// CrateSpecification is the immutable derived packaging snapshot for one
// artwork. It is recomputed, never patched, when dimensions change.
type CrateSpecification struct {
	Type             CrateType         `bson:"type" json:"type"`
	InternalMm       CrateDimensionsMm `bson:"internalMm" json:"internalMm"`
	ExternalMm       CrateDimensionsMm `bson:"externalMm" json:"externalMm"`
	FoamThicknessMm  int               `bson:"foamThicknessMm" json:"foamThicknessMm"`
	WallThicknessMm  int               `bson:"wallThicknessMm" json:"wallThicknessMm"`
	FrameThicknessMm int               `bson:"frameThicknessMm,omitempty" json:"frameThicknessMm,omitempty"`
	HasInternalFrame bool              `bson:"hasInternalFrame" json:"hasInternalFrame"`
	BillableVolumeM3 float64           `bson:"billableVolumeM3" json:"billableVolumeM3"`
	ComputedAt       time.Time         `bson:"computedAt" json:"computedAt"`
}

// PackingEngine maps an artwork's physical attributes to a crate
// specification. Pure decision tree; thresholds and thicknesses come from the
// tariff table.
type PackingEngine struct {
	tariffs config.PackingTariffs
}

// NewPackingEngine creates a packing engine with the given tariffs
func NewPackingEngine(tariffs config.PackingTariffs) *PackingEngine {
	return &PackingEngine{tariffs: tariffs}
}

// ComputeCrate derives the crate specification for an artwork.
// Decision order, first match wins:
//  1. weight or max dimension above the museum thresholds
//  2. painting with a fragile frame (adds an internal travel frame)
//  3. fragility at or above the museum threshold
//  4. gallery grade otherwise
func (e *PackingEngine) ComputeCrate(a *Artwork) *CrateSpecification {
	t := e.tariffs

	crateType := CrateTypeGallery
	hasFrame := false

	switch {
	case a.WeightKg > t.MuseumWeightThresholdKg || a.MaxDimensionCm() > t.MuseumDimensionThresholdCm:
		crateType = CrateTypeMuseum
	case a.Typology == TypologyPainting && a.FragileFrame:
		crateType = CrateTypeMuseum
		hasFrame = true
	case a.Fragility >= t.MuseumFragilityThreshold:
		crateType = CrateTypeMuseum
	}

	foam := t.FoamStandardMm
	if crateType == CrateTypeMuseum || a.Typology == TypologySculpture || a.Typology == TypologyInstallation {
		foam = t.FoamFragileMm
	}

	frame := 0
	if hasFrame {
		frame = t.FrameThicknessMm
	}

	wall := t.WallGalleryMm
	if crateType == CrateTypeMuseum {
		wall = t.WallMuseumMm
	}

	padding := 2*foam + 2*frame
	internal := CrateDimensionsMm{
		Height: cmToMm(a.HeightCm) + padding,
		Width:  cmToMm(a.WidthCm) + padding,
		Depth:  cmToMm(a.DepthCm) + padding,
	}

	external := CrateDimensionsMm{
		Height: internal.Height + 2*wall + t.PalletHeightMm,
		Width:  internal.Width + 2*wall,
		Depth:  internal.Depth + 2*wall,
	}

	return &CrateSpecification{
		Type:             crateType,
		InternalMm:       internal,
		ExternalMm:       external,
		FoamThicknessMm:  foam,
		WallThicknessMm:  wall,
		FrameThicknessMm: frame,
		HasInternalFrame: hasFrame,
		BillableVolumeM3: volumeM3(external),
		ComputedAt:       time.Now(),
	}
}

func cmToMm(cm float64) int {
	return int(math.Round(cm * 10))
}

func volumeM3(d CrateDimensionsMm) float64 {
	return float64(d.Height) * float64(d.Width) * float64(d.Depth) / 1e9
}
