package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expoflow-platform/logistics-service/internal/config"
)

func testArtwork(t *testing.T, heightCm, widthCm, depthCm, weightKg float64, typology Typology, fragility int) *Artwork {
	t.Helper()
	a, err := NewArtwork("art-1", "proj-1", "Test Piece", heightCm, widthCm, depthCm, weightKg, typology, fragility)
	require.NoError(t, err)
	return a
}

func TestPackingEngine_CrateTypeDecision(t *testing.T) {
	engine := NewPackingEngine(config.DefaultTariffs().Packing)

	tests := []struct {
		name         string
		artwork      *Artwork
		fragileFrame bool
		wantType     CrateType
		wantFrame    bool
	}{
		{
			name:     "light small sturdy artwork gets gallery grade",
			artwork:  testArtwork(t, 100, 80, 10, 20, TypologyPainting, 2),
			wantType: CrateTypeGallery,
		},
		{
			name:     "weight above threshold forces museum grade",
			artwork:  testArtwork(t, 100, 80, 10, 95, TypologyObject, 1),
			wantType: CrateTypeMuseum,
		},
		{
			name:     "dimension above threshold forces museum grade",
			artwork:  testArtwork(t, 230, 80, 10, 20, TypologyPainting, 1),
			wantType: CrateTypeMuseum,
		},
		{
			name:         "painting with fragile frame gets museum grade and travel frame",
			artwork:      testArtwork(t, 100, 80, 10, 20, TypologyPainting, 2),
			fragileFrame: true,
			wantType:     CrateTypeMuseum,
			wantFrame:    true,
		},
		{
			name:     "high fragility forces museum grade",
			artwork:  testArtwork(t, 100, 80, 10, 20, TypologyObject, 4),
			wantType: CrateTypeMuseum,
		},
		{
			name:         "weight threshold wins over frame rule",
			artwork:      testArtwork(t, 100, 80, 10, 120, TypologyPainting, 2),
			fragileFrame: true,
			wantType:     CrateTypeMuseum,
			wantFrame:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.artwork.FragileFrame = tt.fragileFrame
			spec := engine.ComputeCrate(tt.artwork)
			assert.Equal(t, tt.wantType, spec.Type)
			assert.Equal(t, tt.wantFrame, spec.HasInternalFrame)
		})
	}
}

func TestPackingEngine_FoamMargin(t *testing.T) {
	tariffs := config.DefaultTariffs().Packing
	engine := NewPackingEngine(tariffs)

	gallery := engine.ComputeCrate(testArtwork(t, 100, 80, 10, 20, TypologyPainting, 2))
	assert.Equal(t, tariffs.FoamStandardMm, gallery.FoamThicknessMm)
	assert.Equal(t, tariffs.WallGalleryMm, gallery.WallThicknessMm)

	// Sculptures get the fragile margin even in a gallery crate
	sculpture := engine.ComputeCrate(testArtwork(t, 100, 80, 40, 20, TypologySculpture, 2))
	assert.Equal(t, tariffs.FoamFragileMm, sculpture.FoamThicknessMm)

	museum := engine.ComputeCrate(testArtwork(t, 100, 80, 10, 95, TypologyObject, 2))
	assert.Equal(t, tariffs.FoamFragileMm, museum.FoamThicknessMm)
	assert.Equal(t, tariffs.WallMuseumMm, museum.WallThicknessMm)
}

func TestPackingEngine_DimensionOrdering(t *testing.T) {
	engine := NewPackingEngine(config.DefaultTariffs().Packing)

	artworks := []*Artwork{
		testArtwork(t, 180, 120, 10, 25, TypologyPainting, 2),
		testArtwork(t, 50, 50, 50, 90, TypologySculpture, 3),
		testArtwork(t, 210, 150, 30, 40, TypologyInstallation, 5),
	}

	for _, a := range artworks {
		spec := engine.ComputeCrate(a)

		assert.GreaterOrEqual(t, spec.InternalMm.Height, cmToMm(a.HeightCm))
		assert.GreaterOrEqual(t, spec.InternalMm.Width, cmToMm(a.WidthCm))
		assert.GreaterOrEqual(t, spec.InternalMm.Depth, cmToMm(a.DepthCm))

		assert.GreaterOrEqual(t, spec.ExternalMm.Height, spec.InternalMm.Height)
		assert.GreaterOrEqual(t, spec.ExternalMm.Width, spec.InternalMm.Width)
		assert.GreaterOrEqual(t, spec.ExternalMm.Depth, spec.InternalMm.Depth)

		assert.Greater(t, spec.BillableVolumeM3, 0.0)
	}
}

func TestPackingEngine_GalleryPaintingExample(t *testing.T) {
	tariffs := config.DefaultTariffs().Packing
	engine := NewPackingEngine(tariffs)

	// 180x120x10 cm, 25 kg, painting, fragility 2, no fragile frame
	a := testArtwork(t, 180, 120, 10, 25, TypologyPainting, 2)
	spec := engine.ComputeCrate(a)

	assert.Equal(t, CrateTypeGallery, spec.Type)
	assert.Equal(t, tariffs.FoamStandardMm, spec.FoamThicknessMm)
	assert.Equal(t, tariffs.WallGalleryMm, spec.WallThicknessMm)
	assert.False(t, spec.HasInternalFrame)

	// internal = raw mm + 2 x standard foam
	assert.Equal(t, 1800+2*tariffs.FoamStandardMm, spec.InternalMm.Height)
	assert.Equal(t, 1200+2*tariffs.FoamStandardMm, spec.InternalMm.Width)
	assert.Equal(t, 100+2*tariffs.FoamStandardMm, spec.InternalMm.Depth)

	// external = internal + 2 x gallery wall, pallet on height only
	assert.Equal(t, spec.InternalMm.Height+2*tariffs.WallGalleryMm+tariffs.PalletHeightMm, spec.ExternalMm.Height)
	assert.Equal(t, spec.InternalMm.Width+2*tariffs.WallGalleryMm, spec.ExternalMm.Width)
	assert.Equal(t, spec.InternalMm.Depth+2*tariffs.WallGalleryMm, spec.ExternalMm.Depth)

	wantVolume := float64(spec.ExternalMm.Height) * float64(spec.ExternalMm.Width) * float64(spec.ExternalMm.Depth) / 1e9
	assert.InDelta(t, wantVolume, spec.BillableVolumeM3, 1e-9)
}

func TestNewArtwork_BoundaryValidation(t *testing.T) {
	_, err := NewArtwork("a", "p", "t", -1, 10, 10, 5, TypologyPainting, 2)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = NewArtwork("a", "p", "t", 10, 10, 10, -5, TypologyPainting, 2)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = NewArtwork("a", "p", "t", 10, 10, 10, 5, TypologyPainting, 0)
	assert.ErrorIs(t, err, ErrInvalidFragility)

	_, err = NewArtwork("a", "p", "t", 10, 10, 10, 5, Typology("tapestry"), 2)
	assert.ErrorIs(t, err, ErrInvalidTypology)
}
