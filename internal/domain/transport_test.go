package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/expoflow-platform/logistics-service/internal/config"
)

func newTransportCalculator() *TransportCalculator {
	tariffs := config.DefaultTariffs()
	return NewTransportCalculator(tariffs.Transport, tariffs.Handling)
}

// artworkWithVolume builds an artwork carrying a crate spec with an exact
// billable volume
func artworkWithVolume(t *testing.T, volumeM3 float64) *Artwork {
	t.Helper()
	a := testArtwork(t, 100, 100, 50, 30, TypologyObject, 2)
	a.CrateSpec = &CrateSpecification{
		Type:             CrateTypeGallery,
		BillableVolumeM3: volumeM3,
	}
	return a
}

func TestTransportCalculator_VehicleSelection(t *testing.T) {
	calc := newTransportCalculator()

	tests := []struct {
		name        string
		volumes     []float64
		distanceKm  float64
		wantVehicle VehicleClass
		wantCost    float64
	}{
		{
			name:        "below threshold selects light truck flat rate",
			volumes:     []float64{3.0, 4.5},
			distanceKm:  600,
			wantVehicle: VehicleLightTruck,
			wantCost:    450,
		},
		{
			name:        "exactly 12 cubic meters selects heavy truck",
			volumes:     []float64{6.0, 6.0},
			distanceKm:  100,
			wantVehicle: VehicleHeavyTruck,
			wantCost:    800 + 100*1.10,
		},
		{
			name:        "above threshold adds per km charge",
			volumes:     []float64{10.0, 8.0},
			distanceKm:  500,
			wantVehicle: VehicleHeavyTruck,
			wantCost:    800 + 500*1.10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var artworks []*Artwork
			for _, v := range tt.volumes {
				artworks = append(artworks, artworkWithVolume(t, v))
			}

			estimate := calc.EstimateTransport(artworks, tt.distanceKm)
			assert.Equal(t, tt.wantVehicle, estimate.Vehicle)
			assert.InDelta(t, tt.wantCost, estimate.TotalCost, 1e-9)
		})
	}
}

func TestTransportCalculator_VolumeFallback(t *testing.T) {
	calc := newTransportCalculator()

	// No crate spec yet: raw volume inflated by the safety factor
	a := testArtwork(t, 100, 100, 100, 30, TypologyObject, 2)
	assert.InDelta(t, 1.0*1.5, calc.BillableVolume(a), 1e-9)

	// With a crate spec the billable volume is used as is
	a.CrateSpec = &CrateSpecification{BillableVolumeM3: 2.4}
	assert.InDelta(t, 2.4, calc.BillableVolume(a), 1e-9)
}

func TestTransportCalculator_EstimateHandling(t *testing.T) {
	calc := newTransportCalculator()
	rate := config.DefaultTariffs().Handling.PackerHourlyRate

	tests := []struct {
		name        string
		artwork     *Artwork
		wantHours   float64
		wantWorkers int
	}{
		{
			name:        "small painting is a quarter hour",
			artwork:     testArtwork(t, 80, 60, 5, 10, TypologyPainting, 2),
			wantHours:   0.25,
			wantWorkers: 2,
		},
		{
			name:        "large painting takes longer",
			artwork:     testArtwork(t, 180, 120, 5, 25, TypologyPainting, 2),
			wantHours:   0.75,
			wantWorkers: 2,
		},
		{
			name:        "heavy sculpture needs a third worker",
			artwork:     testArtwork(t, 120, 80, 80, 75, TypologySculpture, 2),
			wantHours:   1.5,
			wantWorkers: 3,
		},
		{
			name:        "fragility multiplies time",
			artwork:     testArtwork(t, 80, 60, 5, 10, TypologyPainting, 5),
			wantHours:   0.25 * 1.5,
			wantWorkers: 2,
		},
		{
			name:        "installation needs a crew",
			artwork:     testArtwork(t, 200, 150, 100, 40, TypologyInstallation, 3),
			wantHours:   2.0,
			wantWorkers: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimate := calc.EstimateHandling(tt.artwork)
			assert.InDelta(t, tt.wantHours, estimate.Hours, 1e-9)
			assert.Equal(t, tt.wantWorkers, estimate.Workers)
			assert.InDelta(t, tt.wantHours*float64(tt.wantWorkers)*rate, estimate.Cost, 1e-9)
		})
	}
}
